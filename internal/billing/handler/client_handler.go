package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yaufaniadam/invku/internal/billing/service"
)

// ClientHandler serves client CRUD and deposit lookups.
type ClientHandler struct {
	clients  *service.ClientService
	payments *service.PaymentService
}

func NewClientHandler(clients *service.ClientService, payments *service.PaymentService) *ClientHandler {
	return &ClientHandler{clients: clients, payments: payments}
}

// List GET /api/clients
func (h *ClientHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.clients.List(c.Request.Context(), GetUserID(c), page, pageSize, c.Query("search"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, listResponse(items, page, pageSize, total))
}

// Get GET /api/clients/:id
func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.clients.Get(c.Request.Context(), GetUserID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, client)
}

// Create POST /api/clients
func (h *ClientHandler) Create(c *gin.Context) {
	var req service.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	client, err := h.clients.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, client)
}

// Update PUT /api/clients/:id
func (h *ClientHandler) Update(c *gin.Context) {
	var req service.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	client, err := h.clients.Update(c.Request.Context(), GetUserID(c), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, client)
}

// Delete DELETE /api/clients/:id
func (h *ClientHandler) Delete(c *gin.Context) {
	if err := h.clients.Delete(c.Request.Context(), GetUserID(c), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}

// DepositBalance GET /api/clients/:id/deposit-balance
func (h *ClientHandler) DepositBalance(c *gin.Context) {
	balance, err := h.payments.DepositBalance(c.Request.Context(), GetUserID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"client_id": c.Param("id"), "deposit_balance": balance})
}
