package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yaufaniadam/invku/internal/billing/service"
)

// InvoiceHandler serves invoice CRUD, numbering and status updates.
type InvoiceHandler struct {
	invoices *service.InvoiceService
}

func NewInvoiceHandler(invoices *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// List GET /api/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"status":     c.Query("status"),
		"client_id":  c.Query("client_id"),
		"search":     c.Query("search"),
		"start_date": c.Query("start_date"),
		"end_date":   c.Query("end_date"),
	}

	items, total, err := h.invoices.List(c.Request.Context(), GetUserID(c), page, pageSize, filters)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, listResponse(items, page, pageSize, total))
}

// Get GET /api/invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	detail, err := h.invoices.Get(c.Request.Context(), GetUserID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, detail)
}

// Create POST /api/invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req service.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoices.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, invoice)
}

// Update PUT /api/invoices/:id
func (h *InvoiceHandler) Update(c *gin.Context) {
	var req service.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoices.Update(c.Request.Context(), GetUserID(c), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, invoice)
}

// UpdateStatus PATCH /api/invoices/:id/status
func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if err := h.invoices.UpdateStatus(c.Request.Context(), GetUserID(c), c.Param("id"), req.Status); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"status": req.Status})
}

// Receipt GET /api/invoices/:id/receipt
func (h *InvoiceHandler) Receipt(c *gin.Context) {
	receipt, err := h.invoices.Receipt(c.Request.Context(), GetUserID(c), c.Param("id"), c.Query("payment_id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, receipt)
}

// Delete DELETE /api/invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	if err := h.invoices.Delete(c.Request.Context(), GetUserID(c), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}

// NextNumber GET /api/invoices/next-number
func (h *InvoiceHandler) NextNumber(c *gin.Context) {
	number, err := h.invoices.NextNumber(c.Request.Context(), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"number": number})
}
