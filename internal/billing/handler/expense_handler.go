package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yaufaniadam/invku/internal/billing/entity"
	"github.com/yaufaniadam/invku/internal/billing/service"
)

// ExpenseHandler serves expense CRUD.
type ExpenseHandler struct {
	expenses *service.ExpenseService
}

func NewExpenseHandler(expenses *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// List GET /api/expenses
func (h *ExpenseHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"category":   c.Query("category"),
		"vendor_id":  c.Query("vendor_id"),
		"start_date": c.Query("start_date"),
		"end_date":   c.Query("end_date"),
	}

	items, total, err := h.expenses.List(c.Request.Context(), GetUserID(c), page, pageSize, filters)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, listResponse(items, page, pageSize, total))
}

// Get GET /api/expenses/:id
func (h *ExpenseHandler) Get(c *gin.Context) {
	expense, err := h.expenses.Get(c.Request.Context(), GetUserID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, expense)
}

// Create POST /api/expenses
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req service.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	expense, err := h.expenses.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, expense)
}

// Update PUT /api/expenses/:id
func (h *ExpenseHandler) Update(c *gin.Context) {
	var req service.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	expense, err := h.expenses.Update(c.Request.Context(), GetUserID(c), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, expense)
}

// Delete DELETE /api/expenses/:id
func (h *ExpenseHandler) Delete(c *gin.Context) {
	if err := h.expenses.Delete(c.Request.Context(), GetUserID(c), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}

// Categories GET /api/expenses/categories
func (h *ExpenseHandler) Categories(c *gin.Context) {
	categories, err := h.expenses.Categories(c.Request.Context(), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{
		"categories":      categories,
		"payment_methods": entity.ExpensePaymentMethods,
	})
}
