package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yaufaniadam/invku/internal/billing/service"
)

// SubscriptionHandler serves subscription CRUD and the reminder trigger.
type SubscriptionHandler struct {
	subscriptions *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptions *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

// List GET /api/subscriptions
func (h *SubscriptionHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	overview, err := h.subscriptions.List(c.Request.Context(), GetUserID(c), activeOnly)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, overview)
}

// Get GET /api/subscriptions/:id
func (h *SubscriptionHandler) Get(c *gin.Context) {
	sub, err := h.subscriptions.Get(c.Request.Context(), GetUserID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, sub)
}

// Create POST /api/subscriptions
func (h *SubscriptionHandler) Create(c *gin.Context) {
	var req service.SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	sub, err := h.subscriptions.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, sub)
}

// Update PUT /api/subscriptions/:id
func (h *SubscriptionHandler) Update(c *gin.Context) {
	var req service.SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	sub, err := h.subscriptions.Update(c.Request.Context(), GetUserID(c), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, sub)
}

// Delete DELETE /api/subscriptions/:id
func (h *SubscriptionHandler) Delete(c *gin.Context) {
	if err := h.subscriptions.Delete(c.Request.Context(), GetUserID(c), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}

// SendReminders POST /api/subscriptions/send-reminders
// Admin-only manual trigger for the renewal reminder scan.
func (h *SubscriptionHandler) SendReminders(c *gin.Context) {
	sent, err := h.subscriptions.SendRenewalReminders(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"sent": sent})
}
