package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yaufaniadam/invku/internal/billing/service"
)

// PaymentHandler serves the payment and deposit ledger.
type PaymentHandler struct {
	payments *service.PaymentService
}

func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// List GET /api/payments
func (h *PaymentHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"type":       c.Query("type"),
		"client_id":  c.Query("client_id"),
		"invoice_id": c.Query("invoice_id"),
		"start_date": c.Query("start_date"),
		"end_date":   c.Query("end_date"),
	}

	items, total, err := h.payments.List(c.Request.Context(), GetUserID(c), page, pageSize, filters)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, listResponse(items, page, pageSize, total))
}

// Get GET /api/payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	payment, err := h.payments.Get(c.Request.Context(), GetUserID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, payment)
}

// Record POST /api/payments
func (h *PaymentHandler) Record(c *gin.Context) {
	var req service.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	payment, err := h.payments.RecordPayment(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, payment)
}

// RecordDeposit POST /api/deposits
func (h *PaymentHandler) RecordDeposit(c *gin.Context) {
	var req service.RecordDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	payment, err := h.payments.RecordDeposit(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, payment)
}

// UploadProof POST /api/payments/:id/proof
func (h *PaymentHandler) UploadProof(c *gin.Context) {
	fileHeader, err := c.FormFile("proof")
	if err != nil {
		BadRequest(c, "proof file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	defer file.Close()

	payment, err := h.payments.UploadProof(
		c.Request.Context(),
		GetUserID(c),
		c.Param("id"),
		fileHeader.Filename,
		file,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, payment)
}

// ProofURL GET /api/payments/:id/proof
func (h *PaymentHandler) ProofURL(c *gin.Context) {
	url, err := h.payments.ProofURL(c.Request.Context(), GetUserID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"url": url})
}

// DepositSummaries GET /api/deposits
func (h *PaymentHandler) DepositSummaries(c *gin.Context) {
	summaries, err := h.payments.DepositSummaries(c.Request.Context(), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, summaries)
}

// BalanceDue GET /api/invoices/:id/balance
func (h *PaymentHandler) BalanceDue(c *gin.Context) {
	balance, err := h.payments.BalanceDue(c.Request.Context(), GetUserID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"invoice_id": c.Param("id"), "balance_due": balance})
}
