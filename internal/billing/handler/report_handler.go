package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yaufaniadam/invku/internal/billing/service"
)

// ReportHandler serves dashboard figures and report exports.
type ReportHandler struct {
	reports *service.ReportService
}

func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Dashboard GET /api/dashboard
func (h *ReportHandler) Dashboard(c *gin.Context) {
	summary, err := h.reports.Dashboard(c.Request.Context(), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, summary)
}

// Cashflow GET /api/reports/cashflow
func (h *ReportHandler) Cashflow(c *gin.Context) {
	rows, err := h.reports.Cashflow(c.Request.Context(), GetUserID(c), monthsParam(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, rows)
}

// ExpensesByCategory GET /api/reports/expenses-by-category
func (h *ReportHandler) ExpensesByCategory(c *gin.Context) {
	totals, err := h.reports.ExpensesByCategory(c.Request.Context(), GetUserID(c), monthsParam(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, totals)
}

// Clients GET /api/reports/clients
func (h *ReportHandler) Clients(c *gin.Context) {
	rows, err := h.reports.ClientReport(
		c.Request.Context(),
		GetUserID(c),
		c.Query("search"),
		c.Query("sort"),
		c.Query("dir") == "desc",
	)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, rows)
}

// ExportCashflow GET /api/reports/cashflow/export
func (h *ReportHandler) ExportCashflow(c *gin.Context) {
	buf, err := h.reports.ExportCashflowXLSX(c.Request.Context(), GetUserID(c), monthsParam(c))
	if err != nil {
		RespondError(c, err)
		return
	}

	filename := fmt.Sprintf("cashflow-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ExportInvoices GET /api/reports/invoices/export
func (h *ReportHandler) ExportInvoices(c *gin.Context) {
	filters := map[string]string{
		"status":     c.Query("status"),
		"client_id":  c.Query("client_id"),
		"start_date": c.Query("start_date"),
		"end_date":   c.Query("end_date"),
	}

	buf, err := h.reports.ExportInvoicesXLSX(c.Request.Context(), GetUserID(c), filters)
	if err != nil {
		RespondError(c, err)
		return
	}

	filename := fmt.Sprintf("invoices-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func monthsParam(c *gin.Context) int {
	if m := c.Query("months"); m != "" {
		if v, err := strconv.Atoi(m); err == nil && v > 0 && v <= 36 {
			return v
		}
	}
	return 6
}
