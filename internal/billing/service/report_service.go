package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/yaufaniadam/invku/internal/billing/repository"
)

// ReportService aggregates the ledger into dashboard and report figures.
type ReportService struct {
	invoices      *repository.InvoiceRepository
	payments      *repository.PaymentRepository
	expenses      *repository.ExpenseRepository
	orders        *repository.OrderRepository
	subscriptions *repository.SubscriptionRepository
	now           func() time.Time
}

func NewReportService(repos *repository.Repositories) *ReportService {
	return &ReportService{
		invoices:      repos.Invoice,
		payments:      repos.Payment,
		expenses:      repos.Expense,
		orders:        repos.Order,
		subscriptions: repos.Subscription,
		now:           time.Now,
	}
}

// DashboardSummary is the landing-page snapshot of the business.
type DashboardSummary struct {
	RevenueThisMonth  decimal.Decimal         `json:"revenue_this_month"`
	ExpensesThisMonth decimal.Decimal         `json:"expenses_this_month"`
	NetThisMonth      decimal.Decimal         `json:"net_this_month"`
	Outstanding       decimal.Decimal         `json:"outstanding"`
	InvoiceCounts     map[string]int64        `json:"invoice_counts"`
	Orders            *repository.OrderTotals `json:"orders"`
	SubscriptionBurn  decimal.Decimal         `json:"subscription_burn"`
}

// MonthlyCashflow is one month's revenue against spend.
type MonthlyCashflow struct {
	Month    string          `json:"month"`
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// Dashboard builds the summary for the current month.
func (s *ReportService) Dashboard(ctx context.Context, userID string) (*DashboardSummary, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	revenue, err := s.payments.ReceivedTotal(ctx, userID, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}
	spent, err := s.expenses.SpentTotal(ctx, userID, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("sum expenses: %w", err)
	}
	outstanding, err := s.invoices.OutstandingTotal(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("sum outstanding: %w", err)
	}
	counts, err := s.invoices.StatusCounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count invoices: %w", err)
	}
	orderTotals, err := s.orders.Totals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("sum orders: %w", err)
	}

	subs, err := s.subscriptions.FindAll(ctx, userID, true)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	burn := decimal.Zero
	for _, sub := range subs {
		burn = burn.Add(sub.MonthlyCost())
	}

	return &DashboardSummary{
		RevenueThisMonth:  revenue,
		ExpensesThisMonth: spent,
		NetThisMonth:      revenue.Sub(spent),
		Outstanding:       outstanding,
		InvoiceCounts:     counts,
		Orders:            orderTotals,
		SubscriptionBurn:  burn,
	}, nil
}

// Cashflow returns month-by-month revenue and spend over the trailing window.
func (s *ReportService) Cashflow(ctx context.Context, userID string, months int) ([]MonthlyCashflow, error) {
	if months <= 0 {
		months = 6
	}
	now := s.now()
	end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
	start := end.AddDate(0, -months, 0)

	revenue, err := s.invoices.MonthlyRevenue(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("monthly revenue: %w", err)
	}
	spend, err := s.expenses.MonthlySpend(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("monthly spend: %w", err)
	}

	rows := make([]MonthlyCashflow, 0, months)
	for m := start; m.Before(end); m = m.AddDate(0, 1, 0) {
		key := m.Format("2006-01")
		rev := revenue[key]
		exp := spend[key]
		rows = append(rows, MonthlyCashflow{
			Month:    key,
			Revenue:  rev,
			Expenses: exp,
			Net:      rev.Sub(exp),
		})
	}
	return rows, nil
}

// ExpensesByCategory sums the trailing window's expenses per category with
// display labels.
func (s *ReportService) ExpensesByCategory(ctx context.Context, userID string, months int) (map[string]decimal.Decimal, error) {
	if months <= 0 {
		months = 1
	}
	now := s.now()
	end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
	start := end.AddDate(0, -months, 0)
	return s.expenses.TotalsByCategory(ctx, userID, start, end)
}

// ClientReport lists billed/paid/outstanding per client.
func (s *ReportService) ClientReport(ctx context.Context, userID, search, sortBy string, desc bool) ([]repository.ClientReportRow, error) {
	return s.invoices.ClientReport(ctx, userID, search, sortBy, desc)
}

// ExportCashflowXLSX renders the cashflow report as a spreadsheet.
func (s *ReportService) ExportCashflowXLSX(ctx context.Context, userID string, months int) (*bytes.Buffer, error) {
	rows, err := s.Cashflow(ctx, userID, months)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Cashflow"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Month", "Revenue", "Expenses", "Net"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		values := []interface{}{
			row.Month,
			row.Revenue.InexactFloat64(),
			row.Expenses.InexactFloat64(),
			row.Net.InexactFloat64(),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write spreadsheet: %w", err)
	}
	return buf, nil
}

// ExportInvoicesXLSX renders the user's invoices in the window as a
// spreadsheet for bookkeeping handoff.
func (s *ReportService) ExportInvoicesXLSX(ctx context.Context, userID string, filters map[string]string) (*bytes.Buffer, error) {
	invoices, _, err := s.invoices.FindAll(ctx, userID, 1, 10000, filters)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Invoices"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Number", "Client", "Issue Date", "Due Date", "Status", "Subtotal", "Tax", "Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	now := s.now()
	for i, inv := range invoices {
		clientName := ""
		if inv.Client != nil {
			clientName = inv.Client.Name
		}
		values := []interface{}{
			inv.Number,
			clientName,
			inv.IssueDate.Format("2006-01-02"),
			inv.DueDate.Format("2006-01-02"),
			inv.DisplayStatus(now),
			inv.Subtotal.InexactFloat64(),
			inv.TaxAmount.InexactFloat64(),
			inv.TotalAmount.InexactFloat64(),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write spreadsheet: %w", err)
	}
	return buf, nil
}
