package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yaufaniadam/invku/internal/billing/entity"
	"github.com/yaufaniadam/invku/internal/billing/repository"
)

// InvoiceService creates, edits and settles invoices.
type InvoiceService struct {
	invoices *repository.InvoiceRepository
	payments *repository.PaymentRepository
	clients  *repository.ClientRepository
	profiles *repository.ProfileRepository
	lock     OwnerLock
	now      func() time.Time
}

func NewInvoiceService(repos *repository.Repositories, lock OwnerLock) *InvoiceService {
	if lock == nil {
		lock = noopOwnerLock{}
	}
	return &InvoiceService{
		invoices: repos.Invoice,
		payments: repos.Payment,
		clients:  repos.Client,
		profiles: repos.Profile,
		lock:     lock,
		now:      time.Now,
	}
}

// CreateInvoiceRequest carries the full invoice payload. Items replace any
// existing set wholesale.
type CreateInvoiceRequest struct {
	ClientID  string          `json:"client_id" binding:"required"`
	OrderID   *string         `json:"order_id"`
	Number    string          `json:"number"`
	IssueDate string          `json:"issue_date" binding:"required"`
	DueDate   string          `json:"due_date" binding:"required"`
	Status    string          `json:"status"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	IsRounded bool            `json:"is_rounded"`
	Notes     string          `json:"notes"`
	Items     []ItemInput     `json:"items" binding:"required"`
}

// InvoiceDetail is an invoice with its derived money figures.
type InvoiceDetail struct {
	Invoice        *entity.Invoice `json:"invoice"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	BalanceDue     decimal.Decimal `json:"balance_due"`
	RoundingAmount decimal.Decimal `json:"rounding_amount"`
	DisplayStatus  string          `json:"display_status"`
	AmountInWords  string          `json:"amount_in_words"`
}

// NextNumber previews the next invoice number for the user, using the prefix
// from their profile.
func (s *InvoiceService) NextNumber(ctx context.Context, userID string) (string, error) {
	prefix := s.numberPrefix(ctx, userID)
	return NextNumber(ctx, s.invoices, userID, prefix, InvoiceNumberPad)
}

func (s *InvoiceService) numberPrefix(ctx context.Context, userID string) string {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil || profile.NumberPrefix == "" {
		return "INV"
	}
	return profile.NumberPrefix
}

// Create builds the invoice with computed totals and stores it with its items
// atomically. An empty number is generated under the owner's numbering lock.
func (s *InvoiceService) Create(ctx context.Context, userID string, req *CreateInvoiceRequest) (*entity.Invoice, error) {
	issueDate, dueDate, err := parseInvoiceDates(req.IssueDate, req.DueDate)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = entity.InvoiceStatusDraft
	}
	if err := ValidateStatus(status); err != nil {
		return nil, err
	}

	if _, err := s.clients.FindByID(ctx, userID, req.ClientID); err != nil {
		return nil, fmt.Errorf("find client: %w", err)
	}

	totals, err := ComputeTotals(req.Items, req.TaxRate, req.IsRounded)
	if err != nil {
		return nil, err
	}

	invoice := &entity.Invoice{
		ID:          uuid.New().String(),
		UserID:      userID,
		ClientID:    req.ClientID,
		OrderID:     req.OrderID,
		Number:      req.Number,
		Status:      status,
		IssueDate:   issueDate,
		DueDate:     dueDate,
		Subtotal:    totals.Subtotal,
		TaxRate:     req.TaxRate,
		TaxAmount:   totals.TaxAmount,
		TotalAmount: totals.TotalAmount,
		IsRounded:   req.IsRounded,
		Notes:       req.Notes,
		Items:       buildItems(req.Items, totals.LineAmounts),
	}

	err = s.lock.WithLock(ctx, userID, func() error {
		if invoice.Number == "" {
			number, err := NextNumber(ctx, s.invoices, userID, s.numberPrefix(ctx, userID), InvoiceNumberPad)
			if err != nil {
				return err
			}
			invoice.Number = number
		}
		return s.invoices.Create(ctx, invoice)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &DuplicateNumberError{Number: invoice.Number}
		}
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	return invoice, nil
}

// Update recomputes totals and replaces the invoice header and its full item
// set in one transaction.
func (s *InvoiceService) Update(ctx context.Context, userID, id string, req *CreateInvoiceRequest) (*entity.Invoice, error) {
	invoice, err := s.invoices.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	issueDate, dueDate, err := parseInvoiceDates(req.IssueDate, req.DueDate)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = invoice.Status
	}
	if err := ValidateStatus(status); err != nil {
		return nil, err
	}

	if req.ClientID != invoice.ClientID {
		if _, err := s.clients.FindByID(ctx, userID, req.ClientID); err != nil {
			return nil, fmt.Errorf("find client: %w", err)
		}
	}

	totals, err := ComputeTotals(req.Items, req.TaxRate, req.IsRounded)
	if err != nil {
		return nil, err
	}

	invoice.ClientID = req.ClientID
	invoice.OrderID = req.OrderID
	if req.Number != "" {
		invoice.Number = req.Number
	}
	invoice.Status = status
	invoice.IssueDate = issueDate
	invoice.DueDate = dueDate
	invoice.Subtotal = totals.Subtotal
	invoice.TaxRate = req.TaxRate
	invoice.TaxAmount = totals.TaxAmount
	invoice.TotalAmount = totals.TotalAmount
	invoice.IsRounded = req.IsRounded
	invoice.Notes = req.Notes
	invoice.Payments = nil
	invoice.Client = nil
	invoice.Items = buildItems(req.Items, totals.LineAmounts)

	if err := s.invoices.Update(ctx, invoice); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &DuplicateNumberError{Number: invoice.Number}
		}
		return nil, fmt.Errorf("update invoice: %w", err)
	}
	return invoice, nil
}

// List returns the user's invoices with their clock-resolved display status.
func (s *InvoiceService) List(ctx context.Context, userID string, page, pageSize int, filters map[string]string) ([]entity.Invoice, int64, error) {
	items, total, err := s.invoices.FindAll(ctx, userID, page, pageSize, filters)
	if err != nil {
		return nil, 0, err
	}
	now := s.now()
	for i := range items {
		items[i].Status = items[i].DisplayStatus(now)
	}
	return items, total, nil
}

// Get loads the invoice and derives its money figures from the ledger.
func (s *InvoiceService) Get(ctx context.Context, userID, id string) (*InvoiceDetail, error) {
	invoice, err := s.invoices.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	paid, err := s.payments.PaidAmount(ctx, invoice.ID)
	if err != nil {
		return nil, fmt.Errorf("sum payments: %w", err)
	}
	return &InvoiceDetail{
		Invoice:        invoice,
		PaidAmount:     paid,
		BalanceDue:     invoice.BalanceDueGiven(paid),
		RoundingAmount: invoice.RoundingAmount(),
		DisplayStatus:  invoice.DisplayStatus(s.now()),
		AmountInWords:  Terbilang(invoice.TotalAmount),
	}, nil
}

// ReceiptData is the payload for a payment receipt.
type ReceiptData struct {
	Invoice       *entity.Invoice `json:"invoice"`
	Payment       *entity.Payment `json:"payment"`
	DocumentTitle string          `json:"document_title"`
	AmountInWords string          `json:"amount_in_words"`
	BalanceDue    decimal.Decimal `json:"balance_due"`
}

// Receipt returns the data needed to issue a receipt for one payment on the
// invoice. An empty paymentID selects the latest payment.
func (s *InvoiceService) Receipt(ctx context.Context, userID, invoiceID, paymentID string) (*ReceiptData, error) {
	invoice, err := s.invoices.FindByID(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}
	if len(invoice.Payments) == 0 {
		return nil, newValidationError("payment_id", "invoice has no payments")
	}

	var payment *entity.Payment
	if paymentID == "" {
		payment = &invoice.Payments[len(invoice.Payments)-1]
	} else {
		for i := range invoice.Payments {
			if invoice.Payments[i].ID == paymentID {
				payment = &invoice.Payments[i]
				break
			}
		}
		if payment == nil {
			return nil, repository.ErrNotFound
		}
	}

	paid, err := s.payments.PaidAmount(ctx, invoice.ID)
	if err != nil {
		return nil, fmt.Errorf("sum payments: %w", err)
	}

	title := "INVOICE"
	if invoice.Client != nil {
		title = invoice.Client.DocumentTitle()
	}
	return &ReceiptData{
		Invoice:       invoice,
		Payment:       payment,
		DocumentTitle: title,
		AmountInWords: Terbilang(payment.Amount),
		BalanceDue:    invoice.BalanceDueGiven(paid),
	}, nil
}

// UpdateStatus applies a manual status override.
func (s *InvoiceService) UpdateStatus(ctx context.Context, userID, id, status string) error {
	if err := ValidateStatus(status); err != nil {
		return err
	}
	return s.invoices.UpdateStatus(ctx, userID, id, status)
}

// Delete removes the invoice together with its items and payments.
func (s *InvoiceService) Delete(ctx context.Context, userID, id string) error {
	return s.invoices.Delete(ctx, userID, id)
}

func parseInvoiceDates(issue, due string) (time.Time, time.Time, error) {
	issueDate, err := time.Parse("2006-01-02", issue)
	if err != nil {
		return time.Time{}, time.Time{}, newValidationError("issue_date", "must be a date in YYYY-MM-DD format")
	}
	dueDate, err := time.Parse("2006-01-02", due)
	if err != nil {
		return time.Time{}, time.Time{}, newValidationError("due_date", "must be a date in YYYY-MM-DD format")
	}
	if dueDate.Before(issueDate) {
		return time.Time{}, time.Time{}, newValidationError("due_date", "must not be before the issue date")
	}
	return issueDate, dueDate, nil
}

func buildItems(inputs []ItemInput, amounts []decimal.Decimal) []entity.InvoiceItem {
	items := make([]entity.InvoiceItem, len(inputs))
	for i, in := range inputs {
		items[i] = entity.InvoiceItem{
			ID:          uuid.New().String(),
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Amount:      amounts[i],
		}
	}
	return items
}
