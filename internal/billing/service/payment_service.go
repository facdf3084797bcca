package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yaufaniadam/invku/internal/billing/entity"
	"github.com/yaufaniadam/invku/internal/billing/repository"
	"github.com/yaufaniadam/invku/internal/storage"
)

// PaymentService records payments and deposits and keeps invoice status
// consistent with the ledger.
type PaymentService struct {
	payments *repository.PaymentRepository
	invoices *repository.InvoiceRepository
	clients  *repository.ClientRepository
	store    *storage.Storage
}

func NewPaymentService(repos *repository.Repositories, store *storage.Storage) *PaymentService {
	return &PaymentService{
		payments: repos.Payment,
		invoices: repos.Invoice,
		clients:  repos.Client,
		store:    store,
	}
}

// RecordPaymentRequest applies money to an invoice.
type RecordPaymentRequest struct {
	InvoiceID string          `json:"invoice_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	PaidAt    string          `json:"paid_at" binding:"required"`
	Method    string          `json:"method" binding:"required"`
	Reference string          `json:"reference"`
	Purpose   string          `json:"purpose"`
	Notes     string          `json:"notes"`
	ProofPath string          `json:"proof_path"`
}

// RecordDepositRequest adds prepaid credit to a client.
type RecordDepositRequest struct {
	ClientID  string          `json:"client_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	PaidAt    string          `json:"paid_at" binding:"required"`
	Method    string          `json:"method" binding:"required"`
	Reference string          `json:"reference"`
	Notes     string          `json:"notes"`
}

// RecordPayment stores a payment against an invoice. A deposit-funded payment
// is rejected when it exceeds the client's deposit balance. When the balance
// due reaches zero the invoice flips to paid in the same transaction, unless
// it was cancelled.
func (s *PaymentService) RecordPayment(ctx context.Context, userID string, req *RecordPaymentRequest) (*entity.Payment, error) {
	if !req.Amount.IsPositive() {
		return nil, newValidationError("amount", "must be greater than zero")
	}
	paidAt, err := time.Parse("2006-01-02", req.PaidAt)
	if err != nil {
		return nil, newValidationError("paid_at", "must be a date in YYYY-MM-DD format")
	}

	invoice, err := s.invoices.FindByID(ctx, userID, req.InvoiceID)
	if err != nil {
		return nil, fmt.Errorf("find invoice: %w", err)
	}

	if req.Method == entity.PaymentMethodDeposit {
		balance, err := s.payments.DepositBalance(ctx, userID, invoice.ClientID)
		if err != nil {
			return nil, fmt.Errorf("deposit balance: %w", err)
		}
		if req.Amount.GreaterThan(balance) {
			return nil, &InsufficientDepositError{Balance: balance, Requested: req.Amount}
		}
	}

	paid, err := s.payments.PaidAmount(ctx, invoice.ID)
	if err != nil {
		return nil, fmt.Errorf("sum payments: %w", err)
	}

	payment := &entity.Payment{
		ID:         uuid.New().String(),
		UserID:     userID,
		ClientID:   invoice.ClientID,
		InvoiceID:  &invoice.ID,
		Type:       entity.PaymentTypePayment,
		Method:     req.Method,
		Amount:     req.Amount,
		PaidAt:     paidAt,
		Reference:  req.Reference,
		Purpose:    req.Purpose,
		ProofPath:  req.ProofPath,
		Notes:      req.Notes,
		RecordedBy: userID,
	}

	balanceAfter := invoice.BalanceDueGiven(paid.Add(req.Amount))
	newStatus := StatusAfterPayment(invoice.Status, balanceAfter)
	if newStatus == invoice.Status {
		newStatus = ""
	}

	if err := s.payments.CreateAndUpdateStatus(ctx, payment, invoice.ID, newStatus); err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}
	return payment, nil
}

// RecordDeposit stores prepaid client credit with no invoice link.
func (s *PaymentService) RecordDeposit(ctx context.Context, userID string, req *RecordDepositRequest) (*entity.Payment, error) {
	if !req.Amount.IsPositive() {
		return nil, newValidationError("amount", "must be greater than zero")
	}
	paidAt, err := time.Parse("2006-01-02", req.PaidAt)
	if err != nil {
		return nil, newValidationError("paid_at", "must be a date in YYYY-MM-DD format")
	}

	if _, err := s.clients.FindByID(ctx, userID, req.ClientID); err != nil {
		return nil, fmt.Errorf("find client: %w", err)
	}

	payment := &entity.Payment{
		ID:         uuid.New().String(),
		UserID:     userID,
		ClientID:   req.ClientID,
		Type:       entity.PaymentTypeDeposit,
		Method:     req.Method,
		Amount:     req.Amount,
		PaidAt:     paidAt,
		Reference:  req.Reference,
		Notes:      req.Notes,
		RecordedBy: userID,
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("record deposit: %w", err)
	}
	return payment, nil
}

// DepositBalance returns the client's unspent prepaid credit.
func (s *PaymentService) DepositBalance(ctx context.Context, userID, clientID string) (decimal.Decimal, error) {
	if _, err := s.clients.FindByID(ctx, userID, clientID); err != nil {
		return decimal.Zero, fmt.Errorf("find client: %w", err)
	}
	return s.payments.DepositBalance(ctx, userID, clientID)
}

// BalanceDue returns the remaining amount owed on an invoice, floored at zero.
func (s *PaymentService) BalanceDue(ctx context.Context, userID, invoiceID string) (decimal.Decimal, error) {
	invoice, err := s.invoices.FindByID(ctx, userID, invoiceID)
	if err != nil {
		return decimal.Zero, err
	}
	paid, err := s.payments.PaidAmount(ctx, invoice.ID)
	if err != nil {
		return decimal.Zero, err
	}
	return invoice.BalanceDueGiven(paid), nil
}

// List returns the user's payments with filters and pagination.
func (s *PaymentService) List(ctx context.Context, userID string, page, pageSize int, filters map[string]string) ([]entity.Payment, int64, error) {
	return s.payments.FindAll(ctx, userID, page, pageSize, filters)
}

// Get returns a single payment.
func (s *PaymentService) Get(ctx context.Context, userID, id string) (*entity.Payment, error) {
	return s.payments.FindByID(ctx, userID, id)
}

// UploadProof stores a proof-of-payment file and records its path on the
// payment, replacing any previous one.
func (s *PaymentService) UploadProof(ctx context.Context, userID, paymentID, filename string, reader io.Reader, size int64, contentType string) (*entity.Payment, error) {
	if s.store == nil {
		return nil, errors.New("file storage is not configured")
	}
	payment, err := s.payments.FindByID(ctx, userID, paymentID)
	if err != nil {
		return nil, err
	}

	objectName, err := s.store.Upload(ctx, "proofs", filename, reader, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload proof: %w", err)
	}

	old := payment.ProofPath
	if err := s.payments.UpdateProofPath(ctx, userID, paymentID, objectName); err != nil {
		return nil, err
	}
	payment.ProofPath = objectName
	if old != "" {
		// Old proof cleanup is best effort.
		_ = s.store.Remove(ctx, old)
	}
	return payment, nil
}

// ProofURL returns a temporary link to the stored payment proof.
func (s *PaymentService) ProofURL(ctx context.Context, userID, paymentID string) (string, error) {
	if s.store == nil {
		return "", errors.New("file storage is not configured")
	}
	payment, err := s.payments.FindByID(ctx, userID, paymentID)
	if err != nil {
		return "", err
	}
	if payment.ProofPath == "" {
		return "", repository.ErrNotFound
	}
	return s.store.PresignedURL(ctx, payment.ProofPath, 15*time.Minute)
}

// DepositSummaries lists per-client deposit balances.
func (s *PaymentService) DepositSummaries(ctx context.Context, userID string) ([]repository.ClientDepositSummary, error) {
	return s.payments.DepositSummaries(ctx, userID)
}
