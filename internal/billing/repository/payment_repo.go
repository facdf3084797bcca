package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yaufaniadam/invku/internal/billing/entity"
)

// PaymentRepository manages payments and deposits.
type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// CreateAndUpdateStatus stores the payment and applies the given invoice
// status in one transaction, so the paid flip never races the insert.
func (r *PaymentRepository) CreateAndUpdateStatus(ctx context.Context, payment *entity.Payment, invoiceID, status string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		if status == "" {
			return nil
		}
		return tx.Model(&entity.Invoice{}).
			Where("id = ?", invoiceID).
			Update("status", status).Error
	})
}

func (r *PaymentRepository) FindAll(ctx context.Context, userID string, page, pageSize int, filters map[string]string) ([]entity.Payment, int64, error) {
	var items []entity.Payment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Payment{}).Where("user_id = ?", userID)
	if typ := filters["type"]; typ != "" {
		query = query.Where("type = ?", typ)
	}
	if clientID := filters["client_id"]; clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if invoiceID := filters["invoice_id"]; invoiceID != "" {
		query = query.Where("invoice_id = ?", invoiceID)
	}
	if startDate := filters["start_date"]; startDate != "" {
		query = query.Where("paid_at >= ?", startDate)
	}
	if endDate := filters["end_date"]; endDate != "" {
		query = query.Where("paid_at <= ?", endDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Client").
		Preload("Invoice").
		Order("paid_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error
	return items, total, err
}

func (r *PaymentRepository) FindByID(ctx context.Context, userID, id string) (*entity.Payment, error) {
	var payment entity.Payment
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Invoice").
		First(&payment, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &payment, nil
}

// UpdateProofPath records the stored proof object for a payment.
func (r *PaymentRepository) UpdateProofPath(ctx context.Context, userID, id, path string) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Payment{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("proof_path", path)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// PaidAmount sums all payments applied against an invoice.
func (r *PaymentRepository) PaidAmount(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&entity.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("invoice_id = ?", invoiceID).
		Scan(&total).Error
	return total, err
}

// DepositBalance is the client's deposits minus payments drawn by the
// deposit method.
func (r *PaymentRepository) DepositBalance(ctx context.Context, userID, clientID string) (decimal.Decimal, error) {
	var deposits, draws decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&entity.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND client_id = ? AND type = ?", userID, clientID, entity.PaymentTypeDeposit).
		Scan(&deposits).Error
	if err != nil {
		return decimal.Zero, err
	}
	err = r.db.WithContext(ctx).
		Model(&entity.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND client_id = ? AND type = ? AND method = ?",
			userID, clientID, entity.PaymentTypePayment, entity.PaymentMethodDeposit).
		Scan(&draws).Error
	if err != nil {
		return decimal.Zero, err
	}
	return deposits.Sub(draws), nil
}

// ClientDepositSummary is one client's deposit position.
type ClientDepositSummary struct {
	ClientID   string          `json:"client_id"`
	ClientName string          `json:"client_name"`
	Deposited  decimal.Decimal `json:"deposited"`
	Drawn      decimal.Decimal `json:"drawn"`
	Balance    decimal.Decimal `json:"balance"`
}

// DepositSummaries lists deposit balances per client for clients that have
// any deposit activity.
func (r *PaymentRepository) DepositSummaries(ctx context.Context, userID string) ([]ClientDepositSummary, error) {
	var rows []ClientDepositSummary
	err := r.db.WithContext(ctx).
		Model(&entity.Payment{}).
		Select(`payments.client_id,
			clients.name AS client_name,
			COALESCE(SUM(CASE WHEN payments.type = ? THEN payments.amount ELSE 0 END), 0) AS deposited,
			COALESCE(SUM(CASE WHEN payments.type = ? AND payments.method = ? THEN payments.amount ELSE 0 END), 0) AS drawn`,
			entity.PaymentTypeDeposit, entity.PaymentTypePayment, entity.PaymentMethodDeposit).
		Joins("JOIN clients ON clients.id = payments.client_id").
		Where("payments.user_id = ?", userID).
		Group("payments.client_id, clients.name").
		Having("SUM(CASE WHEN payments.type = ? THEN payments.amount ELSE 0 END) > 0", entity.PaymentTypeDeposit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Balance = rows[i].Deposited.Sub(rows[i].Drawn)
	}
	return rows, nil
}

// ReceivedTotal sums payments received in the given window.
func (r *PaymentRepository) ReceivedTotal(ctx context.Context, userID string, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&entity.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND type = ? AND paid_at >= ? AND paid_at < ?",
			userID, entity.PaymentTypePayment, from, to).
		Scan(&total).Error
	return total, err
}
