package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yaufaniadam/invku/internal/billing/entity"
)

// OrderRepository manages client work orders.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *OrderRepository) FindAll(ctx context.Context, userID string, page, pageSize int, filters map[string]string) ([]entity.Order, int64, error) {
	var items []entity.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Order{}).Where("user_id = ?", userID)
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if clientID := filters["client_id"]; clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Client").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error
	return items, total, err
}

func (r *OrderRepository) FindByID(ctx context.Context, userID, id string) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Invoices").
		First(&order, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &order, nil
}

func (r *OrderRepository) Update(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *OrderRepository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&entity.Order{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// LastNumber returns the highest document number with the given prefix for
// the user, or empty when none exist yet.
func (r *OrderRepository) LastNumber(ctx context.Context, userID, prefix string) (string, error) {
	var number string
	err := r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Select("number").
		Where("user_id = ? AND number LIKE ?", userID, prefix+"%").
		Order("LENGTH(number) DESC, number DESC").
		Limit(1).
		Scan(&number).Error
	return number, err
}

// NumberExists reports whether a document number is already taken for the user.
func (r *OrderRepository) NumberExists(ctx context.Context, userID, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Where("user_id = ? AND number = ?", userID, number).
		Count(&count).Error
	return count > 0, err
}

// OrderTotals aggregates order value, cost and derived profit for a user.
type OrderTotals struct {
	Count  int64           `json:"count"`
	Value  decimal.Decimal `json:"value"`
	Cost   decimal.Decimal `json:"cost"`
	Profit decimal.Decimal `json:"profit"`
}

// Totals sums value and cost over non-cancelled orders for the user.
func (r *OrderRepository) Totals(ctx context.Context, userID string) (*OrderTotals, error) {
	var row struct {
		Count int64
		Value decimal.Decimal
		Cost  decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Select("COUNT(*) AS count, COALESCE(SUM(value), 0) AS value, COALESCE(SUM(cost), 0) AS cost").
		Where("user_id = ? AND status <> ?", userID, entity.OrderStatusCancelled).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &OrderTotals{
		Count:  row.Count,
		Value:  row.Value,
		Cost:   row.Cost,
		Profit: row.Value.Sub(row.Cost),
	}, nil
}

// ErrOrderHasInvoices is returned when deleting an order that still has
// invoices attached.
var ErrOrderHasInvoices = errors.New("order has invoices")

// DeleteIfUnreferenced deletes an order only when no invoices point at it.
func (r *OrderRepository) DeleteIfUnreferenced(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entity.Invoice{}).Where("order_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrOrderHasInvoices
		}
		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&entity.Order{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
