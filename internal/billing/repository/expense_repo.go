package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yaufaniadam/invku/internal/billing/entity"
)

// ExpenseRepository manages business expenses.
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, expense *entity.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *ExpenseRepository) FindAll(ctx context.Context, userID string, page, pageSize int, filters map[string]string) ([]entity.Expense, int64, error) {
	var items []entity.Expense
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Expense{}).Where("user_id = ?", userID)
	if category := filters["category"]; category != "" {
		query = query.Where("category = ?", category)
	}
	if vendorID := filters["vendor_id"]; vendorID != "" {
		query = query.Where("vendor_id = ?", vendorID)
	}
	if startDate := filters["start_date"]; startDate != "" {
		query = query.Where("spent_at >= ?", startDate)
	}
	if endDate := filters["end_date"]; endDate != "" {
		query = query.Where("spent_at <= ?", endDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Vendor").
		Order("spent_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error
	return items, total, err
}

func (r *ExpenseRepository) FindByID(ctx context.Context, userID, id string) (*entity.Expense, error) {
	var expense entity.Expense
	err := r.db.WithContext(ctx).
		Preload("Vendor").
		First(&expense, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &expense, nil
}

func (r *ExpenseRepository) Update(ctx context.Context, expense *entity.Expense) error {
	return r.db.WithContext(ctx).Save(expense).Error
}

func (r *ExpenseRepository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&entity.Expense{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SpentTotal sums expenses in the given window.
func (r *ExpenseRepository) SpentTotal(ctx context.Context, userID string, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&entity.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND spent_at >= ? AND spent_at < ?", userID, from, to).
		Scan(&total).Error
	return total, err
}

// OrderTotal sums the expenses charged to one order.
func (r *ExpenseRepository) OrderTotal(ctx context.Context, userID, orderID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&entity.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND order_id = ?", userID, orderID).
		Scan(&total).Error
	return total, err
}

// DistinctCategories lists every category the user has recorded expenses
// under, including user-defined ones.
func (r *ExpenseRepository) DistinctCategories(ctx context.Context, userID string) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&entity.Expense{}).
		Distinct("category").
		Where("user_id = ?", userID).
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

// TotalsByCategory sums expenses per category in the given window.
func (r *ExpenseRepository) TotalsByCategory(ctx context.Context, userID string, from, to time.Time) (map[string]decimal.Decimal, error) {
	var rows []struct {
		Category string
		Total    decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&entity.Expense{}).
		Select("category, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND spent_at >= ? AND spent_at < ?", userID, from, to).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		result[row.Category] = row.Total
	}
	return result, nil
}

// MonthlySpend sums expenses per month over the given window, keyed by
// YYYY-MM.
func (r *ExpenseRepository) MonthlySpend(ctx context.Context, userID string, from, to time.Time) (map[string]decimal.Decimal, error) {
	var rows []struct {
		Month string
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&entity.Expense{}).
		Select("TO_CHAR(spent_at, 'YYYY-MM') AS month, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND spent_at >= ? AND spent_at < ?", userID, from, to).
		Group("month").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		result[row.Month] = row.Total
	}
	return result, nil
}
