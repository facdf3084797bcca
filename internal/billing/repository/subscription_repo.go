package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yaufaniadam/invku/internal/billing/entity"
)

// SubscriptionRepository manages recurring subscriptions.
type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *entity.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *SubscriptionRepository) FindAll(ctx context.Context, userID string, activeOnly bool) ([]entity.Subscription, error) {
	var items []entity.Subscription
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.
		Preload("Vendor").
		Order("next_billing_date ASC").
		Find(&items).Error
	return items, err
}

func (r *SubscriptionRepository) FindByID(ctx context.Context, userID, id string) (*entity.Subscription, error) {
	var sub entity.Subscription
	err := r.db.WithContext(ctx).
		Preload("Vendor").
		First(&sub, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &sub, nil
}

func (r *SubscriptionRepository) Update(ctx context.Context, sub *entity.Subscription) error {
	return r.db.WithContext(ctx).Save(sub).Error
}

func (r *SubscriptionRepository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&entity.Subscription{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DueBefore lists active subscriptions whose next billing date is behind
// the start of the given day, across all users.
func (r *SubscriptionRepository) DueBefore(ctx context.Context, day time.Time) ([]entity.Subscription, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())

	var items []entity.Subscription
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND next_billing_date < ?", true, start).
		Preload("Vendor").
		Find(&items).Error
	return items, err
}

// DueOn lists active subscriptions whose next billing date falls on the
// given day, across all users.
func (r *SubscriptionRepository) DueOn(ctx context.Context, day time.Time) ([]entity.Subscription, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var items []entity.Subscription
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND next_billing_date >= ? AND next_billing_date < ?", true, start, end).
		Preload("Vendor").
		Find(&items).Error
	return items, err
}
