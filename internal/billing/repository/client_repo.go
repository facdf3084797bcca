package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yaufaniadam/invku/internal/billing/entity"
)

// ClientRepository manages clients.
type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, client *entity.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *ClientRepository) FindAll(ctx context.Context, userID string, page, pageSize int, search string) ([]entity.Client, int64, error) {
	var items []entity.Client
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Client{}).Where("user_id = ?", userID)
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR company ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Select("clients.*, (SELECT COUNT(*) FROM invoices WHERE invoices.client_id = clients.id) AS invoice_count").
		Order("name ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error
	return items, total, err
}

func (r *ClientRepository) FindByID(ctx context.Context, userID, id string) (*entity.Client, error) {
	var client entity.Client
	err := r.db.WithContext(ctx).
		First(&client, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &client, nil
}

func (r *ClientRepository) Update(ctx context.Context, client *entity.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *ClientRepository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&entity.Client{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
