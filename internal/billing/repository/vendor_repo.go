package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yaufaniadam/invku/internal/billing/entity"
)

// VendorRepository manages expense vendors.
type VendorRepository struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

func (r *VendorRepository) Create(ctx context.Context, vendor *entity.Vendor) error {
	return r.db.WithContext(ctx).Create(vendor).Error
}

func (r *VendorRepository) FindAll(ctx context.Context, userID string) ([]entity.Vendor, error) {
	var items []entity.Vendor
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&items).Error
	return items, err
}

func (r *VendorRepository) FindByID(ctx context.Context, userID, id string) (*entity.Vendor, error) {
	var vendor entity.Vendor
	err := r.db.WithContext(ctx).
		First(&vendor, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &vendor, nil
}

// FirstOrCreateByName finds a vendor by name for the user, creating it when
// missing. The create function supplies the new record's ID.
func (r *VendorRepository) FirstOrCreateByName(ctx context.Context, userID, name string, newID func() string) (*entity.Vendor, error) {
	var vendor entity.Vendor
	err := r.db.WithContext(ctx).
		First(&vendor, "user_id = ? AND name = ?", userID, name).Error
	if err == nil {
		return &vendor, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	vendor = entity.Vendor{ID: newID(), UserID: userID, Name: name}
	if err := r.db.WithContext(ctx).Create(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *VendorRepository) Update(ctx context.Context, vendor *entity.Vendor) error {
	return r.db.WithContext(ctx).Save(vendor).Error
}

func (r *VendorRepository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&entity.Vendor{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
