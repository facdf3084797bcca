package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/yaufaniadam/invku/internal/billing/entity"
	"github.com/yaufaniadam/invku/internal/billing/repository"
)

// VendorService manages expense vendors.
type VendorService struct {
	vendors *repository.VendorRepository
}

func NewVendorService(repos *repository.Repositories) *VendorService {
	return &VendorService{vendors: repos.Vendor}
}

// VendorRequest carries vendor fields for create and update.
type VendorRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Website string `json:"website"`
	Notes   string `json:"notes"`
}

func (s *VendorService) Create(ctx context.Context, userID string, req *VendorRequest) (*entity.Vendor, error) {
	vendor := &entity.Vendor{
		ID:      uuid.New().String(),
		UserID:  userID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Website: req.Website,
		Notes:   req.Notes,
	}
	if err := s.vendors.Create(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

func (s *VendorService) List(ctx context.Context, userID string) ([]entity.Vendor, error) {
	return s.vendors.FindAll(ctx, userID)
}

func (s *VendorService) Get(ctx context.Context, userID, id string) (*entity.Vendor, error) {
	return s.vendors.FindByID(ctx, userID, id)
}

func (s *VendorService) Update(ctx context.Context, userID, id string, req *VendorRequest) (*entity.Vendor, error) {
	vendor, err := s.vendors.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	vendor.Name = req.Name
	vendor.Email = req.Email
	vendor.Phone = req.Phone
	vendor.Website = req.Website
	vendor.Notes = req.Notes
	if err := s.vendors.Update(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

func (s *VendorService) Delete(ctx context.Context, userID, id string) error {
	return s.vendors.Delete(ctx, userID, id)
}
