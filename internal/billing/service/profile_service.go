package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yaufaniadam/invku/internal/billing/entity"
	"github.com/yaufaniadam/invku/internal/billing/repository"
	"github.com/yaufaniadam/invku/internal/storage"
)

// ProfileService manages the business profile and its invoice defaults.
type ProfileService struct {
	profiles *repository.ProfileRepository
	users    *repository.UserRepository
	store    *storage.Storage
}

func NewProfileService(repos *repository.Repositories, store *storage.Storage) *ProfileService {
	return &ProfileService{profiles: repos.Profile, users: repos.User, store: store}
}

// UpdateProfileRequest carries the editable settings fields.
type UpdateProfileRequest struct {
	BusinessName string           `json:"business_name"`
	OwnerName    string           `json:"owner_name"`
	Address      string           `json:"address"`
	Phone        string           `json:"phone"`
	Email        string           `json:"email"`
	TaxRate      *decimal.Decimal `json:"tax_rate"`
	NumberPrefix string           `json:"number_prefix"`
	PaymentNote  string           `json:"payment_note"`
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*entity.Profile, error) {
	return s.profiles.FindByUserID(ctx, userID)
}

func (s *ProfileService) Update(ctx context.Context, userID string, req *UpdateProfileRequest) (*entity.Profile, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.TaxRate != nil {
		if req.TaxRate.IsNegative() || req.TaxRate.GreaterThan(hundred) {
			return nil, newValidationError("tax_rate", "must be between 0 and 100")
		}
		profile.TaxRate = *req.TaxRate
	}
	profile.BusinessName = req.BusinessName
	if req.OwnerName != "" && req.OwnerName != profile.OwnerName {
		// The owner name doubles as the account name.
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		user.Name = req.OwnerName
		user.Profile = nil
		user.Roles = nil
		if err := s.users.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("rename account: %w", err)
		}
	}
	profile.OwnerName = req.OwnerName
	profile.Address = req.Address
	profile.Phone = req.Phone
	profile.Email = req.Email
	if req.NumberPrefix != "" {
		profile.NumberPrefix = req.NumberPrefix
	}
	profile.PaymentNote = req.PaymentNote

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UploadLogo stores the logo image and records its path, replacing any
// previous one.
func (s *ProfileService) UploadLogo(ctx context.Context, userID, filename string, reader io.Reader, size int64, contentType string) (*entity.Profile, error) {
	if s.store == nil {
		return nil, errors.New("file storage is not configured")
	}
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	objectName, err := s.store.Upload(ctx, "logos", filename, reader, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload logo: %w", err)
	}

	old := profile.LogoPath
	profile.LogoPath = objectName
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}
	if old != "" {
		// Old logo cleanup is best effort.
		_ = s.store.Remove(ctx, old)
	}
	return profile, nil
}

// LogoURL returns a temporary link to the stored logo.
func (s *ProfileService) LogoURL(ctx context.Context, userID string) (string, error) {
	if s.store == nil {
		return "", errors.New("file storage is not configured")
	}
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	if profile.LogoPath == "" {
		return "", repository.ErrNotFound
	}
	return s.store.PresignedURL(ctx, profile.LogoPath, 15*time.Minute)
}
