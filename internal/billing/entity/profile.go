package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Profile carries the business identity and invoice defaults of a user.
type Profile struct {
	ID           string          `json:"id" gorm:"primaryKey;size:36"`
	UserID       string          `json:"user_id" gorm:"size:36;not null;uniqueIndex"`
	BusinessName string          `json:"business_name" gorm:"size:255"`
	OwnerName    string          `json:"owner_name" gorm:"size:255"`
	Address      string          `json:"address" gorm:"type:text"`
	Phone        string          `json:"phone" gorm:"size:50"`
	Email        string          `json:"email" gorm:"size:255"`
	LogoPath     string          `json:"logo_path" gorm:"size:500"`
	TaxRate      decimal.Decimal `json:"tax_rate" gorm:"type:decimal(5,2);default:0"`
	NumberPrefix string          `json:"number_prefix" gorm:"size:20;default:'INV'"`
	PaymentNote  string          `json:"payment_note" gorm:"type:text"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
