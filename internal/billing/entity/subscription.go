package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Subscription billing cycles
const (
	CycleDaily   = "daily"
	CycleWeekly  = "weekly"
	CycleMonthly = "monthly"
	CycleYearly  = "yearly"
)

var (
	weeksPerMonth = decimal.NewFromFloat(4.33)
	daysPerMonth  = decimal.NewFromInt(30)
	monthsPerYear = decimal.NewFromInt(12)
)

// Subscription is a recurring expense the business pays on a fixed cycle.
type Subscription struct {
	ID              string          `json:"id" gorm:"primaryKey;size:36"`
	UserID          string          `json:"user_id" gorm:"size:36;not null;index"`
	VendorID        *string         `json:"vendor_id,omitempty" gorm:"size:36;index"`
	Name            string          `json:"name" gorm:"size:255;not null"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:decimal(15,2);not null"`
	BillingCycle    string          `json:"billing_cycle" gorm:"size:20;not null;default:'monthly'"`
	NextBillingDate time.Time       `json:"next_billing_date" gorm:"not null"`
	Category        string          `json:"category" gorm:"size:50;not null;default:'software'"`
	IsActive        bool            `json:"is_active" gorm:"default:true"`
	Notes           string          `json:"notes" gorm:"type:text"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Vendor *Vendor `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// MonthlyCost normalizes the subscription amount to a per-month figure.
func (s *Subscription) MonthlyCost() decimal.Decimal {
	switch s.BillingCycle {
	case CycleYearly:
		return s.Amount.Div(monthsPerYear).Round(2)
	case CycleWeekly:
		return s.Amount.Mul(weeksPerMonth).Round(2)
	case CycleDaily:
		return s.Amount.Mul(daysPerMonth).Round(2)
	default:
		return s.Amount
	}
}

// AdvanceBillingDate moves the next billing date forward one cycle.
func (s *Subscription) AdvanceBillingDate() {
	switch s.BillingCycle {
	case CycleDaily:
		s.NextBillingDate = s.NextBillingDate.AddDate(0, 0, 1)
	case CycleWeekly:
		s.NextBillingDate = s.NextBillingDate.AddDate(0, 0, 7)
	case CycleYearly:
		s.NextBillingDate = s.NextBillingDate.AddDate(1, 0, 0)
	default:
		s.NextBillingDate = s.NextBillingDate.AddDate(0, 1, 0)
	}
}
