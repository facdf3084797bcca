package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCategories maps the built-in category keys to display labels.
// Categories are free-form: anything outside this map is a user-defined
// category and displays as-is.
var ExpenseCategories = map[string]string{
	"salary":      "Salary",
	"vendor":      "Vendor",
	"software":    "Software",
	"operational": "Operational",
	"marketing":   "Marketing",
	"other":       "Other",
}

// ExpensePaymentMethods maps method keys to display labels.
var ExpensePaymentMethods = map[string]string{
	"cash":          "Cash",
	"bank_transfer": "Bank Transfer",
	"credit_card":   "Credit Card",
	"e_wallet":      "E-Wallet",
	"other":         "Other",
}

// Expense is money spent by the business, optionally recurring.
type Expense struct {
	ID            string          `json:"id" gorm:"primaryKey;size:36"`
	UserID        string          `json:"user_id" gorm:"size:36;not null;index"`
	VendorID      *string         `json:"vendor_id,omitempty" gorm:"size:36;index"`
	OrderID       *string         `json:"order_id,omitempty" gorm:"size:36;index"`
	Category      string          `json:"category" gorm:"size:50;not null"`
	Description   string          `json:"description" gorm:"size:500;not null"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(15,2);not null"`
	PaymentMethod string          `json:"payment_method" gorm:"size:50;not null"`
	SpentAt       time.Time       `json:"spent_at" gorm:"not null"`
	IsRecurring   bool            `json:"is_recurring" gorm:"default:false"`
	ReceiptPath   string          `json:"receipt_path" gorm:"size:500"`
	Notes         string          `json:"notes" gorm:"type:text"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	Vendor *Vendor `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
}

func (Expense) TableName() string {
	return "expenses"
}

// CategoryLabel returns the display label for the expense category.
func (e *Expense) CategoryLabel() string {
	if label, ok := ExpenseCategories[e.Category]; ok {
		return label
	}
	return e.Category
}
