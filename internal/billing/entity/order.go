package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Order is a piece of client work tracked before or alongside invoicing.
type Order struct {
	ID          string          `json:"id" gorm:"primaryKey;size:36"`
	UserID      string          `json:"user_id" gorm:"size:36;not null;uniqueIndex:idx_orders_user_number"`
	ClientID    string          `json:"client_id" gorm:"size:36;not null;index"`
	Number      string          `json:"number" gorm:"size:50;not null;uniqueIndex:idx_orders_user_number"`
	Title       string          `json:"title" gorm:"size:255;not null"`
	Description string          `json:"description" gorm:"type:text"`
	Status      string          `json:"status" gorm:"size:20;not null;default:'pending'"`
	Value       decimal.Decimal `json:"value" gorm:"type:decimal(15,2);not null"`
	Cost        decimal.Decimal `json:"cost" gorm:"type:decimal(15,2);default:0"`
	StartDate   *time.Time      `json:"start_date,omitempty"`
	Deadline    *time.Time      `json:"deadline,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Client   *Client   `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Invoices []Invoice `json:"invoices,omitempty" gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string {
	return "orders"
}

// Profit is the order value minus its recorded cost.
func (o *Order) Profit() decimal.Decimal {
	return o.Value.Sub(o.Cost)
}
