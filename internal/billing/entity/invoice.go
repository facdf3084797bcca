package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice statuses
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// Invoice is a billing document issued to a client.
type Invoice struct {
	ID          string          `json:"id" gorm:"primaryKey;size:36"`
	UserID      string          `json:"user_id" gorm:"size:36;not null;uniqueIndex:idx_invoices_user_number"`
	ClientID    string          `json:"client_id" gorm:"size:36;not null;index"`
	OrderID     *string         `json:"order_id,omitempty" gorm:"size:36;index"`
	Number      string          `json:"number" gorm:"size:50;not null;uniqueIndex:idx_invoices_user_number"`
	Status      string          `json:"status" gorm:"size:20;not null;default:'draft'"`
	IssueDate   time.Time       `json:"issue_date" gorm:"not null"`
	DueDate     time.Time       `json:"due_date" gorm:"not null"`
	Subtotal    decimal.Decimal `json:"subtotal" gorm:"type:decimal(15,2);not null"`
	TaxRate     decimal.Decimal `json:"tax_rate" gorm:"type:decimal(5,2);not null"`
	TaxAmount   decimal.Decimal `json:"tax_amount" gorm:"type:decimal(15,2);not null"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(15,2);not null"`
	IsRounded   bool            `json:"is_rounded" gorm:"default:false"`
	Notes       string          `json:"notes" gorm:"type:text"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Client   *Client       `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Items    []InvoiceItem `json:"items,omitempty" gorm:"foreignKey:InvoiceID"`
	Payments []Payment     `json:"payments,omitempty" gorm:"foreignKey:InvoiceID"`
}

func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem is a single billed line on an invoice.
type InvoiceItem struct {
	ID          string          `json:"id" gorm:"primaryKey;size:36"`
	InvoiceID   string          `json:"invoice_id" gorm:"size:36;not null;index"`
	Description string          `json:"description" gorm:"size:500;not null"`
	Quantity    decimal.Decimal `json:"quantity" gorm:"type:decimal(15,2);not null"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(15,2);not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(15,2);not null"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// RoundingAmount is the amount added by rounding the total up to the nearest
// thousand, zero when rounding is off.
func (inv *Invoice) RoundingAmount() decimal.Decimal {
	return inv.TotalAmount.Sub(inv.Subtotal.Add(inv.TaxAmount))
}

// BalanceDueGiven returns the remaining amount owed after the given paid sum,
// floored at zero.
func (inv *Invoice) BalanceDueGiven(paid decimal.Decimal) decimal.Decimal {
	due := inv.TotalAmount.Sub(paid)
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}

// IsOverdueAt reports whether the invoice should display as overdue at the
// given time. Paid and cancelled invoices never go overdue.
func (inv *Invoice) IsOverdueAt(now time.Time) bool {
	if inv.Status == InvoiceStatusPaid || inv.Status == InvoiceStatusCancelled {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return inv.DueDate.Before(today)
}

// DisplayStatus resolves the stored status against the clock, so a sent
// invoice past its due date reads as overdue without a write.
func (inv *Invoice) DisplayStatus(now time.Time) string {
	if inv.IsOverdueAt(now) {
		return InvoiceStatusOverdue
	}
	return inv.Status
}
