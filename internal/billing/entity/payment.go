package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment types
const (
	PaymentTypePayment = "payment"
	PaymentTypeDeposit = "deposit"
)

// PaymentMethodDeposit marks a payment drawn from the client's deposit
// balance instead of an external transfer.
const PaymentMethodDeposit = "deposit"

// Payment is money received from a client, either applied to an invoice or
// held on deposit.
type Payment struct {
	ID         string          `json:"id" gorm:"primaryKey;size:36"`
	UserID     string          `json:"user_id" gorm:"size:36;not null;index"`
	ClientID   string          `json:"client_id" gorm:"size:36;not null;index"`
	InvoiceID  *string         `json:"invoice_id,omitempty" gorm:"size:36;index"`
	Type       string          `json:"type" gorm:"size:20;not null;default:'payment'"`
	Method     string          `json:"method" gorm:"size:50;not null"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:decimal(15,2);not null"`
	PaidAt     time.Time       `json:"paid_at" gorm:"not null"`
	Reference  string          `json:"reference" gorm:"size:255"`
	Purpose    string          `json:"purpose" gorm:"size:255"`
	ProofPath  string          `json:"proof_path" gorm:"size:500"`
	Notes      string          `json:"notes" gorm:"type:text"`
	RecordedBy string          `json:"recorded_by" gorm:"size:36"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	Client  *Client  `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Invoice *Invoice `json:"invoice,omitempty" gorm:"foreignKey:InvoiceID"`
}

func (Payment) TableName() string {
	return "payments"
}

// IsDeposit reports whether this record adds to the client's deposit balance.
func (p *Payment) IsDeposit() bool {
	return p.Type == PaymentTypeDeposit
}

// DrawsFromDeposit reports whether this payment spends the client's deposit
// balance.
func (p *Payment) DrawsFromDeposit() bool {
	return p.Type == PaymentTypePayment && p.Method == PaymentMethodDeposit
}
