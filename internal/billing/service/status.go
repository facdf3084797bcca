package service

import (
	"github.com/shopspring/decimal"

	"github.com/yaufaniadam/invku/internal/billing/entity"
)

var validStatuses = map[string]bool{
	entity.InvoiceStatusDraft:     true,
	entity.InvoiceStatusSent:      true,
	entity.InvoiceStatusPaid:      true,
	entity.InvoiceStatusOverdue:   true,
	entity.InvoiceStatusCancelled: true,
}

// ValidateStatus checks that a manually supplied status is a known value.
func ValidateStatus(status string) error {
	if !validStatuses[status] {
		return newValidationError("status", "invalid status value")
	}
	return nil
}

// StatusAfterPayment decides the status an invoice should hold once a payment
// lands. A settled balance flips the invoice to paid, except cancelled
// invoices, which keep their status. Paid never reverts.
func StatusAfterPayment(current string, balanceDue decimal.Decimal) string {
	if current == entity.InvoiceStatusCancelled {
		return current
	}
	if balanceDue.LessThanOrEqual(decimal.Zero) {
		return entity.InvoiceStatusPaid
	}
	return current
}
