package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrForbidden is returned when the actor does not own the referenced record.
var ErrForbidden = errors.New("forbidden")

// ValidationError reports malformed input tied to a field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// InsufficientDepositError is returned when a deposit-funded payment exceeds
// the client's available deposit balance.
type InsufficientDepositError struct {
	Balance   decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientDepositError) Error() string {
	return fmt.Sprintf("insufficient deposit balance: have %s, requested %s",
		e.Balance.StringFixed(2), e.Requested.StringFixed(2))
}

// DuplicateNumberError is returned when a generated document number collides
// with an existing one, typically under concurrent creation.
type DuplicateNumberError struct {
	Number string
}

func (e *DuplicateNumberError) Error() string {
	return fmt.Sprintf("document number already taken: %s", e.Number)
}
