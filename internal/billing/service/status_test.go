package service

import (
	"errors"
	"testing"
	"time"

	"github.com/yaufaniadam/invku/internal/billing/entity"
)

func TestValidateStatus(t *testing.T) {
	for _, status := range []string{"draft", "sent", "paid", "overdue", "cancelled"} {
		if err := ValidateStatus(status); err != nil {
			t.Errorf("ValidateStatus(%q) = %v, want nil", status, err)
		}
	}

	err := ValidateStatus("archived")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("ValidateStatus(archived) = %v, want ValidationError", err)
	}
}

func TestStatusAfterPayment(t *testing.T) {
	cases := []struct {
		name    string
		current string
		balance string
		want    string
	}{
		{"settled sent flips to paid", "sent", "0", "paid"},
		{"overpaid flips to paid", "sent", "-1000", "paid"},
		{"partial stays sent", "sent", "500000", "sent"},
		{"settled draft flips to paid", "draft", "0", "paid"},
		{"cancelled never flips", "cancelled", "0", "cancelled"},
		{"paid stays paid", "paid", "0", "paid"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := StatusAfterPayment(tc.current, d(tc.balance))
			if got != tc.want {
				t.Errorf("StatusAfterPayment(%s, %s) = %s, want %s", tc.current, tc.balance, got, tc.want)
			}
		})
	}
}

func TestInvoiceDisplayStatus(t *testing.T) {
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	pastDue := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	futureDue := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		status string
		due    time.Time
		want   string
	}{
		{"sent past due reads overdue", "sent", pastDue, "overdue"},
		{"sent before due stays sent", "sent", futureDue, "sent"},
		{"draft past due reads overdue", "draft", pastDue, "overdue"},
		{"paid past due stays paid", "paid", pastDue, "paid"},
		{"cancelled past due stays cancelled", "cancelled", pastDue, "cancelled"},
		{"due today is not overdue", "sent", time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), "sent"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inv := entity.Invoice{Status: tc.status, DueDate: tc.due}
			if got := inv.DisplayStatus(now); got != tc.want {
				t.Errorf("DisplayStatus = %s, want %s", got, tc.want)
			}
		})
	}
}
