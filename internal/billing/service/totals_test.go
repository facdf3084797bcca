package service

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func d(v string) decimal.Decimal {
	dec, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return dec
}

func TestComputeTotals(t *testing.T) {
	items := []ItemInput{
		{Description: "Design", Quantity: d("2"), UnitPrice: d("150000")},
		{Description: "Development", Quantity: d("1"), UnitPrice: d("500000")},
	}

	totals, err := ComputeTotals(items, d("11"), false)
	if err != nil {
		t.Fatalf("ComputeTotals: %v", err)
	}
	if !totals.Subtotal.Equal(d("800000")) {
		t.Errorf("subtotal = %s, want 800000", totals.Subtotal)
	}
	if !totals.TaxAmount.Equal(d("88000")) {
		t.Errorf("tax = %s, want 88000", totals.TaxAmount)
	}
	if !totals.TotalAmount.Equal(d("888000")) {
		t.Errorf("total = %s, want 888000", totals.TotalAmount)
	}
	if !totals.RoundingAmount().IsZero() {
		t.Errorf("rounding = %s, want 0", totals.RoundingAmount())
	}
}

func TestComputeTotalsRoundedAlreadyAligned(t *testing.T) {
	items := []ItemInput{
		{Description: "Design", Quantity: d("2"), UnitPrice: d("150000")},
		{Description: "Development", Quantity: d("1"), UnitPrice: d("500000")},
	}

	totals, err := ComputeTotals(items, d("11"), true)
	if err != nil {
		t.Fatalf("ComputeTotals: %v", err)
	}
	if !totals.TotalAmount.Equal(d("888000")) {
		t.Errorf("total = %s, want 888000", totals.TotalAmount)
	}
}

func TestComputeTotalsRoundedLiftsToThousand(t *testing.T) {
	items := []ItemInput{
		{Description: "Design", Quantity: d("2"), UnitPrice: d("150000")},
		{Description: "Development", Quantity: d("1"), UnitPrice: d("500001")},
	}

	totals, err := ComputeTotals(items, d("11"), true)
	if err != nil {
		t.Fatalf("ComputeTotals: %v", err)
	}
	// 800001 + 88000.11 = 888001.11, lifted to 889000
	if !totals.TotalAmount.Equal(d("889000")) {
		t.Errorf("total = %s, want 889000", totals.TotalAmount)
	}
	if totals.RoundingAmount().IsNegative() {
		t.Errorf("rounding adjustment is negative: %s", totals.RoundingAmount())
	}
	if !totals.TotalAmount.Mod(d("1000")).IsZero() {
		t.Errorf("total %s is not on a thousand boundary", totals.TotalAmount)
	}
}

func TestComputeTotalsLineAmounts(t *testing.T) {
	items := []ItemInput{
		{Description: "Hosting", Quantity: d("2.5"), UnitPrice: d("100000")},
	}

	totals, err := ComputeTotals(items, d("0"), false)
	if err != nil {
		t.Fatalf("ComputeTotals: %v", err)
	}
	if len(totals.LineAmounts) != 1 || !totals.LineAmounts[0].Equal(d("250000")) {
		t.Errorf("line amounts = %v, want [250000]", totals.LineAmounts)
	}
	if !totals.TotalAmount.Equal(d("250000")) {
		t.Errorf("total = %s, want 250000", totals.TotalAmount)
	}
}

func TestComputeTotalsValidation(t *testing.T) {
	valid := ItemInput{Description: "x", Quantity: d("1"), UnitPrice: d("100")}

	cases := []struct {
		name    string
		items   []ItemInput
		taxRate decimal.Decimal
		field   string
	}{
		{"empty items", nil, d("10"), "items"},
		{"zero quantity", []ItemInput{{Description: "x", Quantity: d("0"), UnitPrice: d("100")}}, d("10"), "items"},
		{"negative price", []ItemInput{{Description: "x", Quantity: d("1"), UnitPrice: d("-1")}}, d("10"), "items"},
		{"negative tax", []ItemInput{valid}, d("-1"), "tax_rate"},
		{"tax over 100", []ItemInput{valid}, d("101"), "tax_rate"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeTotals(tc.items, tc.taxRate, false)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if ve.Field != tc.field {
				t.Errorf("field = %s, want %s", ve.Field, tc.field)
			}
		})
	}
}
