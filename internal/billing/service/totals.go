package service

import "github.com/shopspring/decimal"

var (
	hundred  = decimal.NewFromInt(100)
	thousand = decimal.NewFromInt(1000)
)

// ItemInput is one invoice line as submitted by the caller.
type ItemInput struct {
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// Totals is the computed money snapshot of an invoice.
type Totals struct {
	Subtotal    decimal.Decimal   `json:"subtotal"`
	TaxAmount   decimal.Decimal   `json:"tax_amount"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	LineAmounts []decimal.Decimal `json:"-"`
}

// RoundingAmount is the adjustment added to align the total to a thousand
// boundary, zero when rounding is off.
func (t Totals) RoundingAmount() decimal.Decimal {
	return t.TotalAmount.Sub(t.Subtotal.Add(t.TaxAmount))
}

// ComputeTotals derives subtotal, tax and total from line items. Tax is a flat
// percentage of the subtotal. With rounded set, the total is lifted to the
// next thousand boundary.
func ComputeTotals(items []ItemInput, taxRate decimal.Decimal, rounded bool) (Totals, error) {
	if len(items) == 0 {
		return Totals{}, newValidationError("items", "at least one item is required")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(hundred) {
		return Totals{}, newValidationError("tax_rate", "must be between 0 and 100")
	}

	subtotal := decimal.Zero
	lineAmounts := make([]decimal.Decimal, len(items))
	for i, item := range items {
		if !item.Quantity.IsPositive() {
			return Totals{}, newValidationError("items", "quantity must be greater than zero")
		}
		if item.UnitPrice.IsNegative() {
			return Totals{}, newValidationError("items", "unit price must not be negative")
		}
		amount := item.Quantity.Mul(item.UnitPrice).Round(2)
		lineAmounts[i] = amount
		subtotal = subtotal.Add(amount)
	}

	taxAmount := subtotal.Mul(taxRate).Div(hundred).Round(2)
	total := subtotal.Add(taxAmount)
	if rounded {
		total = roundUpToThousand(total)
	}

	return Totals{
		Subtotal:    subtotal,
		TaxAmount:   taxAmount,
		TotalAmount: total,
		LineAmounts: lineAmounts,
	}, nil
}

// roundUpToThousand lifts an amount to the next multiple of 1000. Amounts
// already on a boundary are unchanged.
func roundUpToThousand(amount decimal.Decimal) decimal.Decimal {
	return amount.Div(thousand).Ceil().Mul(thousand)
}
