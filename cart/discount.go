package cart

import "github.com/shopspring/decimal"

// Discount is a code already checked by the discount service. It is applied
// or removed as a whole.
type Discount struct {
	Code   string          `json:"code"`
	Amount decimal.Decimal `json:"discount_amount"`
	Label  string          `json:"name"`
}

type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Discount   decimal.Decimal `json:"discount"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	Code       string          `json:"discount_code,omitempty"`
	Label      string          `json:"discount_name,omitempty"`
}

// ApplyDiscount subtracts d from subtotal. The grand total never drops below
// zero, and the reported discount is what was actually taken off.
func ApplyDiscount(subtotal decimal.Decimal, d *Discount) Totals {
	t := Totals{Subtotal: subtotal, Discount: decimal.Zero, GrandTotal: subtotal}
	if d == nil {
		return t
	}
	amount := d.Amount
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	grand := subtotal.Sub(amount)
	if grand.IsNegative() {
		grand = decimal.Zero
	}
	t.GrandTotal = grand
	t.Discount = subtotal.Sub(grand)
	t.Code = d.Code
	t.Label = d.Label
	return t
}
