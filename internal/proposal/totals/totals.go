// Package totals computes proposal financials with fixed-point decimal
// arithmetic. All results carry two decimal places rounded half-up.
package totals

import "github.com/shopspring/decimal"

// DiscountMode selects how the raw discount input is interpreted. The
// string values are the legacy persistence vocabulary.
type DiscountMode string

const (
	DiscountFixed   DiscountMode = "valor"
	DiscountPercent DiscountMode = "percentual"
)

// ParseDiscountMode maps a raw value onto the closed mode set. Anything
// unrecognized behaves as a fixed amount, matching the persisted default.
func ParseDiscountMode(raw string) DiscountMode {
	if DiscountMode(raw) == DiscountPercent {
		return DiscountPercent
	}
	return DiscountFixed
}

// LineItem is a normalized proposal line. Adapters are responsible for
// coercing legacy string-encoded values before calling Compute; a value
// that could not be parsed contributes zero.
type LineItem struct {
	Description string
	Value       decimal.Decimal
}

// Result holds the derived financial fields.
type Result struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// Compute derives subtotal, discount value, and total.
//
// The subtotal is the rounded sum of item values. A percentage discount is
// clamped to [0, 100] before being applied to the subtotal; a fixed
// discount is floored at zero. The discount never exceeds the subtotal, so
// the total is never negative. Rounding is half-up (decimal.Round rounds
// half away from zero, which is identical on this non-negative domain).
func Compute(items []LineItem, mode DiscountMode, input decimal.Decimal) Result {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Value)
	}
	subtotal := sum.Round(2)

	var discount decimal.Decimal
	if mode == DiscountPercent {
		percent := clamp(input, decimal.Zero, hundred)
		discount = subtotal.Mul(percent).Div(hundred).Round(2)
	} else {
		discount = input
		if discount.IsNegative() {
			discount = decimal.Zero
		}
	}

	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	return Result{
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal.Sub(discount).Round(2),
	}
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
