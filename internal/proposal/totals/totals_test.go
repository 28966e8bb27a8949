package totals

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(value string) decimal.Decimal {
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestCompute_SubtotalRoundsHalfUp(t *testing.T) {
	result := Compute([]LineItem{
		{Description: "site survey", Value: d("100.005")},
		{Description: "installation", Value: d("50")},
	}, DiscountFixed, decimal.Zero)

	assert.Equal(t, "150.01", result.Subtotal.StringFixed(2))
	assert.Equal(t, "0.00", result.Discount.StringFixed(2))
	assert.Equal(t, "150.01", result.Total.StringFixed(2))
}

func TestCompute_PercentDiscount(t *testing.T) {
	result := Compute([]LineItem{
		{Value: d("100.005")},
		{Value: d("50")},
	}, DiscountPercent, d("10"))

	assert.Equal(t, "150.01", result.Subtotal.StringFixed(2))
	assert.Equal(t, "15.00", result.Discount.StringFixed(2))
	assert.Equal(t, "135.01", result.Total.StringFixed(2))
}

func TestCompute_FixedDiscountClampedToSubtotal(t *testing.T) {
	result := Compute([]LineItem{
		{Value: d("150")},
	}, DiscountFixed, d("200"))

	assert.Equal(t, "150.00", result.Discount.StringFixed(2))
	assert.Equal(t, "0.00", result.Total.StringFixed(2))
	assert.False(t, result.Total.IsNegative())
}

func TestCompute_NegativeFixedDiscountFloorsAtZero(t *testing.T) {
	result := Compute([]LineItem{
		{Value: d("80")},
	}, DiscountFixed, d("-25"))

	assert.Equal(t, "0.00", result.Discount.StringFixed(2))
	assert.Equal(t, "80.00", result.Total.StringFixed(2))
}

func TestCompute_PercentClamped(t *testing.T) {
	over := Compute([]LineItem{{Value: d("40")}}, DiscountPercent, d("250"))
	assert.Equal(t, "40.00", over.Discount.StringFixed(2))
	assert.Equal(t, "0.00", over.Total.StringFixed(2))

	under := Compute([]LineItem{{Value: d("40")}}, DiscountPercent, d("-10"))
	assert.Equal(t, "0.00", under.Discount.StringFixed(2))
	assert.Equal(t, "40.00", under.Total.StringFixed(2))
}

func TestCompute_EmptyItems(t *testing.T) {
	result := Compute(nil, DiscountPercent, d("50"))

	assert.True(t, result.Subtotal.IsZero())
	assert.True(t, result.Discount.IsZero())
	assert.True(t, result.Total.IsZero())
}

func TestParseDiscountMode(t *testing.T) {
	assert.Equal(t, DiscountPercent, ParseDiscountMode("percentual"))
	assert.Equal(t, DiscountFixed, ParseDiscountMode("valor"))
	assert.Equal(t, DiscountFixed, ParseDiscountMode(""))
	assert.Equal(t, DiscountFixed, ParseDiscountMode("something_else"))
}
