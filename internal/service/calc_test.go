package service

import (
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/caffeinepub/total-amount-calculator-app/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func items(rows ...[3]string) []model.LineItem {
	out := make([]model.LineItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.LineItem{Label: r[0], Quantity: dec(r[1]), UnitPrice: dec(r[2])})
	}
	return out
}

func TestCalculateLineTotal(t *testing.T) {
	assert.True(t, CalculateLineTotal(dec("3"), dec("15.50")).Equal(dec("46.50")))
	assert.True(t, CalculateLineTotal(dec("-2"), dec("10")).IsZero(), "negative quantity clamps to zero")
	assert.True(t, CalculateLineTotal(dec("2"), dec("-10")).IsZero(), "negative price clamps to zero")
}

func TestCalculateSubtotal(t *testing.T) {
	subtotal := CalculateSubtotal(items(
		[3]string{"Tea", "2", "15"},
		[3]string{"Coffee", "1", "25.50"},
	))
	assert.True(t, subtotal.Equal(dec("55.50")), "got %s", subtotal)

	assert.True(t, CalculateSubtotal(nil).IsZero())
}

func TestCalculateBreakdownPercentageDiscount(t *testing.T) {
	b := CalculateBreakdown(items([3]string{"Meal", "1", "200"}), dec("5"), model.DiscountPercentage, dec("10"))

	assert.True(t, b.Subtotal.Equal(dec("200")))
	assert.True(t, b.TaxAmount.Equal(dec("10")))
	assert.True(t, b.DiscountAmount.Equal(dec("20")))
	assert.True(t, b.FinalTotal.Equal(dec("190")), "got %s", b.FinalTotal)
}

func TestCalculateBreakdownFixedDiscountCappedAtSubtotal(t *testing.T) {
	b := CalculateBreakdown(items([3]string{"Snack", "1", "50"}), dec("0"), model.DiscountFixed, dec("80"))

	assert.True(t, b.DiscountAmount.Equal(dec("50")), "fixed discount never exceeds subtotal")
	assert.True(t, b.FinalTotal.IsZero())
}

func TestCalculateBreakdownFinalTotalNeverNegative(t *testing.T) {
	// Percentage discounts above 100 can push the raw total below zero.
	b := CalculateBreakdown(items([3]string{"Meal", "1", "100"}), dec("0"), model.DiscountPercentage, dec("150"))
	assert.True(t, b.FinalTotal.IsZero(), "got %s", b.FinalTotal)
}

func TestCalculateBreakdownClampsNegativeInputs(t *testing.T) {
	b := CalculateBreakdown(items([3]string{"Meal", "1", "100"}), dec("-5"), model.DiscountFixed, dec("-20"))
	assert.True(t, b.TaxAmount.IsZero())
	assert.True(t, b.DiscountAmount.IsZero())
	assert.True(t, b.FinalTotal.Equal(dec("100")))
}

func TestGenerateBillCodeFormat(t *testing.T) {
	at := time.Date(2026, 8, 28, 14, 30, 45, 0, time.Local)
	code := GenerateBillCode(at)
	assert.Regexp(t, regexp.MustCompile(`^BILL-20260828-143045-[A-Z0-9]{4}$`), code)
}
