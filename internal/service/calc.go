package service

import (
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caffeinepub/total-amount-calculator-app/internal/model"
)

var hundred = decimal.NewFromInt(100)

// clampNonNegative floors a value at zero.
func clampNonNegative(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

// CalculateLineTotal returns quantity × unit price, with negative inputs
// clamped to zero.
func CalculateLineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return clampNonNegative(quantity).Mul(clampNonNegative(unitPrice))
}

// CalculateSubtotal sums the line totals.
func CalculateSubtotal(items []model.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(CalculateLineTotal(item.Quantity, item.UnitPrice))
	}
	return sum
}

// CalculateBreakdown computes subtotal, tax, discount, and final total.
// A fixed discount never exceeds the subtotal, and the final total never
// goes below zero.
func CalculateBreakdown(items []model.LineItem, taxRate decimal.Decimal, discountType string, discountValue decimal.Decimal) model.Breakdown {
	subtotal := CalculateSubtotal(items)
	taxRate = clampNonNegative(taxRate)
	discountValue = clampNonNegative(discountValue)

	taxAmount := subtotal.Mul(taxRate).Div(hundred)

	var discountAmount decimal.Decimal
	if discountType == model.DiscountPercentage {
		discountAmount = subtotal.Mul(discountValue).Div(hundred)
	} else {
		discountAmount = decimal.Min(discountValue, subtotal)
	}

	finalTotal := clampNonNegative(subtotal.Add(taxAmount).Sub(discountAmount))

	return model.Breakdown{
		Subtotal:       subtotal,
		TaxAmount:      taxAmount,
		DiscountAmount: discountAmount,
		FinalTotal:     finalTotal,
	}
}

const billCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateBillCode returns a human-readable code of the form
// BILL-YYYYMMDD-HHMMSS-XXXX with a random alphanumeric suffix.
func GenerateBillCode(now time.Time) string {
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = billCodeChars[rand.Intn(len(billCodeChars))]
	}
	return "BILL-" + now.Format("20060102-150405") + "-" + string(suffix)
}
