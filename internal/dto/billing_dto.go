package dto

import (
	"github.com/shopspring/decimal"

	"github.com/caffeinepub/total-amount-calculator-app/internal/model"
)

// LineItemRequest is one row of a bill being printed.
type LineItemRequest struct {
	Label     string          `json:"label" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"min=0"`
	UnitPrice decimal.Decimal `json:"unitPrice" validate:"min=0"`
}

// PrintBillRequest is the body of POST /v1/bills.
type PrintBillRequest struct {
	LineItems     []LineItemRequest `json:"lineItems" validate:"required,min=1,dive"`
	TaxRate       decimal.Decimal   `json:"taxRate" validate:"min=0"`
	DiscountType  string            `json:"discountType" validate:"required,oneof=percentage fixed"`
	DiscountValue decimal.Decimal   `json:"discountValue" validate:"min=0"`
}

// BillListResponse wraps the branch's archived bills.
type BillListResponse struct {
	Bills []model.SavedBillRecord `json:"bills"`
	Total int                     `json:"total"`
}

// BillDefaultsRequest is the body of PUT /v1/bill-defaults.
type BillDefaultsRequest struct {
	ReceiptStyle         string `json:"receiptStyle" validate:"required,oneof=classic compact"`
	PaymentScanDataURL   string `json:"paymentScanDataUrl"`
	PrintLocationAddress string `json:"printLocationAddress"`
}

// ProfileRequest is the body of PUT /v1/profile.
type ProfileRequest struct {
	Name              string `json:"name" validate:"required"`
	BillPrintLocation string `json:"billPrintLocation"`
}
