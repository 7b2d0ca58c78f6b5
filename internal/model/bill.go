package model

import "github.com/shopspring/decimal"

// Discount types accepted on a bill.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Receipt styles supported by the print view.
const (
	ReceiptStyleClassic = "classic"
	ReceiptStyleCompact = "compact"

	DefaultReceiptStyle = ReceiptStyleClassic
)

// LineItem is a single row on a bill.
type LineItem struct {
	Label     string          `json:"label"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Breakdown holds the computed amounts for a bill.
type Breakdown struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	FinalTotal     decimal.Decimal `json:"finalTotal"`
}

// BillFormatSnapshot freezes the branch's print-format defaults at the moment
// of printing, so later changes to the defaults never alter historical bills.
type BillFormatSnapshot struct {
	ReceiptStyle         string `json:"receiptStyle"`
	PaymentScanDataURL   string `json:"paymentScanDataUrl,omitempty"`
	PrintLocationAddress string `json:"printLocationAddress,omitempty"`
}

// BillFormatDefaults are the branch's current print-format defaults.
type BillFormatDefaults struct {
	ReceiptStyle         string `json:"receiptStyle"`
	PaymentScanDataURL   string `json:"paymentScanDataUrl,omitempty"`
	PrintLocationAddress string `json:"printLocationAddress,omitempty"`
}

// SavedBillRecord is the full archived bill. Immutable after creation.
type SavedBillRecord struct {
	ID                 string             `json:"id"`
	Timestamp          int64              `json:"timestamp"` // epoch ms
	BillCode           string             `json:"billCode"`
	LineItems          []LineItem         `json:"lineItems"`
	TaxRate            decimal.Decimal    `json:"taxRate"`
	DiscountType       string             `json:"discountType"`
	DiscountValue      decimal.Decimal    `json:"discountValue"`
	Breakdown          Breakdown          `json:"breakdown"`
	BillFormatSnapshot BillFormatSnapshot `json:"billFormatSnapshot"`
}
