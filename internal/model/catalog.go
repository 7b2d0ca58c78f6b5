package model

import "github.com/shopspring/decimal"

// CatalogItem is a predefined menu item with a fixed price, offered for
// quick entry on the calculator.
type CatalogItem struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Category   string          `json:"category,omitempty"`
	OutOfStock bool            `json:"outOfStock"`
}
