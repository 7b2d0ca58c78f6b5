package dto

import "github.com/shopspring/decimal"

// Source labels which store answered a balance-sheet read.
const (
	SourceRemote = "remote"
	SourceLocal  = "local"
)

// BalanceSheetResponse lists the branch's known days, most recent first.
type BalanceSheetResponse struct {
	Days   []string `json:"days"`
	Source string   `json:"source"`
}

// DayDetailResponse is one day's revenue and per-item quantities.
type DayDetailResponse struct {
	DayKey         string                     `json:"dayKey"`
	TotalRevenue   decimal.Decimal            `json:"totalRevenue"`
	ItemQuantities map[string]decimal.Decimal `json:"itemQuantities"`
	Source         string                     `json:"source"`
}
