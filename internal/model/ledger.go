package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry records one bill-print event. Immutable once appended.
type LedgerEntry struct {
	BillID     string          `json:"billId"`
	Timestamp  int64           `json:"timestamp"` // epoch ms
	FinalTotal decimal.Decimal `json:"finalTotal"`
}

// DayLedger groups the entries of a single local day. Append-only.
type DayLedger struct {
	DayKey  string        `json:"dayKey"`
	Entries []LedgerEntry `json:"entries"`
}

// Ledger is the top-level persisted bill history for one branch.
type Ledger struct {
	Days map[string]DayLedger `json:"days"`
}

// DailySummary caches the running revenue total for one day.
// Maintained incrementally; see SummaryStore.
type DailySummary struct {
	DayKey       string          `json:"dayKey"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

// DailySummaryStore is the persisted summary cache for one branch.
type DailySummaryStore struct {
	Summaries map[string]DailySummary `json:"summaries"`
}

// DayKey buckets a timestamp into a YYYY-MM-DD key in local time.
// The key is derived once at write time and never recomputed, so the
// ledger's partitioning is immune to later timezone or clock drift.
func DayKey(ts time.Time) string {
	return ts.Local().Format("2006-01-02")
}

// DayKeyFromMillis derives the day key from an epoch-milliseconds timestamp.
func DayKeyFromMillis(ms int64) string {
	return DayKey(time.UnixMilli(ms))
}
