// Package remote defines the contract of the authoritative per-branch store
// and its Postgres implementation. The local stores never depend on it being
// reachable: reads fall back to local, writes are fire-and-forget.
package remote

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ProductQuantity is one (label, quantity) aggregate within a daily total.
type ProductQuantity struct {
	Label    string `json:"label"`
	Quantity int64  `json:"quantity"`
}

// ProductQuantities serializes to a single JSONB column.
type ProductQuantities []ProductQuantity

func (q ProductQuantities) Value() (driver.Value, error) {
	if q == nil {
		q = ProductQuantities{}
	}
	return json.Marshal(q)
}

func (q *ProductQuantities) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, q)
	case string:
		return json.Unmarshal([]byte(v), q)
	case nil:
		*q = ProductQuantities{}
		return nil
	default:
		return fmt.Errorf("remote: cannot scan %T into ProductQuantities", src)
	}
}

// DailyTotal is the authoritative record for one (branch, date).
// TotalRevenue is encoded in integer minor units (value × 100).
type DailyTotal struct {
	Branch            string            `gorm:"primaryKey;type:varchar(120)" json:"branch"`
	Date              string            `gorm:"primaryKey;type:varchar(10)" json:"date"`
	TotalRevenue      int64             `gorm:"not null" json:"totalRevenue"`
	ProductQuantities ProductQuantities `gorm:"type:jsonb;not null;default:'[]'" json:"productQuantities"`
}

// UserProfile is the branch's print-defaults profile mirrored remotely.
type UserProfile struct {
	Branch            string `gorm:"primaryKey;type:varchar(120)" json:"branch"`
	Name              string `gorm:"type:varchar(200);not null" json:"name"`
	BillPrintLocation string `gorm:"type:varchar(400);not null" json:"billPrintLocation"`
}

// Ledger is what the core calls. Implementations must honor the caller's
// context deadline; the service layer applies the configured remote timeout.
type Ledger interface {
	// GetBalanceSheet returns every daily total for the branch.
	GetBalanceSheet(ctx context.Context, branch string) ([]DailyTotal, error)
	// GetDailyTotal returns the (branch, date) record or (nil, nil) if absent.
	GetDailyTotal(ctx context.Context, branch, date string) (*DailyTotal, error)
	// SaveDailyTotal upserts the (branch, date) record.
	SaveDailyTotal(ctx context.Context, branch, date string, totalRevenue int64, quantities []ProductQuantity) error
	// ClearDailyTotals removes every daily total for the branch. Scoping this
	// to a branch (rather than globally) is a deliberate contract decision.
	ClearDailyTotals(ctx context.Context, branch string) error

	GetUserProfile(ctx context.Context, branch string) (*UserProfile, error)
	SaveUserProfile(ctx context.Context, profile UserProfile) error
}
