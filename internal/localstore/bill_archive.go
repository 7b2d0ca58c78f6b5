package localstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/caffeinepub/total-amount-calculator-app/internal/model"
)

// BillArchive stores full bill records per branch. Every operation
// load-modify-stores the whole list — fine at single-location volume, not
// meant for large datasets.
//
// Unlike the ledger and summary stores, a failed Save propagates to the
// caller: silently losing a bill record is unacceptable.
type BillArchive struct {
	kv  KV
	now func() time.Time // test hook
}

func NewBillArchive(kv KV) *BillArchive {
	return &BillArchive{kv: kv, now: time.Now}
}

func (a *BillArchive) load(branch string) ([]model.SavedBillRecord, error) {
	key, err := ScopedKey(branch, BaseSavedBills)
	if err != nil {
		return nil, err
	}
	raw, ok := a.kv.Get(key)
	if !ok {
		return []model.SavedBillRecord{}, nil
	}
	var bills []model.SavedBillRecord
	if err := json.Unmarshal([]byte(raw), &bills); err != nil {
		log.Warn().Str("branch", branch).Msg("corrupt saved-bills payload, starting empty")
		return []model.SavedBillRecord{}, nil
	}
	return bills, nil
}

// Save assigns an id and timestamp, appends the record, and persists the
// branch's full list. Returns the generated bill id.
func (a *BillArchive) Save(branch string, bill model.SavedBillRecord) (string, error) {
	bills, err := a.load(branch)
	if err != nil {
		return "", err
	}
	bill.ID = uuid.NewString()
	bill.Timestamp = a.now().UnixMilli()
	bills = append(bills, bill)

	key, err := ScopedKey(branch, BaseSavedBills)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(bills)
	if err != nil {
		return "", err
	}
	if err := a.kv.Set(key, string(data)); err != nil {
		return "", fmt.Errorf("save bill: %w", err)
	}
	return bill.ID, nil
}

// GetByID returns the bill or (nil, nil) if absent.
func (a *BillArchive) GetByID(branch, billID string) (*model.SavedBillRecord, error) {
	bills, err := a.load(branch)
	if err != nil {
		return nil, err
	}
	for i := range bills {
		if bills[i].ID == billID {
			return &bills[i], nil
		}
	}
	return nil, nil
}

// GetAll returns every archived bill for the branch in save order.
func (a *BillArchive) GetAll(branch string) ([]model.SavedBillRecord, error) {
	return a.load(branch)
}

// ClearAll removes the branch's bill list.
func (a *BillArchive) ClearAll(branch string) error {
	key, err := ScopedKey(branch, BaseSavedBills)
	if err != nil {
		return err
	}
	return a.kv.Delete(key)
}
