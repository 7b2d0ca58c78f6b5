package localstore

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/caffeinepub/total-amount-calculator-app/internal/model"
)

// LedgerStore is the append-only local ledger of bill-print events, one
// persisted Ledger object per branch. Append is the sole mutation path;
// entries are never edited or removed here.
type LedgerStore struct {
	kv  KV
	now func() time.Time // test hook
}

func NewLedgerStore(kv KV) *LedgerStore {
	return &LedgerStore{kv: kv, now: time.Now}
}

// load decodes the branch's ledger. A malformed payload (not an object with a
// days field) is treated as an empty ledger: the store self-heals by falling
// back to the empty state, and the next Append overwrites the corrupt value.
func (s *LedgerStore) load(branch string) (model.Ledger, error) {
	key, err := ScopedKey(branch, BaseDailyLedger)
	if err != nil {
		return model.Ledger{}, err
	}
	empty := model.Ledger{Days: map[string]model.DayLedger{}}
	raw, ok := s.kv.Get(key)
	if !ok {
		return empty, nil
	}
	var ledger model.Ledger
	if err := json.Unmarshal([]byte(raw), &ledger); err != nil || ledger.Days == nil {
		log.Warn().Str("branch", branch).Msg("corrupt ledger payload, starting empty")
		return empty, nil
	}
	return ledger, nil
}

func (s *LedgerStore) store(branch string, ledger model.Ledger) error {
	key, err := ScopedKey(branch, BaseDailyLedger)
	if err != nil {
		return err
	}
	data, err := json.Marshal(ledger)
	if err != nil {
		return err
	}
	return s.kv.Set(key, string(data))
}

// Append records a bill-print event under today's day key. The day key is
// derived once, here, from the entry's timestamp.
// Write failures are logged and swallowed — the ledger is best-effort.
func (s *LedgerStore) Append(branch, billID string, finalTotal decimal.Decimal) error {
	ledger, err := s.load(branch)
	if err != nil {
		return err
	}
	ts := s.now()
	dayKey := model.DayKey(ts)

	day, ok := ledger.Days[dayKey]
	if !ok {
		day = model.DayLedger{DayKey: dayKey}
	}
	day.Entries = append(day.Entries, model.LedgerEntry{
		BillID:     billID,
		Timestamp:  ts.UnixMilli(),
		FinalTotal: finalTotal,
	})
	ledger.Days[dayKey] = day

	if err := s.store(branch, ledger); err != nil {
		log.Error().Err(err).Str("branch", branch).Msg("ledger append write failed")
	}
	return nil
}

// AvailableDays returns all known day keys for the branch, most recent first.
func (s *LedgerStore) AvailableDays(branch string) ([]string, error) {
	ledger, err := s.load(branch)
	if err != nil {
		return nil, err
	}
	days := make([]string, 0, len(ledger.Days))
	for day := range ledger.Days {
		days = append(days, day)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))
	return days, nil
}

// EntriesForDay returns the day's entries in append order, empty if the day
// is unknown.
func (s *LedgerStore) EntriesForDay(branch, dayKey string) ([]model.LedgerEntry, error) {
	ledger, err := s.load(branch)
	if err != nil {
		return nil, err
	}
	return ledger.Days[dayKey].Entries, nil
}

// DayTotal recomputes the day's revenue from scratch. This is the fallback
// ground truth when a summary is stale or missing.
func (s *LedgerStore) DayTotal(branch, dayKey string) (decimal.Decimal, error) {
	entries, err := s.EntriesForDay(branch, dayKey)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.FinalTotal)
	}
	return total, nil
}

// Clear wipes the branch's ledger. Callers must clear the summary cache in
// the same operation or the two diverge; see SummaryStore.
func (s *LedgerStore) Clear(branch string) error {
	key, err := ScopedKey(branch, BaseDailyLedger)
	if err != nil {
		return err
	}
	return s.kv.Delete(key)
}
