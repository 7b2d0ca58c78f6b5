package localstore

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/caffeinepub/total-amount-calculator-app/internal/model"
)

// SummaryStore caches per-day revenue totals so the balance sheet reads in
// O(1) instead of rescanning the ledger. It is a read-through cache with
// write-back population, kept warm by Increment on every print.
//
// The cache is eventually consistent with the ledger: deleting ledger
// entries out-of-band without clearing the matching summary leaves the two
// diverged. Clear both together.
type SummaryStore struct {
	kv     KV
	ledger *LedgerStore
}

func NewSummaryStore(kv KV, ledger *LedgerStore) *SummaryStore {
	return &SummaryStore{kv: kv, ledger: ledger}
}

func (s *SummaryStore) load(branch string) (model.DailySummaryStore, error) {
	key, err := ScopedKey(branch, BaseDailySummary)
	if err != nil {
		return model.DailySummaryStore{}, err
	}
	empty := model.DailySummaryStore{Summaries: map[string]model.DailySummary{}}
	raw, ok := s.kv.Get(key)
	if !ok {
		return empty, nil
	}
	var store model.DailySummaryStore
	if err := json.Unmarshal([]byte(raw), &store); err != nil || store.Summaries == nil {
		log.Warn().Str("branch", branch).Msg("corrupt summary payload, starting empty")
		return empty, nil
	}
	return store, nil
}

func (s *SummaryStore) store(branch string, store model.DailySummaryStore) error {
	key, err := ScopedKey(branch, BaseDailySummary)
	if err != nil {
		return err
	}
	data, err := json.Marshal(store)
	if err != nil {
		return err
	}
	return s.kv.Set(key, string(data))
}

// GetOrCompute returns the cached summary for dayKey, computing it from the
// ledger and persisting the result if absent. The first read after data
// exists costs one full ledger scan; subsequent reads are O(1).
func (s *SummaryStore) GetOrCompute(branch, dayKey string) (model.DailySummary, error) {
	store, err := s.load(branch)
	if err != nil {
		return model.DailySummary{}, err
	}
	if summary, ok := store.Summaries[dayKey]; ok {
		return summary, nil
	}

	total, err := s.ledger.DayTotal(branch, dayKey)
	if err != nil {
		return model.DailySummary{}, err
	}
	summary := model.DailySummary{DayKey: dayKey, TotalRevenue: total}
	store.Summaries[dayKey] = summary
	if err := s.store(branch, store); err != nil {
		// Best-effort cache fill; the computed value is still correct.
		log.Error().Err(err).Str("branch", branch).Msg("summary write-back failed")
	}
	return summary, nil
}

// Increment adds delta to the day's cached total, creating a zero-initialized
// summary first if none exists. Called on every print with the bill's final
// total so the cache stays warm without rescanning the ledger.
func (s *SummaryStore) Increment(branch, dayKey string, delta decimal.Decimal) error {
	store, err := s.load(branch)
	if err != nil {
		return err
	}
	summary, ok := store.Summaries[dayKey]
	if !ok {
		summary = model.DailySummary{DayKey: dayKey, TotalRevenue: decimal.Zero}
	}
	summary.TotalRevenue = summary.TotalRevenue.Add(delta)
	store.Summaries[dayKey] = summary
	if err := s.store(branch, store); err != nil {
		log.Error().Err(err).Str("branch", branch).Msg("summary increment write failed")
	}
	return nil
}

// Clear wipes the branch's summary cache. Paired with LedgerStore.Clear.
func (s *SummaryStore) Clear(branch string) error {
	key, err := ScopedKey(branch, BaseDailySummary)
	if err != nil {
		return err
	}
	return s.kv.Delete(key)
}
