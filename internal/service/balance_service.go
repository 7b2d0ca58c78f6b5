package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/caffeinepub/total-amount-calculator-app/internal/dto"
	"github.com/caffeinepub/total-amount-calculator-app/internal/infra"
	"github.com/caffeinepub/total-amount-calculator-app/internal/localstore"
	"github.com/caffeinepub/total-amount-calculator-app/internal/model"
	"github.com/caffeinepub/total-amount-calculator-app/internal/remote"
)

// BalanceService is the balance-sheet read path. It prefers the remote
// authoritative store and falls back entirely to the local ledger, summary
// cache, and bill archive when the remote is unreachable, erroring, or
// empty. This is a strict source preference — never a field-level merge.
type BalanceService interface {
	AvailableDays(ctx context.Context, branch string) (*dto.BalanceSheetResponse, error)
	DayDetail(ctx context.Context, branch, dayKey string) (*dto.DayDetailResponse, error)
	// ClearRemoteDays deletes the branch's authoritative daily totals.
	// Synchronous and branch-scoped; remote errors surface to the caller.
	ClearRemoteDays(ctx context.Context, branch string) error
	// WatchLocalChanges reacts to local storage mutations from other
	// processes; see the method comment on balanceService.
	WatchLocalChanges(kv localstore.KV, activeBranch func() string) (cancel func())
}

type balanceService struct {
	remote  remote.Ledger
	breaker *infra.CircuitBreaker
	timeout time.Duration
	ledger  *localstore.LedgerStore
	summary *localstore.SummaryStore
	archive *localstore.BillArchive

	// Cached local fallback views, one per branch, rebuilt when a storage
	// mutation notification touches the branch's ledger or summary keys.
	mu    sync.Mutex
	local map[string]*localView
}

type localView struct {
	days   []string
	totals map[string]model.DailySummary
}

func NewBalanceService(
	remoteLedger remote.Ledger,
	breaker *infra.CircuitBreaker,
	timeout time.Duration,
	ledger *localstore.LedgerStore,
	summary *localstore.SummaryStore,
	archive *localstore.BillArchive,
) BalanceService {
	return &balanceService{
		remote:  remoteLedger,
		breaker: breaker,
		timeout: timeout,
		ledger:  ledger,
		summary: summary,
		archive: archive,
		local:   make(map[string]*localView),
	}
}

// WatchLocalChanges subscribes to storage mutation notifications (the
// cross-process analog of browser storage events) and refreshes the cached
// local view for the active branch whenever its ledger or summary key
// changes. Deliberately local-only: a storage event never re-queries remote.
func (s *balanceService) WatchLocalChanges(kv localstore.KV, activeBranch func() string) (cancel func()) {
	return kv.Subscribe(func(key string) {
		branch := activeBranch()
		if !localstore.IsDailyTotalsKey(key, branch) {
			return
		}
		if err := s.refreshLocal(branch); err != nil {
			log.Warn().Err(err).Str("branch", branch).Msg("local balance view refresh failed")
		}
	})
}

// refreshLocal rebuilds the branch's cached day list and drops stale totals.
func (s *balanceService) refreshLocal(branch string) error {
	days, err := s.ledger.AvailableDays(branch)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.local[branch] = &localView{days: days, totals: make(map[string]model.DailySummary)}
	s.mu.Unlock()
	return nil
}

// fetchRemoteSheet calls the remote through the circuit breaker with the
// configured timeout. Any failure — including an open breaker — is a
// RemoteUnavailable condition and triggers the local fallback.
func (s *balanceService) fetchRemoteSheet(ctx context.Context, branch string) ([]remote.DailyTotal, error) {
	callCtx, cancelCall := context.WithTimeout(ctx, s.timeout)
	defer cancelCall()

	var sheet []remote.DailyTotal
	err := s.breaker.Execute(func() error {
		var err error
		sheet, err = s.remote.GetBalanceSheet(callCtx, branch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sheet, nil
}

func (s *balanceService) AvailableDays(ctx context.Context, branch string) (*dto.BalanceSheetResponse, error) {
	if branch == "" {
		return nil, localstore.ErrNoActiveBranch
	}

	sheet, err := s.fetchRemoteSheet(ctx, branch)
	if err == nil && len(sheet) > 0 {
		days := make([]string, 0, len(sheet))
		for _, entry := range sheet {
			days = append(days, entry.Date)
		}
		sort.Sort(sort.Reverse(sort.StringSlice(days)))
		return &dto.BalanceSheetResponse{Days: days, Source: dto.SourceRemote}, nil
	}
	if err != nil {
		log.Debug().Err(err).Str("branch", branch).Msg("remote balance sheet unavailable, using local")
	}

	days, err := s.localDays(branch)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceSheetResponse{Days: days, Source: dto.SourceLocal}, nil
}

func (s *balanceService) DayDetail(ctx context.Context, branch, dayKey string) (*dto.DayDetailResponse, error) {
	if branch == "" {
		return nil, localstore.ErrNoActiveBranch
	}

	// Remote first. An absent remote record (nil, nil) falls through to the
	// local stores just like a failed call does.
	callCtx, cancelCall := context.WithTimeout(ctx, s.timeout)
	var remoteTotal *remote.DailyTotal
	err := s.breaker.Execute(func() error {
		var err error
		remoteTotal, err = s.remote.GetDailyTotal(callCtx, branch, dayKey)
		return err
	})
	cancelCall()

	if err == nil && remoteTotal != nil {
		// Minor units back to decimal; integer counts back to quantities.
		quantities := make(map[string]decimal.Decimal, len(remoteTotal.ProductQuantities))
		for _, pq := range remoteTotal.ProductQuantities {
			quantities[pq.Label] = decimal.NewFromInt(pq.Quantity)
		}
		return &dto.DayDetailResponse{
			DayKey:         dayKey,
			TotalRevenue:   decimal.NewFromInt(remoteTotal.TotalRevenue).Div(hundred),
			ItemQuantities: quantities,
			Source:         dto.SourceRemote,
		}, nil
	}
	if err != nil {
		log.Debug().Err(err).Str("branch", branch).Str("day", dayKey).
			Msg("remote daily total unavailable, using local")
	}

	return s.localDayDetail(branch, dayKey)
}

// ClearRemoteDays is the one remote write that is not fire-and-forget: the
// user asked to destroy authoritative records and must learn if it failed.
func (s *balanceService) ClearRemoteDays(ctx context.Context, branch string) error {
	if branch == "" {
		return localstore.ErrNoActiveBranch
	}
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.remote.ClearDailyTotals(callCtx, branch)
}

// localDays serves the cached day list, rebuilding it on a cache miss.
func (s *balanceService) localDays(branch string) ([]string, error) {
	s.mu.Lock()
	view, ok := s.local[branch]
	s.mu.Unlock()
	if !ok {
		if err := s.refreshLocal(branch); err != nil {
			return nil, err
		}
		s.mu.Lock()
		view = s.local[branch]
		s.mu.Unlock()
	}
	return view.days, nil
}

func (s *balanceService) localDayDetail(branch, dayKey string) (*dto.DayDetailResponse, error) {
	summary, err := s.cachedSummary(branch, dayKey)
	if err != nil {
		return nil, err
	}

	bills, err := s.archive.GetAll(branch)
	if err != nil {
		return nil, err
	}
	quantities := AggregateItemQuantities(BillsForDay(bills, dayKey))

	return &dto.DayDetailResponse{
		DayKey:         dayKey,
		TotalRevenue:   summary.TotalRevenue,
		ItemQuantities: quantities,
		Source:         dto.SourceLocal,
	}, nil
}

func (s *balanceService) cachedSummary(branch, dayKey string) (model.DailySummary, error) {
	s.mu.Lock()
	view, ok := s.local[branch]
	if ok {
		if summary, hit := view.totals[dayKey]; hit {
			s.mu.Unlock()
			return summary, nil
		}
	}
	s.mu.Unlock()

	summary, err := s.summary.GetOrCompute(branch, dayKey)
	if err != nil {
		return model.DailySummary{}, err
	}
	s.mu.Lock()
	if view, ok := s.local[branch]; ok {
		view.totals[dayKey] = summary
	}
	s.mu.Unlock()
	return summary, nil
}

// BillsForDay filters bills to those whose timestamp falls on dayKey,
// recomputing each bill's own day key from its timestamp — a second, local
// source of day partitioning independent of the ledger's stored keys.
func BillsForDay(bills []model.SavedBillRecord, dayKey string) []model.SavedBillRecord {
	var out []model.SavedBillRecord
	for _, bill := range bills {
		if model.DayKeyFromMillis(bill.Timestamp) == dayKey {
			out = append(out, bill)
		}
	}
	return out
}

// AggregateItemQuantities sums quantities per trimmed label across the given
// bills. Entries with an empty trimmed label or non-positive quantity are
// skipped; labels compare case-sensitively.
func AggregateItemQuantities(bills []model.SavedBillRecord) map[string]decimal.Decimal {
	aggregated := make(map[string]decimal.Decimal)
	for _, bill := range bills {
		for _, item := range bill.LineItems {
			label := strings.TrimSpace(item.Label)
			if label == "" || !item.Quantity.IsPositive() {
				continue
			}
			aggregated[label] = aggregated[label].Add(item.Quantity)
		}
	}
	return aggregated
}

func sortedLabels(quantities map[string]decimal.Decimal) []string {
	labels := make([]string, 0, len(quantities))
	for label := range quantities {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
