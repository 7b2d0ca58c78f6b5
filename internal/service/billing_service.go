package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/caffeinepub/total-amount-calculator-app/internal/dto"
	"github.com/caffeinepub/total-amount-calculator-app/internal/localstore"
	"github.com/caffeinepub/total-amount-calculator-app/internal/model"
	"github.com/caffeinepub/total-amount-calculator-app/internal/remote"
	"github.com/caffeinepub/total-amount-calculator-app/internal/worker"
)

// DailyTotalEnqueuer is the slice of the worker dispatcher the billing flow
// needs. Enqueueing is best-effort and must never fail the print.
type DailyTotalEnqueuer interface {
	EnqueueDailyTotalSync(ctx context.Context, payload worker.DailyTotalSyncPayload)
}

type BillingService interface {
	// PrintBill runs the full print flow: compute breakdown, snapshot the
	// branch print defaults, archive the bill, append the ledger, warm the
	// summary cache, then hand the day's aggregate to the fire-and-forget
	// remote sync.
	PrintBill(ctx context.Context, branch string, req dto.PrintBillRequest) (*model.SavedBillRecord, error)
	GetBill(ctx context.Context, branch, billID string) (*model.SavedBillRecord, error)
	ListBills(ctx context.Context, branch string) ([]model.SavedBillRecord, error)
	// ClearBills wipes the branch's bill archive only.
	ClearBills(ctx context.Context, branch string) error
	// ClearLedger wipes the branch's ledger AND its summary cache — the two
	// must go together or the cache diverges from the ledger.
	ClearLedger(ctx context.Context, branch string) error
}

type billingService struct {
	archive    *localstore.BillArchive
	ledger     *localstore.LedgerStore
	summary    *localstore.SummaryStore
	defaults   *localstore.DefaultsStore
	dispatcher DailyTotalEnqueuer
	now        func() time.Time // test hook
}

func NewBillingService(
	archive *localstore.BillArchive,
	ledger *localstore.LedgerStore,
	summary *localstore.SummaryStore,
	defaults *localstore.DefaultsStore,
	dispatcher DailyTotalEnqueuer,
) BillingService {
	return &billingService{
		archive:    archive,
		ledger:     ledger,
		summary:    summary,
		defaults:   defaults,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

func (s *billingService) PrintBill(ctx context.Context, branch string, req dto.PrintBillRequest) (*model.SavedBillRecord, error) {
	items := make([]model.LineItem, 0, len(req.LineItems))
	for _, it := range req.LineItems {
		items = append(items, model.LineItem{
			Label:     it.Label,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	breakdown := CalculateBreakdown(items, req.TaxRate, req.DiscountType, req.DiscountValue)

	// Freeze the branch's current print-format defaults onto the bill.
	defaults, err := s.defaults.Load(branch)
	if err != nil {
		return nil, err
	}

	record := model.SavedBillRecord{
		BillCode:      GenerateBillCode(s.now()),
		LineItems:     items,
		TaxRate:       req.TaxRate,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		Breakdown:     breakdown,
		BillFormatSnapshot: model.BillFormatSnapshot{
			ReceiptStyle:         defaults.ReceiptStyle,
			PaymentScanDataURL:   defaults.PaymentScanDataURL,
			PrintLocationAddress: defaults.PrintLocationAddress,
		},
	}

	// Archive first — this is the write whose failure aborts the print.
	billID, err := s.archive.Save(branch, record)
	if err != nil {
		return nil, err
	}
	record.ID = billID

	// Ledger and summary are best-effort; errors below propagate only for
	// caller bugs (no branch), never for storage trouble.
	if err := s.ledger.Append(branch, billID, breakdown.FinalTotal); err != nil {
		return nil, err
	}
	dayKey := model.DayKey(s.now())
	if err := s.summary.Increment(branch, dayKey, breakdown.FinalTotal); err != nil {
		return nil, err
	}

	s.enqueueDaySync(ctx, branch, dayKey)

	saved, err := s.archive.GetByID(branch, billID)
	if err != nil || saved == nil {
		return &record, nil
	}
	return saved, nil
}

// enqueueDaySync snapshots the day's aggregate (cached total plus per-item
// quantities from the archive) and hands it to the sync queue. Never blocks
// the print on failure.
func (s *billingService) enqueueDaySync(ctx context.Context, branch, dayKey string) {
	summary, err := s.summary.GetOrCompute(branch, dayKey)
	if err != nil {
		log.Error().Err(err).Str("branch", branch).Msg("skipping remote sync: summary unavailable")
		return
	}
	bills, err := s.archive.GetAll(branch)
	if err != nil {
		log.Error().Err(err).Str("branch", branch).Msg("skipping remote sync: archive unavailable")
		return
	}
	quantities := AggregateItemQuantities(BillsForDay(bills, dayKey))

	remoteQuantities := make([]remote.ProductQuantity, 0, len(quantities))
	for _, label := range sortedLabels(quantities) {
		remoteQuantities = append(remoteQuantities, remote.ProductQuantity{
			Label:    label,
			Quantity: quantities[label].IntPart(),
		})
	}

	s.dispatcher.EnqueueDailyTotalSync(ctx, worker.DailyTotalSyncPayload{
		Branch:            branch,
		Date:              dayKey,
		TotalRevenue:      summary.TotalRevenue.Mul(hundred).Round(0).IntPart(),
		ProductQuantities: remoteQuantities,
	})
}

func (s *billingService) GetBill(_ context.Context, branch, billID string) (*model.SavedBillRecord, error) {
	return s.archive.GetByID(branch, billID)
}

func (s *billingService) ListBills(_ context.Context, branch string) ([]model.SavedBillRecord, error) {
	return s.archive.GetAll(branch)
}

func (s *billingService) ClearBills(_ context.Context, branch string) error {
	return s.archive.ClearAll(branch)
}

func (s *billingService) ClearLedger(_ context.Context, branch string) error {
	if err := s.ledger.Clear(branch); err != nil {
		return err
	}
	return s.summary.Clear(branch)
}
