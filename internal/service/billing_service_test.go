package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caffeinepub/total-amount-calculator-app/internal/dto"
	"github.com/caffeinepub/total-amount-calculator-app/internal/localstore"
	"github.com/caffeinepub/total-amount-calculator-app/internal/model"
	"github.com/caffeinepub/total-amount-calculator-app/internal/worker"
)

// ── Stub dispatcher ──────────────────────────────────────────────────────────

type stubEnqueuer struct {
	dailyTotals []worker.DailyTotalSyncPayload
}

func (s *stubEnqueuer) EnqueueDailyTotalSync(_ context.Context, payload worker.DailyTotalSyncPayload) {
	s.dailyTotals = append(s.dailyTotals, payload)
}

type billingFixture struct {
	kv       *localstore.MemKV
	archive  *localstore.BillArchive
	ledger   *localstore.LedgerStore
	summary  *localstore.SummaryStore
	defaults *localstore.DefaultsStore
	enqueuer *stubEnqueuer
	svc      BillingService
}

func newBillingFixture() *billingFixture {
	kv := localstore.NewMemKV()
	archive := localstore.NewBillArchive(kv)
	ledger := localstore.NewLedgerStore(kv)
	summary := localstore.NewSummaryStore(kv, ledger)
	defaults := localstore.NewDefaultsStore(kv)
	enqueuer := &stubEnqueuer{}
	return &billingFixture{
		kv:       kv,
		archive:  archive,
		ledger:   ledger,
		summary:  summary,
		defaults: defaults,
		enqueuer: enqueuer,
		svc:      NewBillingService(archive, ledger, summary, defaults, enqueuer),
	}
}

func printRequest() dto.PrintBillRequest {
	return dto.PrintBillRequest{
		LineItems: []dto.LineItemRequest{
			{Label: "Tea", Quantity: dec("2"), UnitPrice: dec("15")},
			{Label: "Coffee", Quantity: dec("1"), UnitPrice: dec("25")},
		},
		TaxRate:       dec("5"),
		DiscountType:  model.DiscountFixed,
		DiscountValue: dec("5"),
	}
}

func TestPrintBillArchivesAndLedgers(t *testing.T) {
	f := newBillingFixture()
	ctx := context.Background()

	bill, err := f.svc.PrintBill(ctx, "downtown", printRequest())
	require.NoError(t, err)
	require.NotNil(t, bill)
	assert.NotEmpty(t, bill.ID)
	assert.NotEmpty(t, bill.BillCode)

	// subtotal 55, tax 2.75, discount 5 → final 52.75
	assert.True(t, bill.Breakdown.FinalTotal.Equal(dec("52.75")), "got %s", bill.Breakdown.FinalTotal)

	// Archived.
	saved, err := f.archive.GetByID("downtown", bill.ID)
	require.NoError(t, err)
	require.NotNil(t, saved)

	// Ledgered under today's key.
	dayKey := model.DayKeyFromMillis(bill.Timestamp)
	entries, err := f.ledger.EntriesForDay("downtown", dayKey)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, bill.ID, entries[0].BillID)
	assert.True(t, entries[0].FinalTotal.Equal(dec("52.75")))

	// Summary warmed without a ledger rescan.
	summary, err := f.summary.GetOrCompute("downtown", dayKey)
	require.NoError(t, err)
	assert.True(t, summary.TotalRevenue.Equal(dec("52.75")))
}

func TestPrintBillSnapshotsCurrentDefaults(t *testing.T) {
	f := newBillingFixture()
	ctx := context.Background()
	require.NoError(t, f.defaults.Save("downtown", model.BillFormatDefaults{
		ReceiptStyle:         model.ReceiptStyleCompact,
		PrintLocationAddress: "12 Market Street",
	}))

	bill, err := f.svc.PrintBill(ctx, "downtown", printRequest())
	require.NoError(t, err)
	assert.Equal(t, model.ReceiptStyleCompact, bill.BillFormatSnapshot.ReceiptStyle)
	assert.Equal(t, "12 Market Street", bill.BillFormatSnapshot.PrintLocationAddress)

	// Changing the defaults afterwards must not touch the archived snapshot.
	require.NoError(t, f.defaults.Save("downtown", model.BillFormatDefaults{ReceiptStyle: model.ReceiptStyleClassic}))
	saved, err := f.svc.GetBill(ctx, "downtown", bill.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReceiptStyleCompact, saved.BillFormatSnapshot.ReceiptStyle)
}

func TestPrintBillEnqueuesDaySyncAggregate(t *testing.T) {
	f := newBillingFixture()
	ctx := context.Background()

	req := dto.PrintBillRequest{
		LineItems: []dto.LineItemRequest{
			{Label: "Tea", Quantity: dec("2"), UnitPrice: dec("15")},
			{Label: " Tea ", Quantity: dec("1"), UnitPrice: dec("15")},
			{Label: "   ", Quantity: dec("5"), UnitPrice: dec("1")},
			{Label: "Coffee", Quantity: dec("0"), UnitPrice: dec("10")},
		},
		TaxRate:      dec("0"),
		DiscountType: model.DiscountFixed,
	}
	_, err := f.svc.PrintBill(ctx, "downtown", req)
	require.NoError(t, err)

	require.Len(t, f.enqueuer.dailyTotals, 1)
	payload := f.enqueuer.dailyTotals[0]
	assert.Equal(t, "downtown", payload.Branch)
	// subtotal 30+15+5+0 = 50 → 5000 minor units
	assert.Equal(t, int64(5000), payload.TotalRevenue)
	// Labels trimmed and merged, blank labels and zero quantities dropped.
	require.Len(t, payload.ProductQuantities, 1)
	assert.Equal(t, "Tea", payload.ProductQuantities[0].Label)
	assert.Equal(t, int64(3), payload.ProductQuantities[0].Quantity)
}

func TestPrintBillsAccumulateDayTotal(t *testing.T) {
	f := newBillingFixture()
	ctx := context.Background()

	simple := func(price string) dto.PrintBillRequest {
		return dto.PrintBillRequest{
			LineItems:    []dto.LineItemRequest{{Label: "Thali", Quantity: dec("1"), UnitPrice: dec(price)}},
			DiscountType: model.DiscountFixed,
		}
	}

	first, err := f.svc.PrintBill(ctx, "downtown", simple("150"))
	require.NoError(t, err)
	_, err = f.svc.PrintBill(ctx, "downtown", simple("50"))
	require.NoError(t, err)

	dayKey := model.DayKeyFromMillis(first.Timestamp)
	summary, err := f.summary.GetOrCompute("downtown", dayKey)
	require.NoError(t, err)
	assert.True(t, summary.TotalRevenue.Equal(dec("200")), "got %s", summary.TotalRevenue)

	// Each print syncs the running day total, so the last payload carries 200.00.
	require.Len(t, f.enqueuer.dailyTotals, 2)
	assert.Equal(t, int64(20000), f.enqueuer.dailyTotals[1].TotalRevenue)
}

func TestPrintBillAbortsWhenArchiveWriteFails(t *testing.T) {
	f := newBillingFixture()
	f.kv.FailWrites = errors.New("disk full")

	_, err := f.svc.PrintBill(context.Background(), "downtown", printRequest())
	require.Error(t, err)
	assert.Empty(t, f.enqueuer.dailyTotals, "no sync for a bill that was never saved")
}

func TestPrintBillNoActiveBranch(t *testing.T) {
	f := newBillingFixture()
	_, err := f.svc.PrintBill(context.Background(), "", printRequest())
	assert.ErrorIs(t, err, localstore.ErrNoActiveBranch)
}

func TestClearLedgerClearsSummaryToo(t *testing.T) {
	f := newBillingFixture()
	ctx := context.Background()

	bill, err := f.svc.PrintBill(ctx, "downtown", printRequest())
	require.NoError(t, err)
	dayKey := model.DayKeyFromMillis(bill.Timestamp)

	require.NoError(t, f.svc.ClearLedger(ctx, "downtown"))

	days, err := f.ledger.AvailableDays("downtown")
	require.NoError(t, err)
	assert.Empty(t, days)
	summary, err := f.summary.GetOrCompute("downtown", dayKey)
	require.NoError(t, err)
	assert.True(t, summary.TotalRevenue.IsZero(), "summary cleared alongside ledger")

	// Bills survive a ledger clear.
	bills, err := f.svc.ListBills(ctx, "downtown")
	require.NoError(t, err)
	assert.Len(t, bills, 1)
}

func TestClearBillsLeavesLedgerAlone(t *testing.T) {
	f := newBillingFixture()
	ctx := context.Background()

	_, err := f.svc.PrintBill(ctx, "downtown", printRequest())
	require.NoError(t, err)

	require.NoError(t, f.svc.ClearBills(ctx, "downtown"))

	bills, err := f.svc.ListBills(ctx, "downtown")
	require.NoError(t, err)
	assert.Empty(t, bills)
	days, err := f.ledger.AvailableDays("downtown")
	require.NoError(t, err)
	assert.Len(t, days, 1)
}
