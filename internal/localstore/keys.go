package localstore

import "errors"

// ErrNoActiveBranch is returned when a scoped accessor is invoked without a
// resolvable branch. This is a caller bug, not a runtime condition to recover
// from, so it propagates instead of falling back.
var ErrNoActiveBranch = errors.New("localstore: no active branch")

// ActiveBranchKey holds the process-wide active branch pointer. Written only
// by the auth flow; read by hydration.
const ActiveBranchKey = "branchAuthUser"

// Base store names. Exactly four stores are branch-scoped.
const (
	BaseSavedBills   = "saved_bills"
	BaseDailyLedger  = "daily_ledger"
	BaseDailySummary = "daily_summary"
	BaseBillDefaults = "bill_defaults"
)

// Legacy global keys predating branch partitioning. Read once by the
// migration gate, never written.
var legacyKeys = map[string]string{
	BaseSavedBills:   "varshini_saved_bills",
	BaseDailyLedger:  "varshini_daily_totals_ledger",
	BaseDailySummary: "varshini_daily_summary",
	BaseBillDefaults: "varshini_bill_format_defaults",
}

var baseNames = []string{BaseSavedBills, BaseDailyLedger, BaseDailySummary, BaseBillDefaults}

// ScopedKey derives the storage key for (branch, base). Distinct pairs never
// collide and the same pair always maps to the same key.
func ScopedKey(branch, base string) (string, error) {
	if branch == "" {
		return "", ErrNoActiveBranch
	}
	return "branch_" + branch + "_" + base, nil
}

// migrationMarkerKey is the per-branch flag set once migration has run.
func migrationMarkerKey(branch string) (string, error) {
	return ScopedKey(branch, "migration_complete")
}

// IsDailyTotalsKey reports whether key is the given branch's ledger or
// summary key. The balance-sheet watcher uses this to filter mutation
// notifications down to the ones that affect its local view.
func IsDailyTotalsKey(key, branch string) bool {
	if branch == "" {
		return false
	}
	ledgerKey, _ := ScopedKey(branch, BaseDailyLedger)
	summaryKey, _ := ScopedKey(branch, BaseDailySummary)
	return key == ledgerKey || key == summaryKey
}
