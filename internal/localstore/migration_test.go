package localstore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	legacyBillsPayload  = `[{"id":"legacy-1"}]`
	legacyLedgerPayload = `{"days":{}}`
)

func seedLegacy(kv *MemKV) {
	_ = kv.Set("varshini_saved_bills", legacyBillsPayload)
	_ = kv.Set("varshini_daily_totals_ledger", legacyLedgerPayload)
}

func marker(t *testing.T, kv *MemKV, branch string) (string, bool) {
	t.Helper()
	key, err := migrationMarkerKey(branch)
	require.NoError(t, err)
	return kv.Get(key)
}

func TestMigrateCopiesLegacyDataVerbatim(t *testing.T) {
	kv := NewMemKV()
	seedLegacy(kv)
	gate := NewMigrationGate(kv)

	require.NoError(t, gate.Migrate("downtown"))

	got, ok := kv.Get("branch_downtown_saved_bills")
	require.True(t, ok)
	assert.Equal(t, legacyBillsPayload, got, "payloads are copied byte for byte")

	got, ok = kv.Get("branch_downtown_daily_totals_ledger")
	assert.False(t, ok, "legacy ledger maps to the daily_ledger base, not its legacy name")
	got, ok = kv.Get("branch_downtown_daily_ledger")
	require.True(t, ok)
	assert.Equal(t, legacyLedgerPayload, got)

	v, ok := marker(t, kv, "downtown")
	require.True(t, ok)
	assert.Equal(t, "true", v)

	// Legacy keys survive — they are never deleted.
	_, ok = kv.Get("varshini_saved_bills")
	assert.True(t, ok)
}

func TestMigrateIsIdempotent(t *testing.T) {
	kv := NewMemKV()
	seedLegacy(kv)
	gate := NewMigrationGate(kv)

	require.NoError(t, gate.Migrate("downtown"))

	// Branch writes after migration must survive a second call.
	require.NoError(t, kv.Set("branch_downtown_saved_bills", `[{"id":"new"}]`))
	require.NoError(t, gate.Migrate("downtown"))

	got, _ := kv.Get("branch_downtown_saved_bills")
	assert.Equal(t, `[{"id":"new"}]`, got)
}

func TestMigrateNeverClobbersExistingBranchData(t *testing.T) {
	kv := NewMemKV()
	seedLegacy(kv)
	// Branch data exists but no marker — e.g. concurrent use before migration.
	require.NoError(t, kv.Set("branch_downtown_daily_ledger", `{"days":{"2026-08-28":{}}}`))
	gate := NewMigrationGate(kv)

	require.NoError(t, gate.Migrate("downtown"))

	got, _ := kv.Get("branch_downtown_daily_ledger")
	assert.Equal(t, `{"days":{"2026-08-28":{}}}`, got, "existing branch data is authoritative")
	_, ok := kv.Get("branch_downtown_saved_bills")
	assert.False(t, ok, "nothing is copied when branch data already exists")

	v, ok := marker(t, kv, "downtown")
	require.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestMigrateNoLegacyDataJustSetsMarker(t *testing.T) {
	kv := NewMemKV()
	gate := NewMigrationGate(kv)

	require.NoError(t, gate.Migrate("fresh"))

	v, ok := marker(t, kv, "fresh")
	require.True(t, ok)
	assert.Equal(t, "true", v)
	_, ok = kv.Get("branch_fresh_saved_bills")
	assert.False(t, ok)
}

func TestMigrateFailureLeavesMarkerUnsetForRetry(t *testing.T) {
	kv := NewMemKV()
	seedLegacy(kv)
	gate := NewMigrationGate(kv)

	kv.FailWrites = errors.New("disk full")
	require.Error(t, gate.Migrate("downtown"))

	_, ok := marker(t, kv, "downtown")
	assert.False(t, ok, "failed migration must be retried on the next login")

	// Next login with healthy storage completes the migration.
	kv.FailWrites = nil
	require.NoError(t, gate.Migrate("downtown"))
	v, ok := marker(t, kv, "downtown")
	require.True(t, ok)
	assert.Equal(t, "true", v)
	got, _ := kv.Get("branch_downtown_saved_bills")
	assert.Equal(t, legacyBillsPayload, got)
}

func TestMigrateEmptyBranch(t *testing.T) {
	gate := NewMigrationGate(NewMemKV())
	assert.ErrorIs(t, gate.Migrate(""), ErrNoActiveBranch)
}
