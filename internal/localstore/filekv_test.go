package localstore

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileKVRoundtrip(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)
	defer kv.Close()

	_, ok := kv.Get("branch_downtown_saved_bills")
	assert.False(t, ok)

	require.NoError(t, kv.Set("branch_downtown_saved_bills", `[{"id":"b1"}]`))
	got, ok := kv.Get("branch_downtown_saved_bills")
	require.True(t, ok)
	assert.Equal(t, `[{"id":"b1"}]`, got)

	require.NoError(t, kv.Set("branch_downtown_saved_bills", `[]`))
	got, _ = kv.Get("branch_downtown_saved_bills")
	assert.Equal(t, `[]`, got, "last writer wins")
}

func TestFileKVDelete(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)
	defer kv.Close()

	require.NoError(t, kv.Set("k", "v"))
	require.NoError(t, kv.Delete("k"))
	_, ok := kv.Get("k")
	assert.False(t, ok)

	// Deleting an absent key is a no-op.
	assert.NoError(t, kv.Delete("k"))
}

func TestFileKVEscapesAwkwardKeys(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)
	defer kv.Close()

	// Branch identifiers are arbitrary strings; the file mapping must hold.
	key := "branch_café & sons/main_daily_ledger"
	require.NoError(t, kv.Set(key, "payload"))
	got, ok := kv.Get(key)
	require.True(t, ok)
	assert.Equal(t, "payload", got)
}

func TestFileKVNotifiesOnExternalWrite(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	require.NoError(t, err)
	defer kv.Close()

	var mu sync.Mutex
	seen := make(map[string]int)
	cancel := kv.Subscribe(func(key string) {
		mu.Lock()
		seen[key]++
		mu.Unlock()
	})
	defer cancel()

	// A second handle on the same directory plays the part of another process.
	other, err := NewFileKV(dir)
	require.NoError(t, err)
	defer other.Close()
	require.NoError(t, other.Set("branch_downtown_daily_ledger", `{"days":{}}`))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return seen["branch_downtown_daily_ledger"] > 0
	}, 2*time.Second, 10*time.Millisecond, "watcher should surface the external write")
}
