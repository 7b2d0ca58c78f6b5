package localstore

import "sync"

// MemKV is an in-memory KV used by tests and single-shot tools.
// Mutations notify subscribers synchronously.
type MemKV struct {
	notifier
	mu   sync.RWMutex
	data map[string]string

	// FailWrites, when set, makes every Set return this error.
	// Used by tests to exercise write-failure paths.
	FailWrites error
}

func NewMemKV() *MemKV {
	return &MemKV{data: make(map[string]string)}
}

func (m *MemKV) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *MemKV) Set(key, value string) error {
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
	m.notify(key)
	return nil
}

func (m *MemKV) Delete(key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	m.notify(key)
	return nil
}

var _ KV = (*MemKV)(nil)
