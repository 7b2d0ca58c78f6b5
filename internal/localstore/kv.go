// Package localstore implements the branch-scoped offline-first store: a
// small string-keyed KV layer holding whole JSON payloads (last writer wins
// at object granularity), the key namespacing scheme, the one-time legacy
// migration, and the ledger/summary/archive accessors built on top.
package localstore

import "sync"

// KV is the persistence primitive every store in this package is built on.
// Values are raw JSON payloads written whole — there are no partial updates,
// so two concurrent read-modify-write cycles resolve to whichever Set lands
// last. That race is inherent to the storage model and is not guarded here;
// observers are expected to re-read via Subscribe notifications.
type KV interface {
	// Get returns the stored payload and whether the key exists.
	Get(key string) (string, bool)
	// Set stores the payload, replacing any previous value.
	Set(key, value string) error
	// Delete removes the key. Removing an absent key is a no-op.
	Delete(key string) error
	// Subscribe registers fn to be called with the key of every observed
	// mutation, including mutations made by other processes sharing the
	// same backing store. The returned func cancels the subscription.
	Subscribe(fn func(key string)) (cancel func())
}

// notifier fans mutation events out to subscribers. Embedded by the KV
// implementations.
type notifier struct {
	mu   sync.Mutex
	subs map[int]func(key string)
	next int
}

func (n *notifier) Subscribe(fn func(key string)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs == nil {
		n.subs = make(map[int]func(key string))
	}
	id := n.next
	n.next++
	n.subs[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

func (n *notifier) notify(key string) {
	n.mu.Lock()
	fns := make([]func(string), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()
	for _, fn := range fns {
		fn(key)
	}
}
