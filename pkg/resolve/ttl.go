package resolve

import (
	"sync"
	"time"
)

// entry wraps a cached value with its expiry instant. An entry is valid iff
// now < expiresAt; an expired entry is indistinguishable from an absent one.
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// ttlStore is a concurrency-safe map whose entries expire a fixed duration
// after insertion. Expired entries are evicted lazily on lookup, so the store
// needs no background sweeper. All operations are local and non-blocking.
type ttlStore[K comparable, V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[K]entry[V]
}

func newTTLStore[K comparable, V any](ttl time.Duration, now func() time.Time) *ttlStore[K, V] {
	if now == nil {
		now = time.Now
	}
	return &ttlStore[K, V]{
		ttl:     ttl,
		now:     now,
		entries: make(map[K]entry[V]),
	}
}

// get returns the value for k if present and still valid. An expired entry is
// removed as a side effect and reported as absent.
func (s *ttlStore[K, V]) get(k K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[k]
	if !ok {
		var zero V
		return zero, false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, k)
		var zero V
		return zero, false
	}
	return e.value, true
}

// put inserts or overwrites the entry for k with a fresh expiry.
func (s *ttlStore[K, V]) put(k K, v V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[k] = entry[V]{
		value:     v,
		expiresAt: s.now().Add(s.ttl),
	}
}

// remove deletes exactly one entry.
func (s *ttlStore[K, V]) remove(k K) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, k)
}

// removeWhere deletes every entry matching pred and returns the removed
// values, which cascading invalidation uses to chain to dependent stores.
func (s *ttlStore[K, V]) removeWhere(pred func(K, V) bool) []V {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []V
	for k, e := range s.entries {
		if pred(k, e.value) {
			removed = append(removed, e.value)
			delete(s.entries, k)
		}
	}
	return removed
}

// clear empties the store.
func (s *ttlStore[K, V]) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[K]entry[V])
}
