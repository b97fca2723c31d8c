// Package cache provides a small in-process TTL store for upstream API
// responses (geocoding, weather). It replaces hidden package-level maps with
// an explicit value that is constructed in main and injected into each
// client, so tests can use their own instances and TTLs come from config.
package cache

import (
	"sync"
	"time"
)

// entry pairs a cached value with the moment it was stored.
type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Store is a concurrency-safe key→(value, timestamp) map with a fixed TTL.
// Expired entries are dropped lazily on read; there is no background sweeper,
// which is fine for the handful of keys a planner instance sees.
type Store[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry[V]

	// now is swapped out by tests to control expiry.
	now func() time.Time
}

// New returns an empty Store whose entries expire ttl after being set.
func New[V any](ttl time.Duration) *Store[V] {
	return &Store[V]{
		ttl:     ttl,
		entries: make(map[string]entry[V]),
		now:     time.Now,
	}
}

// Get returns the value stored under key and whether it is still fresh.
// An expired entry counts as a miss and is removed.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if s.now().Sub(e.storedAt) >= s.ttl {
		delete(s.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, resetting its TTL.
func (s *Store[V]) Set(key string, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry[V]{value: value, storedAt: s.now()}
}

// Delete removes key from the store, if present.
func (s *Store[V]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Len returns the number of entries currently held, including any that have
// expired but not yet been read.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
