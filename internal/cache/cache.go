// Package cache provides a bounded in-memory store with sliding expiry.
package cache

import (
	"sync"
	"time"
)

// entry wraps a value with expiry and insertion order tracking.
type entry[V any] struct {
	value     V
	expiry    time.Time
	insertIdx int64
}

// Store keeps values for ttl after their last access.
// When full, the oldest inserted entry is evicted.
// Thread-safe with sync.RWMutex.
type Store[V any] struct {
	mu         sync.RWMutex
	items      map[string]entry[V]
	ttl        time.Duration
	maxEntries int
	nextIdx    int64
	now        func() time.Time
}

// New creates a Store with the given TTL and max entry count.
func New[V any](ttl time.Duration, maxEntries int) *Store[V] {
	return &Store[V]{
		items:      make(map[string]entry[V]),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the value for key if present and not expired. A hit extends the expiry.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero V
	e, ok := s.items[key]
	if !ok {
		return zero, false
	}
	now := s.now()
	if now.After(e.expiry) {
		delete(s.items, key)
		return zero, false
	}
	e.expiry = now.Add(s.ttl)
	s.items[key] = e
	return e.value, true
}

// GetOrCreate returns the live value for key, storing create() when there is none.
// created reports whether create ran.
func (s *Store[V]) GetOrCreate(key string, create func() V) (v V, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.items[key]; ok && !now.After(e.expiry) {
		e.expiry = now.Add(s.ttl)
		s.items[key] = e
		return e.value, false
	}

	v = create()
	s.setLocked(key, v, now)
	return v, true
}

// Set stores a value. Evicts the oldest entry if at capacity.
func (s *Store[V]) Set(key string, v V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(key, v, s.now())
}

func (s *Store[V]) setLocked(key string, v V, now time.Time) {
	e := entry[V]{
		value:     v,
		expiry:    now.Add(s.ttl),
		insertIdx: s.nextIdx,
	}
	s.nextIdx++

	// If key already exists, update in place (no capacity change)
	if _, exists := s.items[key]; exists {
		s.items[key] = e
		return
	}

	if len(s.items) >= s.maxEntries {
		s.evictOldest()
	}
	s.items[key] = e
}

// Delete removes key.
func (s *Store[V]) Delete(key string) {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}

// Sweep removes expired entries and returns how many were removed.
func (s *Store[V]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, e := range s.items {
		if now.After(e.expiry) {
			delete(s.items, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired ones included until swept.
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// evictOldest removes the entry with the lowest insertIdx. Must be called with mu held.
func (s *Store[V]) evictOldest() {
	var oldestKey string
	var oldestIdx int64 = -1

	for key, e := range s.items {
		if oldestIdx == -1 || e.insertIdx < oldestIdx {
			oldestIdx = e.insertIdx
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(s.items, oldestKey)
	}
}
