package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[entryKey]*entry
	policy  Policy
	now     func() time.Time
}

type entryKey struct {
	kind string
	key  string
}

type entry struct {
	value     any
	expiresAt time.Time // zero = never
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// NewMemoryStore creates an in-memory store with the given policy.
func NewMemoryStore(policy Policy) *MemoryStore {
	return &MemoryStore{
		entries: make(map[entryKey]*entry),
		policy:  policy,
		now:     time.Now,
	}
}

// Save stores value with the policy's default TTL.
func (s *MemoryStore) Save(ctx context.Context, kind, key string, value any) error {
	return s.SaveTTL(ctx, kind, key, value, 0)
}

// SaveTTL stores value with ttl, clamped by the policy. A ttl of zero uses
// the policy default.
func (s *MemoryStore) SaveTTL(_ context.Context, kind, key string, value any, ttl time.Duration) error {
	if kind == "" {
		return ErrInvalidKind
	}
	if err := ValidateKey(key); err != nil {
		return fmt.Errorf("%w: %q", err, key)
	}

	e := &entry{value: value}
	if ttl = s.policy.EffectiveTTL(ttl); ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[entryKey{kind: kind, key: key}] = e
	s.mu.Unlock()

	return nil
}

// Read returns the value under (kind, key). Returns (nil, false) on miss or
// expiry.
func (s *MemoryStore) Read(_ context.Context, kind, key string) (any, bool) {
	k := entryKey{kind: kind, key: key}

	s.mu.RLock()
	e, ok := s.entries[k]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if e.expired(s.now()) {
		// Expired - clean up lazily
		s.mu.Lock()
		if s.entries[k] == e {
			delete(s.entries, k)
		}
		s.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

// Update replaces the value under (kind, key) with fn(current), keeping the
// entry's expiry. Returns (nil, false) on miss or expiry.
func (s *MemoryStore) Update(_ context.Context, kind, key string, fn func(current any) any) (any, bool) {
	k := entryKey{kind: kind, key: key}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[k]
	if !ok {
		return nil, false
	}
	if e.expired(s.now()) {
		delete(s.entries, k)
		return nil, false
	}

	updated := fn(e.value)
	s.entries[k] = &entry{value: updated, expiresAt: e.expiresAt}
	return updated, true
}

// Clear removes the value under (kind, key). Idempotent - no error on miss.
func (s *MemoryStore) Clear(_ context.Context, kind, key string) error {
	s.mu.Lock()
	delete(s.entries, entryKey{kind: kind, key: key})
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, including expired entries that
// have not been collected yet.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)
