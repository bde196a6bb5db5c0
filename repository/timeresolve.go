package repository

import (
	"context"
	"sync"
	"time"
)

// DefaultRefreshDelta is the freshness window of a TimeResolve strategy
// created with a non-positive delta.
const DefaultRefreshDelta = time.Hour

// TimeResolve decorates a Strategy with an elapsed-time gate.
//
// Reads are delegated to the inner strategy while less than the refresh
// delta has passed since the last write (or since construction). Once that
// window has elapsed reads report a miss until the next write, and
// Invalidate clears the inner strategy's data once per stale transition.
//
// A TimeResolve holds its own refresh timestamp; use one per cached
// resource, not one per query.
type TimeResolve[T, C any] struct {
	inner Strategy[T, C]
	delta time.Duration
	now   func() time.Time

	mu          sync.Mutex
	lastRefresh time.Time
	invalidated bool
}

// TimeResolveOption configures a TimeResolve.
type TimeResolveOption func(*timeResolveConfig)

type timeResolveConfig struct {
	now func() time.Time
}

// WithClock overrides the time source. Default: time.Now.
func WithClock(now func() time.Time) TimeResolveOption {
	return func(c *timeResolveConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// NewTimeResolve wraps inner with a freshness window of delta. A delta <= 0
// uses DefaultRefreshDelta.
func NewTimeResolve[T, C any](inner Strategy[T, C], delta time.Duration, opts ...TimeResolveOption) *TimeResolve[T, C] {
	cfg := timeResolveConfig{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	if delta <= 0 {
		delta = DefaultRefreshDelta
	}

	return &TimeResolve[T, C]{
		inner:       inner,
		delta:       delta,
		now:         cfg.now,
		lastRefresh: cfg.now(),
	}
}

// Delta returns the freshness window.
func (s *TimeResolve[T, C]) Delta() time.Duration {
	return s.delta
}

// LastRefresh returns when data was last written (or the construction time).
func (s *TimeResolve[T, C]) LastRefresh() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRefresh
}

// Stale reports whether the freshness window has elapsed.
func (s *TimeResolve[T, C]) Stale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.staleLocked()
}

func (s *TimeResolve[T, C]) staleLocked() bool {
	return s.now().Sub(s.lastRefresh) >= s.delta
}

// Read delegates to the inner strategy while fresh and reports a miss once
// stale. It never mutates the cache.
func (s *TimeResolve[T, C]) Read(ctx context.Context, c C) (T, bool) {
	if s.Stale() {
		var zero T
		return zero, false
	}
	return s.inner.Read(ctx, c)
}

// Write delegates to the inner strategy and restarts the freshness window.
func (s *TimeResolve[T, C]) Write(ctx context.Context, data T, c C) {
	s.inner.Write(ctx, data, c)

	s.mu.Lock()
	s.lastRefresh = s.now()
	s.invalidated = false
	s.mu.Unlock()
}

// Invalidate clears the inner strategy's data when stale, at most once
// until the next Write. It is a no-op while fresh or when the inner
// strategy cannot invalidate.
func (s *TimeResolve[T, C]) Invalidate(ctx context.Context, c C) {
	s.mu.Lock()
	if !s.staleLocked() || s.invalidated {
		s.mu.Unlock()
		return
	}
	s.invalidated = true
	s.mu.Unlock()

	if inv, ok := s.inner.(Invalidator[C]); ok {
		inv.Invalidate(ctx, c)
	}
}

var (
	_ Strategy[int, any] = (*TimeResolve[int, any])(nil)
	_ Invalidator[any]   = (*TimeResolve[int, any])(nil)
	_ Staler             = (*TimeResolve[int, any])(nil)
)
