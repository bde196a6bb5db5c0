package repository

import (
	"context"

	"github.com/jonwraymond/netrepo/cache"
)

// Strategy moves data of type T in and out of a cache of type C.
//
// Contract:
//   - Read must not mutate the cache. It reports false on a miss.
//   - Write persists data fetched from the network.
//   - Concurrency: called from the query goroutine (Read) and the network
//     completion goroutine (Write); the cache is externally synchronized.
type Strategy[T, C any] interface {
	Read(ctx context.Context, cache C) (T, bool)
	Write(ctx context.Context, data T, cache C)
}

// Invalidator is implemented by strategies that can drop stale data.
type Invalidator[C any] interface {
	Invalidate(ctx context.Context, cache C)
}

// Staler is implemented by strategies that know when their data has aged
// out. PolicyTimeResolve invalidates only strategies that implement both
// Staler and Invalidator and report Stale; a plain miss leaves the cache
// alone.
type Staler interface {
	Stale() bool
}

// StrategyFuncs adapts closures to Strategy and Invalidator. ReadFunc is
// required; nil WriteFunc and InvalidateFunc are no-ops.
type StrategyFuncs[T, C any] struct {
	ReadFunc       func(ctx context.Context, cache C) (T, bool)
	WriteFunc      func(ctx context.Context, data T, cache C)
	InvalidateFunc func(ctx context.Context, cache C)
}

// Read calls f.ReadFunc.
func (f StrategyFuncs[T, C]) Read(ctx context.Context, c C) (T, bool) {
	return f.ReadFunc(ctx, c)
}

// Write calls f.WriteFunc if set.
func (f StrategyFuncs[T, C]) Write(ctx context.Context, data T, c C) {
	if f.WriteFunc != nil {
		f.WriteFunc(ctx, data, c)
	}
}

// Invalidate calls f.InvalidateFunc if set.
func (f StrategyFuncs[T, C]) Invalidate(ctx context.Context, c C) {
	if f.InvalidateFunc != nil {
		f.InvalidateFunc(ctx, c)
	}
}

// StoreStrategy reads and writes one entry of a cache.Store.
type StoreStrategy[T any] struct {
	Kind cache.Kind[T]
	Key  string

	// OnWriteError observes failed writes. Optional.
	OnWriteError func(err error)
}

// EntryStrategy returns a strategy over the entry (kind, key).
func EntryStrategy[T any](kind cache.Kind[T], key string) *StoreStrategy[T] {
	return &StoreStrategy[T]{Kind: kind, Key: key}
}

// KeyedStrategy returns a strategy over the entry whose key keyer derives
// from resource and params. A nil keyer uses cache.DefaultKeyer.
func KeyedStrategy[T any](kind cache.Kind[T], keyer cache.Keyer, resource string, params any) (*StoreStrategy[T], error) {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	key, err := keyer.Key(resource, params)
	if err != nil {
		return nil, err
	}
	return EntryStrategy(kind, key), nil
}

// Read implements Strategy.
func (s *StoreStrategy[T]) Read(ctx context.Context, store cache.Store) (T, bool) {
	return cache.Read(ctx, store, s.Kind, s.Key)
}

// Write implements Strategy.
func (s *StoreStrategy[T]) Write(ctx context.Context, data T, store cache.Store) {
	if err := cache.SaveAs(ctx, store, s.Kind, s.Key, data); err != nil && s.OnWriteError != nil {
		s.OnWriteError(err)
	}
}

// Invalidate implements Invalidator.
func (s *StoreStrategy[T]) Invalidate(ctx context.Context, store cache.Store) {
	if err := cache.Clear(ctx, store, s.Kind, s.Key); err != nil && s.OnWriteError != nil {
		s.OnWriteError(err)
	}
}

var (
	_ Strategy[int, cache.Store] = (*StoreStrategy[int])(nil)
	_ Invalidator[cache.Store]   = (*StoreStrategy[int])(nil)
	_ Strategy[int, any]         = StrategyFuncs[int, any]{}
	_ Invalidator[any]           = StrategyFuncs[int, any]{}
)
