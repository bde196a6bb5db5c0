package repository

import (
	"context"
	"sync"
)

// Query is a deferred repository query. Handlers are attached first, then
// Run executes the access decision.
//
// Each handler can be set at most once and only before the first Run;
// violations panic with ErrHandlerSet or ErrQueryStarted. Both handlers are
// optional. Run is not idempotent: every call re-executes the decision,
// which for network paths requires the query's call to still be unstarted.
type Query[T any] struct {
	exec func(ctx context.Context, q *Query[T])

	mu        sync.Mutex
	onSuccess func(T)
	onError   func(error)
	started   bool
}

func newQuery[T any](exec func(ctx context.Context, q *Query[T])) *Query[T] {
	return &Query[T]{exec: exec}
}

// OnSuccess sets the handler receiving the query's data.
func (q *Query[T]) OnSuccess(fn func(data T)) *Query[T] {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.checkConfigurable(q.onSuccess != nil)
	q.onSuccess = fn
	return q
}

// OnError sets the handler receiving the query's failure.
func (q *Query[T]) OnError(fn func(err error)) *Query[T] {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.checkConfigurable(q.onError != nil)
	q.onError = fn
	return q
}

func (q *Query[T]) checkConfigurable(alreadySet bool) {
	if q.started {
		panic(ErrQueryStarted)
	}
	if alreadySet {
		panic(ErrHandlerSet)
	}
}

// Run executes the query. Cache hits and misses are delivered before Run
// returns; network results are delivered later on the completion goroutine.
func (q *Query[T]) Run(ctx context.Context) {
	q.mu.Lock()
	q.started = true
	q.mu.Unlock()

	q.exec(ctx, q)
}

func (q *Query[T]) succeed(data T) {
	q.mu.Lock()
	fn := q.onSuccess
	q.mu.Unlock()

	if fn != nil {
		fn(data)
	}
}

func (q *Query[T]) fail(err error) {
	q.mu.Lock()
	fn := q.onError
	q.mu.Unlock()

	if fn != nil {
		fn(err)
	}
}
