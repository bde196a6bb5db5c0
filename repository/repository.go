package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/netrepo/call"
	"github.com/jonwraymond/netrepo/collapse"
	"github.com/jonwraymond/netrepo/observe"
)

// Callback receives the outcome of a query.
type Callback[T any] interface {
	OnSuccess(data T)
	OnError(err error)
}

// CallbackFuncs adapts a pair of functions to Callback. Nil functions are
// skipped.
type CallbackFuncs[T any] struct {
	Success func(data T)
	Error   func(err error)
}

// OnSuccess calls f.Success if set.
func (f CallbackFuncs[T]) OnSuccess(data T) {
	if f.Success != nil {
		f.Success(data)
	}
}

// OnError calls f.Error if set.
func (f CallbackFuncs[T]) OnError(err error) {
	if f.Error != nil {
		f.Error(err)
	}
}

// Option configures a Repository.
type Option func(*options)

type options struct {
	defaultPolicy Policy
	resource      string
	inst          *observe.Instrumentation
}

// WithDefaultPolicy sets the policy used by DefaultQuery and FetchDefault.
// Default: PolicyFirst.
func WithDefaultPolicy(p Policy) Option {
	return func(o *options) {
		o.defaultPolicy = p
	}
}

// WithResource names the data the repository serves in telemetry.
func WithResource(name string) Option {
	return func(o *options) {
		o.resource = name
	}
}

// WithInstrumentation attaches tracing, metrics and logging.
func WithInstrumentation(inst *observe.Instrumentation) Option {
	return func(o *options) {
		o.inst = inst
	}
}

// Repository serves data of type T from a cache of type C, falling back to
// the network through a collapsing enqueuer.
//
// Contract:
//   - Concurrency: safe for concurrent use; the cache itself is externally
//     synchronized.
//   - Delivery: every Run ends in exactly one handler invocation.
//   - Cache mutation happens only through Strategy.Write after a successful
//     fetch and Invalidator.Invalidate on a stale PolicyTimeResolve read.
type Repository[T, C any] struct {
	cache    C
	enqueuer collapse.Enqueuer[T]
	opts     options
}

// New creates a Repository over cache. A nil enqueuer dispatches calls
// directly without collapsing.
func New[T, C any](cache C, enqueuer collapse.Enqueuer[T], opts ...Option) *Repository[T, C] {
	o := options{defaultPolicy: DefaultPolicy}
	for _, opt := range opts {
		opt(&o)
	}
	o.inst = o.inst.OrNoop()
	if enqueuer == nil {
		enqueuer = collapse.Direct[T]()
	}

	return &Repository[T, C]{cache: cache, enqueuer: enqueuer, opts: o}
}

// Cache returns the repository's cache.
func (r *Repository[T, C]) Cache() C {
	return r.cache
}

// DefaultPolicy returns the policy used when none is given.
func (r *Repository[T, C]) DefaultPolicy() Policy {
	return r.opts.defaultPolicy
}

// Query returns a deferred query for policy. Nothing happens until Run.
func (r *Repository[T, C]) Query(policy Policy, cl call.Call[T], strategy Strategy[T, C]) *Query[T] {
	return newQuery(func(ctx context.Context, q *Query[T]) {
		r.run(ctx, policy, cl, strategy, q)
	})
}

// DefaultQuery is Query with the repository's default policy.
func (r *Repository[T, C]) DefaultQuery(cl call.Call[T], strategy Strategy[T, C]) *Query[T] {
	return r.Query(r.opts.defaultPolicy, cl, strategy)
}

// Fetch runs a query for policy immediately, delivering its outcome to cb.
func (r *Repository[T, C]) Fetch(ctx context.Context, policy Policy, cl call.Call[T], strategy Strategy[T, C], cb Callback[T]) {
	r.Query(policy, cl, strategy).
		OnSuccess(cb.OnSuccess).
		OnError(cb.OnError).
		Run(ctx)
}

// FetchDefault is Fetch with the repository's default policy.
func (r *Repository[T, C]) FetchDefault(ctx context.Context, cl call.Call[T], strategy Strategy[T, C], cb Callback[T]) {
	r.Fetch(ctx, r.opts.defaultPolicy, cl, strategy, cb)
}

// Get runs a query for policy and waits for its outcome or for ctx to end.
// An outcome arriving after ctx ended is still written to the cache but is
// otherwise dropped.
func (r *Repository[T, C]) Get(ctx context.Context, policy Policy, cl call.Call[T], strategy Strategy[T, C]) (T, error) {
	type result struct {
		data T
		err  error
	}
	done := make(chan result, 1)

	r.Fetch(ctx, policy, cl, strategy, CallbackFuncs[T]{
		Success: func(data T) { done <- result{data: data} },
		Error:   func(err error) { done <- result{err: err} },
	})

	// An outcome delivered synchronously wins over a context that is
	// already done.
	select {
	case res := <-done:
		return res.data, res.err
	default:
	}

	select {
	case res := <-done:
		return res.data, res.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// run is the access decision shared by every query shape.
func (r *Repository[T, C]) run(ctx context.Context, policy Policy, cl call.Call[T], strategy Strategy[T, C], q *Query[T]) {
	meta := observe.Meta{
		Component: "repository",
		Resource:  r.opts.resource,
		Method:    cl.Method(),
		URL:       cl.URL(),
		Policy:    policy.String(),
	}
	t := r.startTrace(ctx, meta)

	if !policy.Valid() {
		err := fmt.Errorf("%w: %d", ErrUnknownPolicy, int(policy))
		t.finish(observe.OutcomeMiss, err)
		q.fail(err)
		return
	}

	if policy.readsCache() {
		if data, ok := strategy.Read(t.ctx, r.cache); ok {
			t.finish(observe.OutcomeCache, nil)
			q.succeed(data)
			return
		}

		switch policy {
		case PolicyOnly:
			err := fmt.Errorf("%w: %s", ErrCacheMiss, cl.URL())
			t.finish(observe.OutcomeMiss, err)
			q.fail(err)
			return
		case PolicyTimeResolve:
			invalidateStale(t.ctx, strategy, r.cache)
		}
	}

	r.fetch(t, cl, strategy, q)
}

// invalidateStale drops the cached data of a strategy that reports it stale.
func invalidateStale[T, C any](ctx context.Context, strategy Strategy[T, C], cache C) {
	staler, ok := strategy.(Staler)
	if !ok || !staler.Stale() {
		return
	}
	if inv, ok := strategy.(Invalidator[C]); ok {
		inv.Invalidate(ctx, cache)
	}
}

func (r *Repository[T, C]) fetch(t *trace, cl call.Call[T], strategy Strategy[T, C], q *Query[T]) {
	if cl.IsExecuted() || cl.IsCanceled() {
		err := fmt.Errorf("%w: %s %s (executed=%t canceled=%t)",
			ErrCallNotReady, cl.Method(), cl.URL(), cl.IsExecuted(), cl.IsCanceled())
		t.finish(observe.OutcomeNetwork, err)
		panic(err)
	}

	// The write outlives the caller's context.
	writeCtx := context.WithoutCancel(t.ctx)
	url := cl.URL()

	r.enqueuer.Enqueue(t.ctx, cl, call.NetworkCallback[T]{
		Successful: func(data T) {
			strategy.Write(writeCtx, data, r.cache)
			t.finish(observe.OutcomeNetwork, nil)
			q.succeed(data)
		},
		Failed: func(body []byte, code int) {
			err := &NetworkResourceError{URL: url, StatusCode: code, Body: body}
			t.finish(observe.OutcomeNetwork, err)
			q.fail(err)
		},
		CallFailure: func(err error) {
			t.finish(observe.OutcomeNetwork, err)
			q.fail(err)
		},
	})
}

// trace carries the telemetry of one Run across the network boundary.
type trace struct {
	ctx   context.Context
	inst  *observe.Instrumentation
	meta  observe.Meta
	start time.Time
	end   func(err error)
}

func (r *Repository[T, C]) startTrace(ctx context.Context, meta observe.Meta) *trace {
	inst := r.opts.inst
	spanCtx, span := inst.Tracer.StartSpan(ctx, meta)
	return &trace{
		ctx:   spanCtx,
		inst:  inst,
		meta:  meta,
		start: time.Now(),
		end:   func(err error) { inst.Tracer.EndSpan(span, err) },
	}
}

func (t *trace) finish(outcome observe.Outcome, err error) {
	elapsed := time.Since(t.start)
	t.end(err)
	t.inst.Metrics.RecordQuery(t.ctx, t.meta, outcome, elapsed, err)

	fields := append(t.meta.Fields(),
		observe.F("outcome", string(outcome)),
		observe.F("duration_ms", elapsed.Milliseconds()),
	)
	if err != nil {
		t.inst.Logger.Warn(t.ctx, "query failed", append(fields, observe.F("error", err))...)
		return
	}
	t.inst.Logger.Debug(t.ctx, "query resolved", fields...)
}
