package collapse

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/jonwraymond/netrepo/call"
	"github.com/jonwraymond/netrepo/observe"
)

// Collapser deduplicates concurrent read calls by URL.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Dispatch: at most one call per pending key is in flight at a time.
//   - Delivery: every queued callback is notified exactly once, in FIFO
//     order, on the goroutine that delivered the network completion.
//   - No retries, timeouts or cancellation are added.
type Collapser struct {
	readMethod string
	inst       *observe.Instrumentation

	mu      sync.Mutex
	pending map[pendingKey]*queue
}

// pendingKey folds the body type into the URL so a queue only ever holds
// callbacks of one type.
type pendingKey struct {
	url  string
	body reflect.Type
}

type queue struct {
	waiters []any // waiter[T] for the key's body type
}

type waiter[T any] struct {
	call call.Call[T]
	cb   call.Callback[T]
}

// New creates a Collapser.
func New(opts ...Option) *Collapser {
	c := &Collapser{
		readMethod: defaultReadMethod,
		pending:    make(map[pendingKey]*queue),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.inst = c.inst.OrNoop()
	return c
}

// ReadMethod returns the method whose calls are collapsed.
func (c *Collapser) ReadMethod() string {
	return c.readMethod
}

// IsRead reports whether method is the collapsed read method.
func (c *Collapser) IsRead(method string) bool {
	return strings.EqualFold(method, c.readMethod)
}

// Pending returns the number of collapsing cycles currently in flight.
func (c *Collapser) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Waiting returns how many callbacks are queued on in-flight reads of url.
func (c *Collapser) Waiting(url string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k, q := range c.pending {
		if k.url == url {
			n += len(q.waiters)
		}
	}
	return n
}

// Enqueue submits cl through c and notifies cb with its outcome.
//
// Non-read calls are dispatched immediately. Read calls join the queue for
// their URL; the first entry dispatches, later entries wait for its result.
// A call that is already executed or canceled panics in the leader's
// goroutine, after the queue has been released.
func Enqueue[T any](ctx context.Context, c *Collapser, cl call.Call[T], cb call.Callback[T]) {
	meta := observe.Meta{Component: "collapser", Method: cl.Method(), URL: cl.URL()}

	if !c.IsRead(cl.Method()) {
		c.inst.Logger.Debug(ctx, "dispatching non-read call", meta.Fields()...)
		cl.Enqueue(cb)
		c.inst.Metrics.RecordDispatch(ctx, meta, 1)
		return
	}

	key := pendingKey{url: cl.URL(), body: reflect.TypeFor[T]()}

	c.mu.Lock()
	q, ok := c.pending[key]
	if !ok {
		q = &queue{}
		c.pending[key] = q
	}
	q.waiters = append(q.waiters, waiter[T]{call: cl, cb: cb})
	position := len(q.waiters)
	c.mu.Unlock()

	if position > 1 {
		c.inst.Logger.Debug(ctx, "joined in-flight read",
			append(meta.Fields(), observe.F("position", position))...)
		return
	}

	c.inst.Logger.Debug(ctx, "dispatching read", meta.Fields()...)

	dispatched := false
	defer func() {
		if dispatched {
			return
		}
		r := recover()
		c.abort(ctx, key, q, r)
		if r != nil {
			panic(r)
		}
	}()

	cl.Enqueue(&fanout[T]{ctx: ctx, c: c, key: key, queue: q, meta: meta})
	dispatched = true
}

// detach removes q from the pending map and returns its waiters. It is a
// no-op returning nil when q has already been replaced or removed.
func (c *Collapser) detach(key pendingKey, q *queue) []any {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending[key] != q {
		return nil
	}
	delete(c.pending, key)
	waiters := q.waiters
	q.waiters = nil
	return waiters
}

// abort releases the queue of a leader whose dispatch panicked. Followers
// that joined in the meantime are failed with ErrLeaderAborted.
func (c *Collapser) abort(ctx context.Context, key pendingKey, q *queue, cause any) {
	waiters := c.detach(key, q)
	c.inst.Logger.Error(ctx, "read dispatch aborted",
		observe.F("url", key.url), observe.F("cause", fmt.Sprint(cause)))

	if len(waiters) <= 1 {
		return
	}
	err := fmt.Errorf("%w: %v", ErrLeaderAborted, cause)
	for _, w := range waiters[1:] {
		w.(interface{ fail(error) }).fail(err)
	}
}

func (w waiter[T]) fail(err error) {
	w.cb.OnFailure(w.call, err)
}

// fanout is the leader's completion handler. It detaches the queue first so
// that callers arriving during notification start a fresh cycle.
type fanout[T any] struct {
	ctx   context.Context
	c     *Collapser
	key   pendingKey
	queue *queue
	meta  observe.Meta
}

func (f *fanout[T]) OnResponse(_ call.Call[T], resp *call.Response[T]) {
	waiters := f.c.detach(f.key, f.queue)
	f.record(len(waiters), fmt.Sprintf("status %d", resp.StatusCode))

	for _, w := range waiters {
		w := w.(waiter[T])
		w.cb.OnResponse(w.call, resp)
	}
}

func (f *fanout[T]) OnFailure(_ call.Call[T], err error) {
	waiters := f.c.detach(f.key, f.queue)
	f.record(len(waiters), err.Error())

	for _, w := range waiters {
		w := w.(waiter[T])
		w.cb.OnFailure(w.call, err)
	}
}

func (f *fanout[T]) record(waiters int, outcome string) {
	f.c.inst.Metrics.RecordDispatch(f.ctx, f.meta, waiters)
	f.c.inst.Logger.Debug(f.ctx, "read resolved",
		append(f.meta.Fields(), observe.F("waiters", waiters), observe.F("outcome", outcome))...)
}

// Enqueuer submits calls of one body type. It is the dependency the
// repository package takes.
type Enqueuer[T any] interface {
	Enqueue(ctx context.Context, cl call.Call[T], cb call.Callback[T])
}

// For returns c as an Enqueuer of T.
func For[T any](c *Collapser) Enqueuer[T] {
	return typed[T]{c: c}
}

type typed[T any] struct {
	c *Collapser
}

func (t typed[T]) Enqueue(ctx context.Context, cl call.Call[T], cb call.Callback[T]) {
	Enqueue(ctx, t.c, cl, cb)
}

// Direct returns an Enqueuer that dispatches every call without collapsing.
func Direct[T any]() Enqueuer[T] {
	return direct[T]{}
}

type direct[T any] struct{}

func (direct[T]) Enqueue(_ context.Context, cl call.Call[T], cb call.Callback[T]) {
	cl.Enqueue(cb)
}

var (
	_ call.Callback[any] = (*fanout[any])(nil)
	_ Enqueuer[any]      = typed[any]{}
	_ Enqueuer[any]      = direct[any]{}
)
