// Package calltest provides scripted fake calls for exercising code that
// consumes call.Call without a network.
//
// An [Endpoint] owns the script and counts dispatches; every [Call] it hands
// out (including clones) shares that state, so tests can assert how many
// times the "network" was actually hit.
package calltest

import (
	"sync"
	"sync/atomic"

	"github.com/jonwraymond/netrepo/call"
)

// Result is one scripted completion.
type Result[T any] struct {
	Response *call.Response[T]
	Err      error
}

// Success scripts a 200 response carrying body.
func Success[T any](body T) Result[T] {
	return Result[T]{Response: &call.Response[T]{StatusCode: call.StatusOK, Body: body}}
}

// Status scripts a response with the given status code. Non-2xx codes carry
// errorBody.
func Status[T any](code int, errorBody []byte) Result[T] {
	return Result[T]{Response: &call.Response[T]{StatusCode: code, ErrorBody: errorBody}}
}

// Failure scripts a transport failure.
func Failure[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

type dispatch[T any] struct {
	call *Call[T]
	cb   call.Callback[T]
}

// Endpoint is a fake remote resource identified by method and URL.
//
// Results are consumed in order, one per dispatch; the last result repeats
// once the script runs out. An empty script answers 200 with a zero body.
type Endpoint[T any] struct {
	method string
	url    string

	dispatches atomic.Int64

	mu      sync.Mutex
	script  []Result[T]
	next    int
	manual  bool
	pending []dispatch[T]
}

// NewEndpoint creates an endpoint answering with results.
func NewEndpoint[T any](method, url string, results ...Result[T]) *Endpoint[T] {
	return &Endpoint[T]{method: method, url: url, script: results}
}

// Manual switches the endpoint to manual mode: dispatched calls stay pending
// until Release is called. Returns e for chaining.
func (e *Endpoint[T]) Manual() *Endpoint[T] {
	e.mu.Lock()
	e.manual = true
	e.mu.Unlock()
	return e
}

// NewCall returns a fresh, unstarted call to the endpoint.
func (e *Endpoint[T]) NewCall() *Call[T] {
	return &Call[T]{endpoint: e}
}

// Dispatches returns how many calls have been enqueued against e.
func (e *Endpoint[T]) Dispatches() int {
	return int(e.dispatches.Load())
}

// Pending returns how many dispatched calls await Release.
func (e *Endpoint[T]) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

// Release completes every pending call with the next scripted result and
// returns how many were completed. Callbacks run on the calling goroutine.
func (e *Endpoint[T]) Release() int {
	e.mu.Lock()
	pending := e.pending
	e.pending = nil
	e.mu.Unlock()

	for _, d := range pending {
		deliver(d.call, d.cb, e.nextResult())
	}
	return len(pending)
}

func (e *Endpoint[T]) dispatch(c *Call[T], cb call.Callback[T]) {
	e.dispatches.Add(1)

	e.mu.Lock()
	if e.manual {
		e.pending = append(e.pending, dispatch[T]{call: c, cb: cb})
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()

	deliver(c, cb, e.nextResult())
}

func (e *Endpoint[T]) nextResult() Result[T] {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.script) == 0 {
		return Result[T]{Response: &call.Response[T]{StatusCode: call.StatusOK}}
	}
	if e.next >= len(e.script) {
		return e.script[len(e.script)-1]
	}
	r := e.script[e.next]
	e.next++
	return r
}

func deliver[T any](c *Call[T], cb call.Callback[T], r Result[T]) {
	if r.Err != nil {
		cb.OnFailure(c, r.Err)
		return
	}
	cb.OnResponse(c, r.Response)
}

// Call is a fake call bound to an Endpoint.
type Call[T any] struct {
	endpoint *Endpoint[T]

	mu       sync.Mutex
	executed bool
	canceled bool
}

// Method implements call.Call.
func (c *Call[T]) Method() string { return c.endpoint.method }

// URL implements call.Call.
func (c *Call[T]) URL() string { return c.endpoint.url }

// IsExecuted implements call.Call.
func (c *Call[T]) IsExecuted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.executed
}

// IsCanceled implements call.Call.
func (c *Call[T]) IsCanceled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canceled
}

// Enqueue implements call.Call.
func (c *Call[T]) Enqueue(cb call.Callback[T]) {
	c.mu.Lock()
	if c.canceled {
		c.mu.Unlock()
		panic(call.ErrCanceled)
	}
	if c.executed {
		c.mu.Unlock()
		panic(call.ErrAlreadyExecuted)
	}
	c.executed = true
	c.mu.Unlock()

	c.endpoint.dispatch(c, cb)
}

// Cancel implements call.Call. Pending manual dispatches are not affected.
func (c *Call[T]) Cancel() {
	c.mu.Lock()
	c.canceled = true
	c.mu.Unlock()
}

// Clone implements call.Call.
func (c *Call[T]) Clone() call.Call[T] {
	return c.endpoint.NewCall()
}

// MarkExecuted flags the call as already started without dispatching it.
func (c *Call[T]) MarkExecuted() *Call[T] {
	c.mu.Lock()
	c.executed = true
	c.mu.Unlock()
	return c
}

var _ call.Call[any] = (*Call[any])(nil)
