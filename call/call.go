package call

import (
	"errors"
	"net/http"
)

// ErrAlreadyExecuted is the panic value used when a started call is enqueued
// again.
var ErrAlreadyExecuted = errors.New("call: already executed")

// ErrCanceled is the panic value used when a canceled call is enqueued.
var ErrCanceled = errors.New("call: canceled")

// Call is a single-shot network operation returning a body of type T.
//
// Contract:
//   - Identity: two calls are equivalent when Method and URL match.
//   - Lifecycle: Enqueue may be called at most once and never after Cancel.
//     Violations panic with ErrAlreadyExecuted or ErrCanceled.
//   - Concurrency: implementations must be safe for concurrent use.
//   - Completion: exactly one Callback method is invoked per Enqueue, on
//     whatever goroutine the implementation uses for I/O.
type Call[T any] interface {
	Method() string
	URL() string
	IsExecuted() bool
	IsCanceled() bool

	// Enqueue starts the call asynchronously.
	Enqueue(cb Callback[T])

	// Cancel aborts the call. Canceling an in-flight call reports a failure
	// to its callback. Idempotent.
	Cancel()

	// Clone returns a new, unstarted call with the same method and URL.
	Clone() Call[T]
}

// Response is a completed HTTP exchange.
type Response[T any] struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Body is the decoded body. Only set when Successful reports true.
	Body T

	// ErrorBody is the raw body of a non-2xx response.
	ErrorBody []byte

	// Header holds the response headers (may be nil).
	Header http.Header
}

// Successful reports whether the status code is in the 2xx range.
func (r *Response[T]) Successful() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Callback receives the completion of a Call.
//
// Contract:
//   - Exactly one of OnResponse or OnFailure is invoked per dispatched call.
//   - OnResponse is used for every response the server produced, successful
//     or not; OnFailure only when no response was obtained.
type Callback[T any] interface {
	OnResponse(c Call[T], resp *Response[T])
	OnFailure(c Call[T], err error)
}

// CallbackFuncs adapts a pair of functions to Callback. Nil functions are
// skipped.
type CallbackFuncs[T any] struct {
	Response func(c Call[T], resp *Response[T])
	Failure  func(c Call[T], err error)
}

// OnResponse calls f.Response if set.
func (f CallbackFuncs[T]) OnResponse(c Call[T], resp *Response[T]) {
	if f.Response != nil {
		f.Response(c, resp)
	}
}

// OnFailure calls f.Failure if set.
func (f CallbackFuncs[T]) OnFailure(c Call[T], err error) {
	if f.Failure != nil {
		f.Failure(c, err)
	}
}

var _ Callback[any] = CallbackFuncs[any]{}
