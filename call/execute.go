package call

import "context"

// Execute runs c and blocks until it completes or ctx is done. When ctx ends
// first the call is canceled and ctx.Err is returned.
//
// Non-2xx responses are returned as responses, not errors.
func Execute[T any](ctx context.Context, c Call[T]) (*Response[T], error) {
	type result struct {
		resp *Response[T]
		err  error
	}
	done := make(chan result, 1)

	c.Enqueue(CallbackFuncs[T]{
		Response: func(_ Call[T], resp *Response[T]) { done <- result{resp: resp} },
		Failure:  func(_ Call[T], err error) { done <- result{err: err} },
	})

	select {
	case r := <-done:
		return r.resp, r.err
	case <-ctx.Done():
		c.Cancel()
		return nil, ctx.Err()
	}
}
