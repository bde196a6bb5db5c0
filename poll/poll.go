package poll

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/netrepo/call"
)

// Condition reports whether polling should continue after resp.
type Condition[T any] func(resp *call.Response[T]) bool

// Poller is a running poll.
type Poller struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Start polls cl in a new goroutine and delivers the outcome to cb.
//
// keepPolling is asked about every response, successful or not; a nil
// condition delivers the first response. Start panics if cl was already
// started or canceled.
func Start[T any](ctx context.Context, cl call.Call[T], cfg Config, keepPolling Condition[T], cb call.Callback[T]) *Poller {
	if cl.IsExecuted() {
		panic(call.ErrAlreadyExecuted)
	}
	if cl.IsCanceled() {
		panic(call.ErrCanceled)
	}
	if keepPolling == nil {
		keepPolling = func(*call.Response[T]) bool { return false }
	}

	ctx, cancel := context.WithCancel(ctx)
	p := &Poller{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(p.done)
		defer cancel()
		run(ctx, cl, cfg.withDefaults(), keepPolling, cb)
	}()

	return p
}

// Stop cancels the poll. The callback receives context.Canceled unless an
// outcome was already delivered. Stop does not wait; use Done for that.
func (p *Poller) Stop() {
	p.cancel()
}

// Done is closed once the outcome has been delivered.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}

type result[T any] struct {
	resp *call.Response[T]
	err  error
}

func run[T any](ctx context.Context, cl call.Call[T], cfg Config, keepPolling Condition[T], cb call.Callback[T]) {
	current := cl

	for attempt := 1; ; attempt++ {
		res := await(ctx, current)
		switch {
		case res.err != nil:
			cb.OnFailure(current, res.err)
			return
		case !keepPolling(res.resp):
			cb.OnResponse(current, res.resp)
			return
		case attempt >= cfg.Tries:
			cb.OnFailure(current, fmt.Errorf("%w: polling to %s failed after %d tries",
				ErrTriesExhausted, current.URL(), attempt))
			return
		}

		delay := cfg.delay(attempt)
		if cfg.OnAttempt != nil {
			cfg.OnAttempt(attempt+1, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			cb.OnFailure(current, ctx.Err())
			return
		case <-timer.C:
		}

		current = current.Clone()
	}
}

// await dispatches c and waits for its completion or for ctx to end, in
// which case c is canceled and ctx's error returned.
func await[T any](ctx context.Context, c call.Call[T]) result[T] {
	if err := ctx.Err(); err != nil {
		return result[T]{err: err}
	}

	done := make(chan result[T], 1)
	c.Enqueue(call.CallbackFuncs[T]{
		Response: func(_ call.Call[T], resp *call.Response[T]) { done <- result[T]{resp: resp} },
		Failure:  func(_ call.Call[T], err error) { done <- result[T]{err: err} },
	})

	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		c.Cancel()
		return result[T]{err: ctx.Err()}
	}
}
