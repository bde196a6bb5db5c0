// Package poll re-issues a call until its response satisfies a condition or
// a bounded number of tries is spent.
//
// Each attempt after the first uses a fresh clone of the call, separated by
// a delay computed from the configured backoff:
//
//	p := poll.Start(ctx, api.JobStatus(ctx, id), poll.Config{
//	    Tries: 10,
//	    Delay: 2 * time.Second,
//	}, func(r *call.Response[Job]) bool {
//	    return r.Successful() && r.Body.State == "running"
//	}, callback)
//
// Exactly one outcome reaches the callback: the first response the
// condition rejects, the first transport failure, an error matching
// [ErrTriesExhausted] once the budget is spent, or the context's error when
// polling is stopped.
package poll
