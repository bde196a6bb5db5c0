// Package collapse merges concurrent identical read calls into a single
// in-flight network dispatch.
//
// The first caller to read a URL becomes the leader and dispatches its call.
// Callers that arrive while that dispatch is in flight are queued behind it
// and receive the same response or failure, in the order they arrived. Once
// the dispatch resolves the queue is discarded, so the next read of the URL
// starts a new cycle.
//
// Calls whose method is not the read method (GET unless configured with
// [WithReadMethod]) are dispatched directly and never queued:
//
//	c := collapse.New(collapse.WithInstrumentation(inst))
//
//	collapse.Enqueue(ctx, c, usersCall, call.NetworkCallback[User]{
//	    Successful: func(u User) { ... },
//	})
//
// A [Collapser] is an explicitly owned value. Share one instance between
// every repository that should collapse against the same endpoints.
package collapse
