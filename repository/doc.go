// Package repository decides, per query, whether data comes from a local
// cache, from the network, or from a time-gated mix of both.
//
// A [Repository] owns one cache value of type C and one collapsing
// [collapse.Enqueuer] for data of type T. Each query names an access
// [Policy], the [call.Call] to use when the network is needed, and the
// [Strategy] that knows how to read T out of C and write it back:
//
//	users := repository.New[User](store, collapse.For[User](collapser))
//
//	users.Query(repository.PolicyFirst, api.GetUser(ctx, 7), userStrategy).
//	    OnSuccess(func(u User) { ... }).
//	    OnError(func(err error) { ... }).
//	    Run(ctx)
//
// # Policies
//
//   - PolicyNone skips the cache and always fetches.
//   - PolicyFirst answers from the cache and fetches on a miss.
//   - PolicyOnly answers from the cache and fails with ErrCacheMiss on a miss.
//   - PolicyTimeResolve answers from the cache while it is fresh; once stale
//     the strategy's Invalidate hook runs and the data is fetched. Pair it
//     with a [TimeResolve] strategy.
//
// A successful fetch is written through the strategy before the caller is
// notified. Cache reads never mutate the cache.
//
// # Errors
//
// Every query ends in exactly one notification. Misses under PolicyOnly
// report ErrCacheMiss, non-2xx responses a *NetworkResourceError, transport
// failures their original cause. Running a query whose call was already
// started or canceled is a programming error and panics with an error
// matching ErrCallNotReady.
package repository
