package client

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/netrepo/call"
	"github.com/jonwraymond/netrepo/poll"
	"github.com/jonwraymond/netrepo/repository"
)

// Task is one unit of warm-up work.
type Task func(ctx context.Context) error

// Prefetch runs tasks concurrently, at most MaxInFlight at a time, and
// returns the first error. Remaining tasks see a canceled context once one
// fails.
func (c *Client) Prefetch(ctx context.Context, tasks ...Task) error {
	g, ctx := errgroup.WithContext(ctx)
	if c.cfg.MaxInFlight > 0 {
		g.SetLimit(c.cfg.MaxInFlight)
	}
	for _, task := range tasks {
		if task == nil {
			continue
		}
		g.Go(func() error { return task(ctx) })
	}
	return g.Wait()
}

// Warm returns a Task that loads one resource through repo with policy,
// populating the cache. newCall builds the call when the task runs.
func Warm[T, C any](repo *repository.Repository[T, C], policy repository.Policy, strategy repository.Strategy[T, C], newCall func(ctx context.Context) (call.Call[T], error)) Task {
	return func(ctx context.Context) error {
		cl, err := newCall(ctx)
		if err != nil {
			return err
		}
		_, err = repo.Get(ctx, policy, cl, strategy)
		return err
	}
}

// Poll issues GET path until keepPolling rejects a response or cfg.Tries
// is exhausted.
func Poll[T any](ctx context.Context, c *Client, path string, cfg poll.Config, keepPolling poll.Condition[T], cb call.Callback[T]) (*poll.Poller, error) {
	cl, err := NewCall[T](ctx, c, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return poll.Start[T](ctx, cl, cfg, keepPolling, cb), nil
}
