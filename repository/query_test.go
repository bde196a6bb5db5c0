package repository

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jonwraymond/netrepo/call/calltest"
)

func expectPanic(t *testing.T, want error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, want) {
			t.Errorf("recover() = %v, want %v", r, want)
		}
	}()
	fn()
}

func TestQuery_HandlersOptional(t *testing.T) {
	repo := New[user](&box{user: &ada}, nil)
	ep := calltest.NewEndpoint[user](http.MethodGet, "/users/7")

	// no handlers: nothing to observe, but must not panic
	repo.Query(PolicyFirst, ep.NewCall(), boxStrategy).Run(context.Background())

	var got user
	repo.Query(PolicyFirst, ep.NewCall(), boxStrategy).
		OnSuccess(func(u user) { got = u }).
		Run(context.Background())
	if got != ada {
		t.Errorf("OnSuccess received %+v, want %+v", got, ada)
	}
}

func TestQuery_HandlerSetTwice(t *testing.T) {
	repo := New[user](&box{}, nil)
	ep := calltest.NewEndpoint[user](http.MethodGet, "/users/7")

	q := repo.Query(PolicyOnly, ep.NewCall(), boxStrategy).OnSuccess(func(user) {})
	expectPanic(t, ErrHandlerSet, func() { q.OnSuccess(func(user) {}) })

	q.OnError(func(error) {})
	expectPanic(t, ErrHandlerSet, func() { q.OnError(func(error) {}) })
}

func TestQuery_HandlerAfterRun(t *testing.T) {
	repo := New[user](&box{}, nil)
	ep := calltest.NewEndpoint[user](http.MethodGet, "/users/7")

	q := repo.Query(PolicyOnly, ep.NewCall(), boxStrategy)
	q.Run(context.Background())

	expectPanic(t, ErrQueryStarted, func() { q.OnSuccess(func(user) {}) })
	expectPanic(t, ErrQueryStarted, func() { q.OnError(func(error) {}) })
}

func TestQuery_RunReexecutes(t *testing.T) {
	b := &box{user: &ada}
	repo := New[user](b, nil)
	ep := calltest.NewEndpoint[user](http.MethodGet, "/users/7")

	hits := 0
	q := repo.Query(PolicyFirst, ep.NewCall(), boxStrategy).OnSuccess(func(user) { hits++ })
	q.Run(context.Background())
	q.Run(context.Background())

	if hits != 2 {
		t.Errorf("hits = %d, want 2", hits)
	}
	if reads, _, _ := b.counts(); reads != 2 {
		t.Errorf("reads = %d, want 2", reads)
	}
}

func TestQuery_RerunAfterDispatchPanics(t *testing.T) {
	repo := New[user](&box{}, nil)
	ep := calltest.NewEndpoint(http.MethodGet, "/users/7", calltest.Success(ada))

	q := repo.Query(PolicyNone, ep.NewCall(), boxStrategy)
	q.Run(context.Background())
	expectPanic(t, ErrCallNotReady, func() { q.Run(context.Background()) })
}
