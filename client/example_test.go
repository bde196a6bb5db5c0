package client_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/jonwraymond/netrepo/cache"
	"github.com/jonwraymond/netrepo/client"
	"github.com/jonwraymond/netrepo/repository"
)

type Order struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func Example() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"id":"o-1","status":"shipped"}`)
	}))
	defer srv.Close()

	ctx := context.Background()
	cfg := client.DefaultConfig()
	cfg.BaseURL = srv.URL

	c, err := client.New(ctx, cfg)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer func() { _ = c.Shutdown(ctx) }()

	orders := client.NewRepository[Order](c, "orders")
	strategy := repository.EntryStrategy(cache.NewKind[Order]("order"), "o-1")

	call, err := client.NewCall[Order](ctx, c, http.MethodGet, "/orders/o-1", nil)
	if err != nil {
		fmt.Println(err)
		return
	}
	order, err := orders.Get(ctx, repository.PolicyFirst, call, strategy)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(order.ID, order.Status)
	// Output: o-1 shipped
}
