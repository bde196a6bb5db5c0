package collapse_test

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jonwraymond/netrepo/call"
	"github.com/jonwraymond/netrepo/call/calltest"
	"github.com/jonwraymond/netrepo/collapse"
)

func Example() {
	c := collapse.New()
	users := calltest.NewEndpoint(http.MethodGet, "/users/7", calltest.Success("ada")).Manual()

	cb := call.NetworkCallback[string]{
		Successful: func(name string) { fmt.Println("got", name) },
	}
	collapse.Enqueue[string](context.Background(), c, users.NewCall(), cb)
	collapse.Enqueue[string](context.Background(), c, users.NewCall(), cb)

	users.Release()
	fmt.Println("dispatches:", users.Dispatches())
	// Output:
	// got ada
	// got ada
	// dispatches: 1
}
