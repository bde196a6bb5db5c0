package poll_test

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jonwraymond/netrepo/call"
	"github.com/jonwraymond/netrepo/call/calltest"
	"github.com/jonwraymond/netrepo/poll"
)

func ExampleStart() {
	job := calltest.NewEndpoint(http.MethodGet, "/jobs/1",
		calltest.Success("queued"),
		calltest.Success("running"),
		calltest.Success("finished"),
	)

	p := poll.Start[string](context.Background(), job.NewCall(),
		poll.Config{Tries: 5, Delay: time.Millisecond},
		func(r *call.Response[string]) bool { return r.Body != "finished" },
		call.NetworkCallback[string]{
			Successful: func(state string) { fmt.Println("job", state) },
		},
	)
	<-p.Done()
	fmt.Println("attempts:", job.Dispatches())
	// Output:
	// job finished
	// attempts: 3
}
