// Package client assembles the netrepo stack for one remote API.
//
// New wires an observer, a call collapser, an in-memory cache store and an
// httpcall client whose requests are decorated according to Config.Auth.
// Repositories, calls and pollers are then created against the Client:
//
//	cfg, err := client.LoadConfig()
//	c, err := client.New(ctx, cfg)
//	defer c.Shutdown(ctx)
//
//	users := client.NewRepository[User](c, "users")
//	call, err := client.NewCall[User](ctx, c, http.MethodGet, "/users/42", nil)
//	u, err := users.Get(ctx, repository.PolicyFirst, call, strategy)
package client
