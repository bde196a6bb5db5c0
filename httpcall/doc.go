// Package httpcall implements call.Call over net/http with JSON bodies.
//
// A Client holds the transport concerns shared by every call: base URL,
// request decorators from package auth, an in-flight limit and an optional
// rate limit. NewCall binds a method, path and request body to a Client:
//
//	c, err := httpcall.NewCall[User](ctx, client, http.MethodGet, "/users/42", nil)
//	c.Enqueue(cb)
//
// Calls are single-shot. Clone returns an unstarted copy that reuses the
// encoded request body.
package httpcall
