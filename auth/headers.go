package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonwraymond/netrepo/secret"
)

const contentTypeJSON = "application/json"

// Headers sets a fixed set of request headers. Values are resolved through
// Resolver on every request so rotated secrets are picked up.
type Headers struct {
	Values   map[string]string
	Resolver *secret.Resolver

	// Override replaces headers already present on the request.
	Override bool
}

// JSONHeaders returns a decorator that declares JSON request and response
// bodies.
func JSONHeaders() *Headers {
	return &Headers{Values: map[string]string{
		"Content-Type": contentTypeJSON,
		"Accept":       contentTypeJSON,
	}}
}

// Decorate sets the configured headers on req.
func (h *Headers) Decorate(ctx context.Context, req *http.Request) error {
	for name, value := range h.Values {
		if strings.TrimSpace(name) == "" {
			return ErrInvalidHeader
		}
		if !h.Override && req.Header.Get(name) != "" {
			continue
		}
		resolved, err := h.Resolver.ResolveValue(ctx, value)
		if err != nil {
			return fmt.Errorf("auth: header %s: %w", name, err)
		}
		req.Header.Set(name, resolved)
	}
	return nil
}
