package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonwraymond/netrepo/secret"
)

// DefaultAPIKeyHeader is the header used when none is configured.
const DefaultAPIKeyHeader = "X-API-Key"

// APIKey sets a single API key header.
type APIKey struct {
	header   string
	value    string
	resolver *secret.Resolver
}

// NewAPIKey creates an API key decorator. value may be a secret reference.
func NewAPIKey(header, value string, resolver *secret.Resolver) *APIKey {
	if strings.TrimSpace(header) == "" {
		header = DefaultAPIKeyHeader
	}
	return &APIKey{header: header, value: value, resolver: resolver}
}

// Header returns the header name the key is sent in.
func (k *APIKey) Header() string {
	return k.header
}

// Decorate sets the API key header.
func (k *APIKey) Decorate(ctx context.Context, req *http.Request) error {
	key, err := k.resolver.ResolveValue(ctx, k.value)
	if err != nil {
		return fmt.Errorf("auth: api key: %w", err)
	}
	if key == "" {
		return ErrMissingCredentials
	}
	req.Header.Set(k.header, key)
	return nil
}
