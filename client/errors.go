package client

import "errors"

// Sentinel errors for client configuration.
var (
	ErrMissingBaseURL   = errors.New("client: base URL required")
	ErrInvalidLimit     = errors.New("client: limits must not be negative")
	ErrAuthConflict     = errors.New("client: jwt and oauth2 both set the Authorization header")
	ErrInvalidCacheTTLs = errors.New("client: cache default TTL exceeds max TTL")
)
