package auth

import "errors"

// Sentinel errors for request decoration.
var (
	ErrMissingCredentials = errors.New("auth: missing credentials")
	ErrInvalidHeader      = errors.New("auth: invalid header name")
	ErrSigningKey         = errors.New("auth: signing key required")
	ErrTokenUnavailable   = errors.New("auth: token unavailable")
)
