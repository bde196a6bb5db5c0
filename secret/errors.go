package secret

import "errors"

// Sentinel errors for secret resolution.
var (
	ErrMissingEnv      = errors.New("secret: missing required environment variables")
	ErrInvalidRef      = errors.New("secret: invalid secret reference")
	ErrUnknownProvider = errors.New("secret: provider is not registered")
	ErrNotFound        = errors.New("secret: secret not found")
	ErrEmptySecret     = errors.New("secret: provider returned empty value")
)
