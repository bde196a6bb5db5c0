package repository

import (
	"errors"
	"fmt"
)

// Sentinel errors for repository operations.
var (
	// ErrCacheMiss is reported when PolicyOnly finds nothing in the cache.
	ErrCacheMiss = errors.New("repository: cache miss")

	// ErrCallNotReady is the panic value raised when a query would dispatch
	// a call that was already started or canceled.
	ErrCallNotReady = errors.New("repository: call should be ready to use")

	// ErrNetworkResource matches every *NetworkResourceError.
	ErrNetworkResource = errors.New("repository: network resource error")

	// ErrUnknownPolicy is reported for Policy values outside the defined set.
	ErrUnknownPolicy = errors.New("repository: unknown access policy")

	// ErrHandlerSet is the panic value raised when a Query handler is set twice.
	ErrHandlerSet = errors.New("repository: handler already set")

	// ErrQueryStarted is the panic value raised when a Query handler is set
	// after Run.
	ErrQueryStarted = errors.New("repository: query already run")
)

// NetworkResourceError reports a non-2xx response to a query's call.
type NetworkResourceError struct {
	// URL is the requested URL.
	URL string

	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Body is the raw error body (may be nil).
	Body []byte
}

// Error returns the error message.
func (e *NetworkResourceError) Error() string {
	return fmt.Sprintf("repository: network resource requested at %s yielded a %d error code", e.URL, e.StatusCode)
}

// Is reports whether this error matches the target.
func (e *NetworkResourceError) Is(target error) bool {
	return target == ErrNetworkResource
}
