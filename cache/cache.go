package cache

import (
	"context"
	"errors"
	"strings"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Sentinel errors for cache operations.
var (
	ErrNilStore    = errors.New("cache: store is nil")
	ErrInvalidKind = errors.New("cache: kind is invalid")
	ErrInvalidKey  = errors.New("cache: key is invalid")
	ErrKeyTooLong  = errors.New("cache: key exceeds max length")
	ErrNoIdentity  = errors.New("cache: kind has no identity function")
)

// Store is a keyed store of arbitrary values.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Context: methods should honor cancellation/deadlines where applicable.
//   - Errors: Read never errors; it returns (nil, false) on miss.
//   - Update applies fn only when a value is present and stores its result
//     atomically with respect to other operations on the same entry.
type Store interface {
	// Save stores value under (kind, key), replacing any previous value.
	Save(ctx context.Context, kind, key string, value any) error

	// Read returns the value under (kind, key). Returns (nil, false) on miss.
	Read(ctx context.Context, kind, key string) (any, bool)

	// Update replaces the value under (kind, key) with fn(current) and
	// returns the new value. Returns (nil, false) when there is nothing to
	// update.
	Update(ctx context.Context, kind, key string, fn func(current any) any) (any, bool)

	// Clear removes the value under (kind, key). Idempotent - no error on miss.
	Clear(ctx context.Context, kind, key string) error
}

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
