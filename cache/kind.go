package cache

import (
	"context"
	"fmt"
	"reflect"
)

// Kind describes one type of cached data.
//
// The Go type is folded into the kind name, so two kinds with the same name
// but different types never collide.
type Kind[T any] struct {
	name     string
	identity func(T) string
}

// NewKind creates a kind named name holding values of type T.
func NewKind[T any](name string) Kind[T] {
	return Kind[T]{name: reflect.TypeFor[T]().String() + ":" + name}
}

// WithIdentity returns a copy of k whose values know their own key, which
// lets Save store a value without an explicit key.
func (k Kind[T]) WithIdentity(fn func(T) string) Kind[T] {
	k.identity = fn
	return k
}

// Name returns the fully qualified kind name.
func (k Kind[T]) Name() string {
	return k.name
}

// Identity returns the key of v. Returns ErrNoIdentity when k has no
// identity function.
func (k Kind[T]) Identity(v T) (string, error) {
	if k.identity == nil {
		return "", fmt.Errorf("%w: %s", ErrNoIdentity, k.name)
	}
	return k.identity(v), nil
}

// Save stores v under the key its kind derives for it.
func Save[T any](ctx context.Context, s Store, k Kind[T], v T) error {
	key, err := k.Identity(v)
	if err != nil {
		return err
	}
	return SaveAs(ctx, s, k, key, v)
}

// SaveAs stores v under key.
func SaveAs[T any](ctx context.Context, s Store, k Kind[T], key string, v T) error {
	if s == nil {
		return ErrNilStore
	}
	return s.Save(ctx, k.name, key, v)
}

// Read returns the value of kind k under key. A stored value of another
// type is reported as a miss.
func Read[T any](ctx context.Context, s Store, k Kind[T], key string) (T, bool) {
	var zero T
	if s == nil {
		return zero, false
	}
	v, ok := s.Read(ctx, k.name, key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// Update applies fn to the value of kind k under key and returns the result.
// Returns false when there was nothing to update.
func Update[T any](ctx context.Context, s Store, k Kind[T], key string, fn func(T) T) (T, bool) {
	var zero T
	if s == nil {
		return zero, false
	}

	v, ok := s.Update(ctx, k.name, key, func(current any) any {
		typed, ok := current.(T)
		if !ok {
			return current
		}
		return fn(typed)
	})
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// Clear removes the value of kind k under key.
func Clear[T any](ctx context.Context, s Store, k Kind[T], key string) error {
	if s == nil {
		return ErrNilStore
	}
	return s.Clear(ctx, k.name, key)
}
