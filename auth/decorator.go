package auth

import (
	"context"
	"net/http"
)

// Decorator prepares an outgoing request, typically by setting headers.
type Decorator interface {
	Decorate(ctx context.Context, req *http.Request) error
}

// DecoratorFunc adapts a function to Decorator.
type DecoratorFunc func(ctx context.Context, req *http.Request) error

// Decorate calls f.
func (f DecoratorFunc) Decorate(ctx context.Context, req *http.Request) error {
	return f(ctx, req)
}

// chain applies decorators in order and stops at the first error.
type chain []Decorator

// Chain composes decorators. Nil entries are skipped and nested chains are
// flattened.
func Chain(decorators ...Decorator) Decorator {
	var c chain
	for _, d := range decorators {
		switch v := d.(type) {
		case nil:
		case chain:
			c = append(c, v...)
		default:
			c = append(c, d)
		}
	}
	return c
}

func (c chain) Decorate(ctx context.Context, req *http.Request) error {
	for _, d := range c {
		if err := d.Decorate(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

var (
	_ Decorator = DecoratorFunc(nil)
	_ Decorator = chain(nil)
)
