package mediator

import (
	"context"
)

// Request is implemented by every command or query whose handler yields a response of type R.
//
// Request types satisfy it by embedding Returns[R]:
//
//	type ListItemsQuery struct {
//		mediator.Returns[[]string]
//	}
type Request[R any] interface {
	responseOf(R)
}

// Returns tags a request type with its response type. It has no size and no behavior.
type Returns[R any] struct{}

func (Returns[R]) responseOf(R) {}

// Handler handles one request type and yields the response type that request declares
type Handler[Q Request[R], R any] interface {
	Handle(ctx context.Context, request Q) (R, error)
}

// HandlerFunc adapts a plain function to the Handler interface
type HandlerFunc[Q Request[R], R any] func(ctx context.Context, request Q) (R, error)

// Handle calls f(ctx, request)
func (f HandlerFunc[Q, R]) Handle(ctx context.Context, request Q) (R, error) {
	return f(ctx, request)
}

// Factory builds a handler instance. It is called lazily, at resolution time,
// as often as the binding's lifetime requires.
type Factory[Q Request[R], R any] func() (Handler[Q, R], error)

// Instance returns a factory that always yields the given handler
func Instance[Q Request[R], R any](h Handler[Q, R]) Factory[Q, R] {
	return func() (Handler[Q, R], error) { return h, nil }
}

// Next invokes the rest of the dispatch pipeline
type Next func(ctx context.Context, request any) (any, error)

// Middleware wraps dispatch with cross-cutting concerns such as logging, metrics and tracing.
// Middleware must hand back the result of next unchanged.
type Middleware func(ctx context.Context, request any, next Next) (any, error)

// Sender dispatches an untyped request to its handler. Use Send for the typed call surface.
type Sender interface {
	Dispatch(ctx context.Context, request any) (any, error)
}
