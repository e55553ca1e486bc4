package mediator

import (
	"context"
	"errors"
	"io"
	"reflect"

	"go.uber.org/zap"
)

// Dispatcher routes each request to the handler registered for its concrete type.
// It is safe for concurrent use once constructed.
type Dispatcher struct {
	registry   *Registry
	middleware []Middleware
	pipeline   Next
	singletons instanceStore
	root       *Scope
	logger     *zap.Logger
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithLogger sets the dispatcher logger
func WithLogger(logger *zap.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithMiddleware appends middleware to the dispatch pipeline.
// The first middleware registered is the outermost.
func WithMiddleware(mw ...Middleware) Option {
	return func(d *Dispatcher) {
		for _, m := range mw {
			if m != nil {
				d.middleware = append(d.middleware, m)
			}
		}
	}
}

// NewDispatcher creates a dispatcher over registry and seals the registry
func NewDispatcher(registry *Registry, opts ...Option) *Dispatcher {
	registry.Seal()
	d := &Dispatcher{
		registry: registry,
		root:     NewScope(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.pipeline = d.handle
	for i := len(d.middleware) - 1; i >= 0; i-- {
		mw, next := d.middleware[i], d.pipeline
		d.pipeline = func(ctx context.Context, request any) (any, error) {
			return mw(ctx, request, next)
		}
	}
	return d
}

// Registry returns the registry the dispatcher resolves against
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Send dispatches request to its handler and returns the handler's response.
// R is fixed by the request type, so a caller cannot expect a response type the
// request does not declare.
func Send[R any](ctx context.Context, s Sender, request Request[R]) (R, error) {
	var zero R
	if request == nil {
		return zero, ErrNilRequest
	}

	out, err := s.Dispatch(ctx, request)
	if out == nil {
		return zero, err
	}
	response, ok := out.(R)
	if !ok {
		return zero, &ResponseTypeError{
			RequestType: reflect.TypeOf(request),
			Expected:    reflect.TypeFor[R](),
			Actual:      reflect.TypeOf(out),
		}
	}
	return response, err
}

// Dispatch implements Sender. The handler's response and error are returned unchanged.
func (d *Dispatcher) Dispatch(ctx context.Context, request any) (any, error) {
	if request == nil {
		return nil, ErrNilRequest
	}
	return d.pipeline(ctx, request)
}

func (d *Dispatcher) handle(ctx context.Context, request any) (any, error) {
	requestType := reflect.TypeOf(request)
	b, ok := d.registry.lookup(requestType)
	if !ok {
		d.logger.Error("no handler registered", zap.Stringer("request", requestType))
		return nil, &HandlerNotRegisteredError{RequestType: requestType}
	}

	instance, release, err := d.instance(ctx, b)
	if err != nil {
		d.logger.Error("handler construction failed",
			zap.Stringer("request", requestType),
			zap.String("handler", b.Handler),
			zap.Error(err),
		)
		return nil, err
	}
	defer release()

	return b.invoke(ctx, instance, request)
}

// instance obtains a handler per the binding's lifetime. release must be called
// once the handler returns; it closes transient instances implementing io.Closer.
func (d *Dispatcher) instance(ctx context.Context, b *binding) (any, func(), error) {
	switch b.Lifetime {
	case LifetimeSingleton:
		instance, err := d.singletons.get(b)
		return instance, noop, err

	case LifetimeScoped:
		scope, ok := ScopeFromContext(ctx)
		if !ok {
			scope = d.root
		}
		instance, err := scope.instances.get(b)
		return instance, noop, err

	default:
		instance, err := construct(b)
		if err != nil {
			return nil, noop, err
		}
		return instance, func() { d.closeTransient(b, instance) }, nil
	}
}

func (d *Dispatcher) closeTransient(b *binding, instance any) {
	closer, ok := instance.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		d.logger.Warn("failed to close transient handler",
			zap.String("handler", b.Handler),
			zap.Error(err),
		)
	}
}

// Close releases singleton and root-scope handler instances that implement io.Closer
func (d *Dispatcher) Close() error {
	return errors.Join(d.singletons.close(), d.root.Close())
}

func noop() {}
