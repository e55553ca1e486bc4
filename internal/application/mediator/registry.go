package mediator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync/atomic"

	"go.uber.org/zap"
)

// Binding describes the handler registered for one request type
type Binding struct {
	RequestType  reflect.Type
	ResponseType reflect.Type
	Lifetime     Lifetime
	Handler      string
}

// binding is the registry entry. construct and invoke are closures created in
// Register with Q and R known statically, so dispatch never calls through reflection.
type binding struct {
	Binding
	construct func() (any, error)
	invoke    func(ctx context.Context, instance any, request any) (any, error)
}

// Registry maps request types to handler bindings.
// It is populated during startup and becomes read-only once sealed by NewDispatcher.
type Registry struct {
	defaultLifetime Lifetime
	bindings        map[reflect.Type]*binding
	sealed          atomic.Bool
	logger          *zap.Logger
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger used for registration events
func WithRegistryLogger(logger *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates an empty registry. Bindings registered with LifetimeDefault
// use defaultLifetime; LifetimeDefault itself falls back to LifetimeScoped.
func NewRegistry(defaultLifetime Lifetime, opts ...RegistryOption) *Registry {
	if !defaultLifetime.valid() {
		defaultLifetime = LifetimeScoped
	}
	r := &Registry{
		defaultLifetime: defaultLifetime,
		bindings:        make(map[reflect.Type]*binding),
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DefaultLifetime returns the lifetime applied to bindings registered with LifetimeDefault
func (r *Registry) DefaultLifetime() Lifetime {
	return r.defaultLifetime
}

// Register binds a handler factory to request type Q.
// The constraint Q Request[R] ties the handler's response type to the one Q declares.
func Register[Q Request[R], R any](r *Registry, name string, lifetime Lifetime, factory Factory[Q, R]) error {
	b, err := newBinding(name, lifetime, factory)
	if err != nil {
		return err
	}
	return r.add(b)
}

// MustRegister is like Register but panics on error. Intended for bootstrap code.
func MustRegister[Q Request[R], R any](r *Registry, name string, lifetime Lifetime, factory Factory[Q, R]) {
	if err := Register(r, name, lifetime, factory); err != nil {
		panic(err)
	}
}

func newBinding[Q Request[R], R any](name string, lifetime Lifetime, factory Factory[Q, R]) (*binding, error) {
	if factory == nil {
		return nil, ErrNilFactory
	}
	requestType := reflect.TypeFor[Q]()
	if requestType.Kind() == reflect.Interface {
		return nil, fmt.Errorf("%w: %s", ErrAbstractRequest, requestType)
	}
	if name == "" {
		name = typeName(requestType) + "Handler"
	}

	b := &binding{
		Binding: Binding{
			RequestType:  requestType,
			ResponseType: reflect.TypeFor[R](),
			Lifetime:     lifetime,
			Handler:      name,
		},
	}
	b.construct = func() (any, error) {
		h, err := factory()
		if err != nil {
			return nil, err
		}
		if h == nil {
			return nil, errors.New("factory returned a nil handler")
		}
		return h, nil
	}
	b.invoke = func(ctx context.Context, instance any, request any) (any, error) {
		return instance.(Handler[Q, R]).Handle(ctx, request.(Q))
	}
	return b, nil
}

func (r *Registry) add(b *binding) error {
	if r.sealed.Load() {
		return ErrRegistrySealed
	}
	if err := r.prepare(b); err != nil {
		return err
	}
	if existing, ok := r.bindings[b.RequestType]; ok {
		return newDuplicateBindingError(b.RequestType, existing.Handler, b.Handler)
	}
	r.store(b)
	return nil
}

// prepare resolves the default lifetime and validates the result
func (r *Registry) prepare(b *binding) error {
	if b.Lifetime == LifetimeDefault {
		b.Lifetime = r.defaultLifetime
	}
	if !b.Lifetime.valid() {
		return fmt.Errorf("invalid lifetime %s for type %s", b.Lifetime, b.RequestType)
	}
	return nil
}

func (r *Registry) store(b *binding) {
	r.bindings[b.RequestType] = b
	r.logger.Debug("handler registered",
		zap.Stringer("request", b.RequestType),
		zap.Stringer("response", b.ResponseType),
		zap.String("handler", b.Handler),
		zap.Stringer("lifetime", b.Lifetime),
	)
}

// Resolve returns the binding for a request type
func (r *Registry) Resolve(requestType reflect.Type) (Binding, bool) {
	b, ok := r.bindings[requestType]
	if !ok {
		return Binding{}, false
	}
	return b.Binding, true
}

func (r *Registry) lookup(requestType reflect.Type) (*binding, bool) {
	b, ok := r.bindings[requestType]
	return b, ok
}

// Bindings returns every binding sorted by request type name
func (r *Registry) Bindings() []Binding {
	out := make([]Binding, 0, len(r.bindings))
	for _, b := range r.bindings {
		out = append(out, b.Binding)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RequestType.String() < out[j].RequestType.String()
	})
	return out
}

// Len returns the number of bindings
func (r *Registry) Len() int {
	return len(r.bindings)
}

// Seal makes the registry read-only. Further registration fails with ErrRegistrySealed.
func (r *Registry) Seal() {
	r.sealed.Store(true)
}

// Sealed reports whether the registry is read-only
func (r *Registry) Sealed() bool {
	return r.sealed.Load()
}
