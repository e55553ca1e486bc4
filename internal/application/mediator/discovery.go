package mediator

import (
	"errors"
	"reflect"
	"sort"

	"go.uber.org/zap"
)

// Pairing is one Handles(Q -> R) declaration of a handler implementation
type Pairing struct {
	requestType reflect.Type
	build       func(name string, lifetime Lifetime) (*binding, error)
}

// Handles declares that a handler implementation serves request type Q.
// A nil factory marks the pairing as not instantiable; discovery skips it.
func Handles[Q Request[R], R any](factory Factory[Q, R]) Pairing {
	p := Pairing{requestType: reflect.TypeFor[Q]()}
	if factory != nil {
		p.build = func(name string, lifetime Lifetime) (*binding, error) {
			return newBinding(name, lifetime, factory)
		}
	}
	return p
}

// Descriptor describes a handler implementation offered to Discover.
// Feature packages expose their descriptors from a registration function.
type Descriptor struct {
	name     string
	lifetime Lifetime
	abstract bool
	pairings []Pairing
}

// Describe creates a descriptor for the named handler implementation
func Describe(name string, pairings ...Pairing) Descriptor {
	return Descriptor{name: name, pairings: pairings}
}

// WithLifetime overrides the registry default for every pairing of the descriptor
func (d Descriptor) WithLifetime(l Lifetime) Descriptor {
	d.lifetime = l
	return d
}

// Abstract marks the implementation as not instantiable
func (d Descriptor) Abstract() Descriptor {
	d.abstract = true
	return d
}

// Name returns the handler implementation name
func (d Descriptor) Name() string { return d.name }

// Discover registers every instantiable pairing of the given candidates.
//
// Discovery is all-or-nothing: if any request type would end up with more than one
// handler, no binding is added and the returned error lists every conflict, sorted
// by request type. The result does not depend on the order of candidates.
func (r *Registry) Discover(candidates ...Descriptor) error {
	if r.sealed.Load() {
		return ErrRegistrySealed
	}

	staged := make(map[reflect.Type][]*binding)
	for _, c := range candidates {
		if c.abstract {
			r.logger.Debug("skipping abstract handler", zap.String("handler", c.name))
			continue
		}
		for _, p := range c.pairings {
			if p.build == nil {
				r.logger.Debug("skipping handler without factory",
					zap.String("handler", c.name),
					zap.Stringer("request", p.requestType),
				)
				continue
			}
			b, err := p.build(c.name, c.lifetime)
			if errors.Is(err, ErrAbstractRequest) {
				r.logger.Debug("skipping handler for abstract request",
					zap.String("handler", c.name),
					zap.Stringer("request", p.requestType),
				)
				continue
			}
			if err != nil {
				return err
			}
			if err := r.prepare(b); err != nil {
				return err
			}
			staged[b.RequestType] = append(staged[b.RequestType], b)
		}
	}

	var conflicts []*DuplicateBindingError
	for requestType, bs := range staged {
		var names []string
		if existing, ok := r.bindings[requestType]; ok {
			names = append(names, existing.Handler)
		}
		for _, b := range bs {
			names = append(names, b.Handler)
		}
		if len(names) > 1 {
			conflicts = append(conflicts, newDuplicateBindingError(requestType, names...))
		}
	}
	if len(conflicts) > 0 {
		sort.Slice(conflicts, func(i, j int) bool {
			return conflicts[i].RequestType.String() < conflicts[j].RequestType.String()
		})
		if len(conflicts) == 1 {
			return conflicts[0]
		}
		errs := make([]error, len(conflicts))
		for i, c := range conflicts {
			errs[i] = c
		}
		return errors.Join(errs...)
	}

	for _, bs := range staged {
		r.store(bs[0])
	}
	r.logger.Info("handler discovery complete",
		zap.Int("candidates", len(candidates)),
		zap.Int("bindings", len(r.bindings)),
	)
	return nil
}
