package mediator

import (
	"context"
	"errors"
	"io"
	"sync"
)

// Context keys for passing the dispatch scope through context
type contextKey int

const (
	scopeKey contextKey = iota
)

// Scope owns the handler instances of scoped bindings for one logical unit of work,
// typically one inbound HTTP request.
type Scope struct {
	instances instanceStore
}

// NewScope creates an empty scope
func NewScope() *Scope {
	return &Scope{}
}

// Close releases the scope's handler instances that implement io.Closer.
// Dispatching a scoped request with a closed scope fails with ErrScopeClosed.
func (s *Scope) Close() error {
	return s.instances.close()
}

// WithScope attaches a scope to the context
func WithScope(ctx context.Context, scope *Scope) context.Context {
	return context.WithValue(ctx, scopeKey, scope)
}

// ScopeFromContext extracts the scope from context
func ScopeFromContext(ctx context.Context) (*Scope, bool) {
	scope, ok := ctx.Value(scopeKey).(*Scope)
	return scope, ok && scope != nil
}

// instanceStore caches one handler instance per binding.
// Each binding has its own cell so a slow factory only blocks dispatches of that binding.
type instanceStore struct {
	mu     sync.Mutex
	cells  map[*binding]*instanceCell
	closed bool
}

type instanceCell struct {
	mu       sync.Mutex
	instance any
}

// get returns the cached instance for b, constructing it on first use.
// A failed construction is not cached.
func (s *instanceStore) get(b *binding) (any, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrScopeClosed
	}
	if s.cells == nil {
		s.cells = make(map[*binding]*instanceCell)
	}
	cell, ok := s.cells[b]
	if !ok {
		cell = &instanceCell{}
		s.cells[b] = cell
	}
	s.mu.Unlock()

	cell.mu.Lock()
	defer cell.mu.Unlock()
	if cell.instance != nil {
		return cell.instance, nil
	}
	instance, err := construct(b)
	if err != nil {
		return nil, err
	}
	cell.instance = instance
	return instance, nil
}

func (s *instanceStore) close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	cells := s.cells
	s.cells = nil
	s.mu.Unlock()

	var errs []error
	for _, cell := range cells {
		cell.mu.Lock()
		instance := cell.instance
		cell.instance = nil
		cell.mu.Unlock()
		if closer, ok := instance.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func construct(b *binding) (any, error) {
	instance, err := b.construct()
	if err != nil {
		return nil, &ConstructionError{RequestType: b.RequestType, Handler: b.Handler, Err: err}
	}
	return instance, nil
}
