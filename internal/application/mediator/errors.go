package mediator

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

var (
	ErrNilRequest           = errors.New("request cannot be nil")
	ErrNilFactory           = errors.New("handler factory cannot be nil")
	ErrAbstractRequest      = errors.New("request type must be a concrete type")
	ErrRegistrySealed       = errors.New("registry is sealed")
	ErrScopeClosed          = errors.New("scope is closed")
	ErrDuplicateBinding     = errors.New("duplicate handler binding")
	ErrHandlerNotRegistered = errors.New("handler not registered")
)

// DuplicateBindingError reports more than one handler bound to the same request type.
// Handlers is sorted, so the message does not depend on registration order.
type DuplicateBindingError struct {
	RequestType reflect.Type
	Handlers    []string
}

func newDuplicateBindingError(requestType reflect.Type, handlers ...string) *DuplicateBindingError {
	names := append([]string(nil), handlers...)
	sort.Strings(names)
	return &DuplicateBindingError{RequestType: requestType, Handlers: names}
}

func (e *DuplicateBindingError) Error() string {
	return fmt.Sprintf("handler already registered for type %s (%s)", e.RequestType, strings.Join(e.Handlers, ", "))
}

func (e *DuplicateBindingError) Is(target error) bool { return target == ErrDuplicateBinding }

// HandlerNotRegisteredError reports a dispatch for a request type without a binding
type HandlerNotRegisteredError struct {
	RequestType reflect.Type
}

func (e *HandlerNotRegisteredError) Error() string {
	return fmt.Sprintf("no handler registered for type %s", e.RequestType)
}

func (e *HandlerNotRegisteredError) Is(target error) bool { return target == ErrHandlerNotRegistered }

// ConstructionError reports a handler factory failure
type ConstructionError struct {
	RequestType reflect.Type
	Handler     string
	Err         error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("failed to construct handler %s for type %s: %v", e.Handler, e.RequestType, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

// ResponseTypeError reports a middleware that replaced a response with a value of the wrong type
type ResponseTypeError struct {
	RequestType reflect.Type
	Expected    reflect.Type
	Actual      reflect.Type
}

func (e *ResponseTypeError) Error() string {
	return fmt.Sprintf("response for type %s has type %s, expected %s", e.RequestType, e.Actual, e.Expected)
}
