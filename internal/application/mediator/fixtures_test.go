package mediator_test

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/andrescamacho/simplemediator-go/internal/application/mediator"
)

type pingQuery struct {
	mediator.Returns[string]
	Message string
}

type instanceQuery struct {
	mediator.Returns[int64]
}

type otherInstanceQuery struct {
	mediator.Returns[int64]
}

type listItemsQuery struct {
	mediator.Returns[[]string]
}

type unregisteredQuery struct {
	mediator.Returns[bool]
}

type waitQuery struct {
	mediator.Returns[string]
}

// pingHandler echoes the message back
type pingHandler struct{}

func (pingHandler) Handle(_ context.Context, q pingQuery) (string, error) {
	return "pong: " + q.Message, nil
}

// identityHandler returns the id assigned when it was constructed
type identityHandler struct {
	id     int64
	closed *atomic.Int64
}

func (h *identityHandler) Handle(context.Context, instanceQuery) (int64, error) {
	return h.id, nil
}

func (h *identityHandler) Close() error {
	if h.closed != nil {
		h.closed.Add(1)
	}
	return nil
}

// identityFactory counts constructions and hands out increasing ids
type identityFactory struct {
	built  atomic.Int64
	closed atomic.Int64
}

func (f *identityFactory) New() (mediator.Handler[instanceQuery, int64], error) {
	id := f.built.Add(1)
	return &identityHandler{id: id, closed: &f.closed}, nil
}

// referenceListHandler is the fixed reference handler for the item listing scenario
type referenceListHandler struct{}

func (referenceListHandler) Handle(context.Context, listItemsQuery) ([]string, error) {
	return []string{"Item1", "Item2", "Item3"}, nil
}

var errCancelled = errors.New("cancelled")

// cancelAwareHandler reports a distinguishable result when the context is already cancelled
type cancelAwareHandler struct{}

func (cancelAwareHandler) Handle(ctx context.Context, _ waitQuery) (string, error) {
	select {
	case <-ctx.Done():
		return "cancelled", errCancelled
	default:
		return "completed", nil
	}
}

func pingFactory() (mediator.Handler[pingQuery, string], error) {
	return pingHandler{}, nil
}
