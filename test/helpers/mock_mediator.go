package helpers

import (
	"context"
	"fmt"
	"sync"

	"github.com/andrescamacho/simplemediator-go/internal/application/mediator"
)

// MockSender is a test double for mediator.Sender.
// It records every dispatched request and answers with the configured function.
type MockSender struct {
	mu           sync.Mutex
	dispatchFunc func(ctx context.Context, request any) (any, error)
	callLog      []string
}

// NewMockSender creates a new MockSender
func NewMockSender() *MockSender {
	return &MockSender{}
}

// Dispatch implements mediator.Sender
func (m *MockSender) Dispatch(ctx context.Context, request any) (any, error) {
	m.mu.Lock()
	m.callLog = append(m.callLog, mediator.RequestName(request))
	fn := m.dispatchFunc
	m.mu.Unlock()

	if fn == nil {
		return nil, fmt.Errorf("unsupported request type: %T", request)
	}
	return fn(ctx, request)
}

// SetDispatchFunc sets the function answering Dispatch calls
func (m *MockSender) SetDispatchFunc(fn func(ctx context.Context, request any) (any, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatchFunc = fn
}

// GetCallLog returns the names of the requests dispatched so far
func (m *MockSender) GetCallLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.callLog...)
}
