package tracing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/andrescamacho/simplemediator-go/internal/adapters/tracing"
	"github.com/andrescamacho/simplemediator-go/internal/application/mediator"
	"github.com/andrescamacho/simplemediator-go/internal/infrastructure/config"
)

type tracedQuery struct {
	mediator.Returns[int]
}

func setup(t *testing.T, fault error) (*mediator.Dispatcher, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	reg := mediator.NewRegistry(mediator.LifetimeTransient)
	require.NoError(t, mediator.Register(reg, "", mediator.LifetimeDefault,
		mediator.Instance[tracedQuery, int](mediator.HandlerFunc[tracedQuery, int](
			func(context.Context, tracedQuery) (int, error) { return 1, fault }))))
	d := mediator.NewDispatcher(reg,
		mediator.WithMiddleware(tracing.Middleware(provider.Tracer("test"))))
	return d, recorder
}

func TestMiddleware_OpensSpanPerDispatch(t *testing.T) {
	// Arrange
	d, recorder := setup(t, nil)

	// Act
	resp, err := mediator.Send(context.Background(), d, tracedQuery{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, resp)
	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "mediator.send tracedQuery", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
}

func TestMiddleware_RecordsErrors(t *testing.T) {
	// Arrange
	fault := errors.New("handler failed")
	d, recorder := setup(t, fault)

	// Act
	_, err := mediator.Send(context.Background(), d, tracedQuery{})

	// Assert
	assert.Same(t, fault, err)
	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "handler failed", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestMiddleware_NilTracerUsesGlobalProvider(t *testing.T) {
	reg := mediator.NewRegistry(mediator.LifetimeTransient)
	require.NoError(t, mediator.Register(reg, "", mediator.LifetimeDefault,
		mediator.Instance[tracedQuery, int](mediator.HandlerFunc[tracedQuery, int](
			func(context.Context, tracedQuery) (int, error) { return 2, nil }))))
	d := mediator.NewDispatcher(reg, mediator.WithMiddleware(tracing.Middleware(nil)))

	resp, err := mediator.Send(context.Background(), d, tracedQuery{})

	require.NoError(t, err)
	assert.Equal(t, 2, resp)
}

func TestSetup_DisabledIsNoop(t *testing.T) {
	shutdown, err := tracing.Setup(context.Background(), config.TracingConfig{Enabled: false})

	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
