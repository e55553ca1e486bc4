package metrics_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/simplemediator-go/internal/adapters/metrics"
	"github.com/andrescamacho/simplemediator-go/internal/application/mediator"
)

type probeQuery struct {
	mediator.Returns[string]
}

func newDispatcher(t *testing.T, fault error, mw mediator.Middleware) *mediator.Dispatcher {
	t.Helper()
	reg := mediator.NewRegistry(mediator.LifetimeTransient)
	require.NoError(t, mediator.Register(reg, "", mediator.LifetimeDefault,
		mediator.Instance[probeQuery, string](mediator.HandlerFunc[probeQuery, string](
			func(context.Context, probeQuery) (string, error) { return "ok", fault }))))
	return mediator.NewDispatcher(reg, mediator.WithMiddleware(mw))
}

func TestPrometheusMiddleware_RecordsDispatches(t *testing.T) {
	// Arrange
	reg := metrics.NewRegistry()
	collector := metrics.NewDispatchMetricsCollector()
	require.NoError(t, collector.Register(reg))
	d := newDispatcher(t, nil, metrics.PrometheusMiddleware(collector))

	// Act
	for i := 0; i < 3; i++ {
		_, err := mediator.Send(context.Background(), d, probeQuery{})
		require.NoError(t, err)
	}

	// Assert
	expected := `
# HELP simpleapi_mediator_dispatches_total Total number of dispatched requests by type and status
# TYPE simpleapi_mediator_dispatches_total counter
simpleapi_mediator_dispatches_total{request="probeQuery",status="success"} 3
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "simpleapi_mediator_dispatches_total"))
}

func TestPrometheusMiddleware_RecordsFailuresAndPassesErrorThrough(t *testing.T) {
	// Arrange
	fault := errors.New("boom")
	reg := metrics.NewRegistry()
	collector := metrics.NewDispatchMetricsCollector()
	require.NoError(t, collector.Register(reg))
	d := newDispatcher(t, fault, metrics.PrometheusMiddleware(collector))

	// Act
	resp, err := mediator.Send(context.Background(), d, probeQuery{})

	// Assert
	assert.Same(t, fault, err)
	assert.Equal(t, "ok", resp)
	count, gatherErr := testutil.GatherAndCount(reg, "simpleapi_mediator_dispatch_duration_seconds")
	require.NoError(t, gatherErr)
	assert.Equal(t, 1, count)
}

func TestPrometheusMiddleware_NilCollector(t *testing.T) {
	d := newDispatcher(t, nil, metrics.PrometheusMiddleware(nil))

	resp, err := mediator.Send(context.Background(), d, probeQuery{})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
}

func TestHTTPMetricsCollector_RecordRequest(t *testing.T) {
	reg := metrics.NewRegistry()
	collector := metrics.NewHTTPMetricsCollector()
	require.NoError(t, collector.Register(reg))

	collector.RecordRequest(http.MethodGet, "/api/items", http.StatusOK, 0.01)
	collector.RecordRateLimited(http.MethodPost, "/api/items")

	expected := `
# HELP simpleapi_http_requests_total Total number of HTTP requests by method, route, and status code
# TYPE simpleapi_http_requests_total counter
simpleapi_http_requests_total{method="GET",route="/api/items",status_code="200"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "simpleapi_http_requests_total"))
}

func TestRegister_Twice(t *testing.T) {
	reg := metrics.NewRegistry()
	collector := metrics.NewDispatchMetricsCollector()
	require.NoError(t, collector.Register(reg))

	assert.Error(t, collector.Register(reg))
	assert.NoError(t, collector.Register(nil))
}

func TestHandler_ServesRegistry(t *testing.T) {
	reg := metrics.NewRegistry()
	collector := metrics.NewHTTPMetricsCollector()
	require.NoError(t, collector.Register(reg))
	collector.RecordRequest(http.MethodGet, "/ping", http.StatusOK, 0.001)

	rec := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "simpleapi_http_requests_total")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
