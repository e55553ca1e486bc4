package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DispatchMetricsCollector records mediator dispatch metrics
type DispatchMetricsCollector struct {
	dispatchDuration *prometheus.HistogramVec
	dispatchesTotal  *prometheus.CounterVec
}

// NewDispatchMetricsCollector creates a new dispatch metrics collector
func NewDispatchMetricsCollector() *DispatchMetricsCollector {
	return &DispatchMetricsCollector{
		dispatchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "mediator",
				Name:      "dispatch_duration_seconds",
				Help:      "Request dispatch duration distribution",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"request", "status"},
		),

		dispatchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "mediator",
				Name:      "dispatches_total",
				Help:      "Total number of dispatched requests by type and status",
			},
			[]string{"request", "status"},
		),
	}
}

// Register registers the dispatch metrics with reg
func (c *DispatchMetricsCollector) Register(reg prometheus.Registerer) error {
	return register(reg, c.dispatchDuration, c.dispatchesTotal)
}

// RecordDispatch records one dispatch
func (c *DispatchMetricsCollector) RecordDispatch(requestName string, duration float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}

	c.dispatchDuration.WithLabelValues(requestName, status).Observe(duration)
	c.dispatchesTotal.WithLabelValues(requestName, status).Inc()
}
