// Package rest exposes the item catalog over HTTP. Every endpoint sends one
// request through the mediator and maps the outcome to a status code.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimd "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/simplemediator-go/internal/adapters/metrics"
	"github.com/andrescamacho/simplemediator-go/internal/application/mediator"
	"github.com/andrescamacho/simplemediator-go/internal/infrastructure/config"
)

// Options configures the router
type Options struct {
	Sender mediator.Sender
	Logger *zap.Logger

	Auth      config.AuthConfig
	RateLimit config.RateLimitConfig

	// HTTPMetrics is nil when metrics are disabled
	HTTPMetrics *metrics.HTTPMetricsCollector
	// MetricsHandler is mounted at MetricsPath when non-nil
	MetricsHandler http.Handler
	MetricsPath    string
}

// NewRouter builds the chi router serving the item API
func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &itemHandlers{sender: opts.Sender, logger: logger}

	r := chi.NewRouter()
	r.Use(chimd.RequestID)
	r.Use(chimd.RealIP)
	r.Use(accessLog(logger, opts.HTTPMetrics))
	r.Use(chimd.Recoverer)
	r.Use(chimd.Heartbeat("/ping"))

	if opts.MetricsHandler != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, opts.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		if opts.RateLimit.Enabled {
			limiter := rate.NewLimiter(rate.Limit(opts.RateLimit.Requests), opts.RateLimit.Burst)
			r.Use(rateLimit(limiter, opts.HTTPMetrics))
		}
		r.Use(requestScope(logger))

		r.Get("/items", h.listItems)
		r.With(requireBearer(opts.Auth)).Post("/items", h.addItem)
	})

	return r
}
