package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimd "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/simplemediator-go/internal/adapters/metrics"
	"github.com/andrescamacho/simplemediator-go/internal/application/common"
	"github.com/andrescamacho/simplemediator-go/internal/application/mediator"
	"github.com/andrescamacho/simplemediator-go/internal/infrastructure/config"
)

// accessLog logs one line per request and records HTTP metrics
func accessLog(logger *zap.Logger, collector *metrics.HTTPMetricsCollector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimd.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			lat := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := routePattern(r)

			logger.Info("http request",
				zap.String("requestId", chimd.GetReqID(r.Context())),
				zap.String("httpMethod", r.Method),
				zap.String("uri", r.URL.Path),
				zap.String("route", route),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.String("remoteAddr", r.RemoteAddr),
				zap.Duration("lat", lat),
			)
			if collector != nil {
				collector.RecordRequest(r.Method, route, status, lat.Seconds())
			}
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// requestScope gives each HTTP request its own mediator scope and request logger.
// Scoped handlers therefore live exactly as long as the request.
func requestScope(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			reqLogger := logger.With(zap.String("requestId", chimd.GetReqID(ctx)))
			ctx = common.WithLogger(ctx, reqLogger)

			scope := mediator.NewScope()
			defer func() {
				if err := scope.Close(); err != nil {
					reqLogger.Warn("failed to close request scope", zap.Error(err))
				}
			}()
			ctx = mediator.WithScope(ctx, scope)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// rateLimit rejects requests beyond the limiter's budget with 429
func rateLimit(limiter *rate.Limiter, collector *metrics.HTTPMetricsCollector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				if collector != nil {
					collector.RecordRateLimited(r.Method, r.URL.Path)
				}
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireBearer enforces a valid HS256 bearer token when auth is enabled
func requireBearer(auth config.AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !auth.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			subject, err := VerifyToken(auth, raw)
			if err != nil {
				common.LoggerFromContext(r.Context()).Info("rejected bearer token", zap.Error(err))
				writeError(w, http.StatusUnauthorized, "invalid bearer token")
				return
			}
			ctx := common.WithLogger(r.Context(),
				common.LoggerFromContext(r.Context()).With(zap.String("subject", subject)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
