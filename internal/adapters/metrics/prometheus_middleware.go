package metrics

import (
	"context"
	"time"

	"github.com/andrescamacho/simplemediator-go/internal/application/mediator"
)

// PrometheusMiddleware records the duration and outcome of every dispatch.
// Requests are labelled with their short type name, e.g. "ListItemsQuery".
func PrometheusMiddleware(collector *DispatchMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request any, next mediator.Next) (any, error) {
		// Skip metrics if collector is nil (metrics disabled)
		if collector == nil {
			return next(ctx, request)
		}

		start := time.Now()
		response, err := next(ctx, request)

		collector.RecordDispatch(mediator.RequestName(request), time.Since(start).Seconds(), err == nil)
		return response, err
	}
}
