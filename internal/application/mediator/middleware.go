package mediator

import (
	"context"
	"reflect"
	"strings"
	"time"

	"go.uber.org/zap"
)

// LoggingMiddleware logs every dispatch at debug level, and failures at warn level
func LoggingMiddleware(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, request any, next Next) (any, error) {
		start := time.Now()
		response, err := next(ctx, request)

		fields := []zap.Field{
			zap.String("request", RequestName(request)),
			zap.Duration("lat", time.Since(start)),
		}
		if err != nil {
			logger.Warn("request failed", append(fields, zap.Error(err))...)
		} else {
			logger.Debug("request handled", fields...)
		}
		return response, err
	}
}

// RequestName returns a short name for a request, without package or pointer prefix.
// Examples:
//   - "*queries.ListItemsQuery" → "ListItemsQuery"
//   - "commands.AddItemCommand" → "AddItemCommand"
func RequestName(request any) string {
	if request == nil {
		return "UnknownRequest"
	}
	return typeName(reflect.TypeOf(request))
}

func typeName(t reflect.Type) string {
	name := strings.TrimLeft(t.String(), "*")
	if i := strings.LastIndex(name, "."); i >= 0 && !strings.Contains(name, "[") {
		return name[i+1:]
	}
	return name
}
