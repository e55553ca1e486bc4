// Package tracing opens OpenTelemetry spans around mediator dispatches
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/andrescamacho/simplemediator-go/internal/application/mediator"
)

// InstrumentationName identifies spans created by this package
const InstrumentationName = "github.com/andrescamacho/simplemediator-go/mediator"

// Middleware opens a span named "mediator.send <RequestName>" around every dispatch.
// A nil tracer uses the global provider, which is a no-op unless one was installed.
func Middleware(tracer trace.Tracer) mediator.Middleware {
	if tracer == nil {
		tracer = otel.Tracer(InstrumentationName)
	}
	return func(ctx context.Context, request any, next mediator.Next) (any, error) {
		name := mediator.RequestName(request)
		ctx, span := tracer.Start(ctx, "mediator.send "+name,
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attribute.String("mediator.request", name)),
		)
		defer span.End()

		response, err := next(ctx, request)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return response, err
	}
}
