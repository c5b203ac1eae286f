// Package tracing provides OpenTelemetry tracing for the tool server.
package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the global tracer for the newsletter-press application.
var tracer = otel.Tracer("newsletter-press")

// GetTracer returns the global tracer for creating spans.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "aggregate.fetch_all")
//	defer span.End()
func GetTracer() trace.Tracer {
	return tracer
}
