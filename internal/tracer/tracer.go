package tracer

import "context"

// Tracer is the span-creation port used by services. Production wires the
// OpenTelemetry implementation; tests and minimal deployments use the noop.
type Tracer interface {
	Start(ctx context.Context, spanName string) (context.Context, Span)
}

// Span is the minimal span surface services need.
type Span interface {
	End()
	SetAttribute(key string, value any)
	RecordError(err error)
}
