package ports

import (
	"context"
	"io"
)

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer is the entry point for creating spans around build work.
type Tracer interface {
	// Start begins a new span, typically one per dispatched edge.
	Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)
	// EmitPlan records the set of edge outputs a build planned to run,
	// attached to whatever span ctx carries.
	EmitPlan(ctx context.Context, outputs []string)
}

// Span represents one edge's command execution.
type Span interface {
	io.Writer
	// End completes the span.
	End()
	// RecordError records the command's failure for the span.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}

// SpanConfig holds configuration for a starting span.
type SpanConfig struct{}

// SpanOption is a functional option for configuring a span.
type SpanOption func(*SpanConfig)
