package telemetry

import (
	"context"
	"os"
	"strconv"

	"github.com/grindlemire/graft"
	"go.novabuild.dev/nova/internal/ports"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// NodeID identifies the telemetry adapter's graft registration.
const NodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Tracer, error) {
			if enabled, _ := strconv.ParseBool(os.Getenv("NOVA_TRACE")); enabled {
				// A bare SDK provider with no span processor: spans are
				// sampled and recorded in-process but export nowhere,
				// since nova has no configured OTLP collector. This is
				// enough for the spans started by App.Build and the
				// builder to record EmitPlan events and attributes.
				otel.SetTracerProvider(sdktrace.NewTracerProvider())
				return NewOTelTracer("nova"), nil
			}
			return NewNoOpTracer(), nil
		},
	})
}
