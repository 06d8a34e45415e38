package status

import (
	"context"

	"github.com/grindlemire/graft"
	"go.novabuild.dev/nova/internal/ports"
)

// NodeID identifies the status printer adapter's graft registration.
const NodeID graft.ID = "adapter.status"

func init() {
	graft.Register(graft.Node[ports.StatusPrinter]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.StatusPrinter, error) {
			return New(), nil
		},
	})
}
