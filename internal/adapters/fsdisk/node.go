package fsdisk

import (
	"context"

	"github.com/grindlemire/graft"
	"go.novabuild.dev/nova/internal/ports"
)

// NodeID identifies the disk adapter's graft registration.
const NodeID graft.ID = "adapter.fsdisk"

func init() {
	graft.Register(graft.Node[ports.Disk]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Disk, error) {
			return New(), nil
		},
	})
}
