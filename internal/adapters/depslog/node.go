package depslog

import (
	"context"

	"github.com/grindlemire/graft"
	"go.novabuild.dev/nova/internal/ports"
)

// NodeID identifies the deps log adapter's graft registration.
const NodeID graft.ID = "adapter.depslog"

// DefaultPath is the conventional deps log location, mirroring ninja's
// ".ninja_deps".
const DefaultPath = ".nova_deps"

func init() {
	graft.Register(graft.Node[ports.DepsLog]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.DepsLog, error) {
			return Load(DefaultPath)
		},
	})
}
