package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.novabuild.dev/nova/internal/ports"
)

// NodeID identifies the config adapter's graft registration.
const NodeID graft.ID = "adapter.config"

func init() {
	graft.Register(graft.Node[ports.Config]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Config, error) {
			return FileLoader{}.Load(".")
		},
	})
}
