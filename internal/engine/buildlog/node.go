package buildlog

import (
	"context"

	"github.com/grindlemire/graft"
	"go.novabuild.dev/nova/internal/ports"
)

// NodeID identifies the build log's graft registration.
const NodeID graft.ID = "engine.buildlog"

// DefaultPath is the conventional build log location, mirroring
// ninja's ".ninja_log".
const DefaultPath = ".nova_log"

func init() {
	graft.Register(graft.Node[ports.BuildLog]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.BuildLog, error) {
			l, err := Load(DefaultPath)
			if err != nil {
				return nil, err
			}
			if err := l.OpenForWrite(); err != nil {
				return nil, err
			}
			return l, nil
		},
	})
}
