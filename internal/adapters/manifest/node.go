package manifest

import (
	"context"

	"github.com/grindlemire/graft"
	"go.novabuild.dev/nova/internal/ports"
)

// NodeID identifies the manifest loader adapter's graft registration.
const NodeID graft.ID = "adapter.manifest"

func init() {
	graft.Register(graft.Node[ports.ManifestLoader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ManifestLoader, error) {
			return New(), nil
		},
	})
}
