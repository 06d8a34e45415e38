package shell

import (
	"context"
	"runtime"

	"github.com/grindlemire/graft"
	"go.novabuild.dev/nova/internal/ports"
)

// NodeID identifies the shell executor adapter's graft registration.
const NodeID graft.ID = "adapter.shell"

func init() {
	graft.Register(graft.Node[ports.CommandRunner]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.CommandRunner, error) {
			return New(runtime.NumCPU()), nil
		},
	})
}
