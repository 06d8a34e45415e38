package ports

//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks

import (
	"context"
	"io"

	"go.novabuild.dev/nova/internal/domain"
)

// ExitStatus classifies how a dispatched command finished.
type ExitStatus int

const (
	ExitSuccess ExitStatus = iota
	ExitFailure
	ExitInterrupted
)

// CommandResult is delivered once per dispatched edge, in completion
// order (not dispatch order).
type CommandResult struct {
	Edge   *domain.Edge
	Status ExitStatus
	Output []byte
	Err    error
}

// CommandRunner dispatches edge commands and reports their results
// asynchronously. The builder is the only caller; it is the single
// concurrency boundary in the engine, matching the upstream design
// where everything except command execution is single-threaded.
type CommandRunner interface {
	// CanRunMore reports whether the runner has spare capacity to start
	// another command right now (independent of pool admission, which
	// the plan enforces separately).
	CanRunMore() bool

	// StartCommand begins running edge's command asynchronously. console
	// reports whether edge holds the console pool, in which case the
	// runner should connect the command directly to the build's own
	// stdout/stderr (via a PTY) instead of capturing output.
	StartCommand(ctx context.Context, edge *domain.Edge, console bool) error

	// WaitForCommand blocks until at least one dispatched command
	// finishes, returning its result. Returns (nil, false) once no
	// commands remain outstanding.
	WaitForCommand() (*CommandResult, bool)

	// Abort requests that every outstanding command be interrupted, used
	// when the build is cancelled or a failure budget is exhausted.
	Abort()
}

// Vertex is a single unit of build output the status printer tracks:
// one edge's stdout/stderr streams plus a terminal completion call.
type Vertex interface {
	Stdout() io.Writer
	Stderr() io.Writer
	// Complete marks the vertex finished, err nil on success.
	Complete(err error)
	// Cached marks the vertex as skipped because its outputs were
	// already up to date.
	Cached()
}

// StatusPrinter renders build progress to the user. Vertex is called
// once per edge the builder actually decides to run.
type StatusPrinter interface {
	Vertex(ctx context.Context, name string) (context.Context, Vertex)
	// Summary reports the final counts once the build loop exits.
	Summary(built, cached, failed int)
}
