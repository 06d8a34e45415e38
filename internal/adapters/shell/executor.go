// Package shell implements ports.CommandRunner by running each edge's
// command as an os/exec child, optionally behind a PTY when the edge
// holds the console pool.
package shell

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
	"go.novabuild.dev/nova/internal/domain"
	"go.novabuild.dev/nova/internal/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/semaphore"
)

// Executor runs edge commands through a shell, capping concurrency with
// a weighted semaphore and reporting completions through a buffered
// channel fed by one goroutine per started command — the same
// run-loop shape the project's errgroup-based scheduler uses,
// generalized so the caller's wait loop (Builder) stays a single
// blocking call.
type Executor struct {
	maxJobs int
	sem     *semaphore.Weighted // nil means unbounded

	mu        sync.Mutex
	cancels   map[*domain.Edge]context.CancelFunc
	resultsCh chan *ports.CommandResult
	aborted   bool
}

// New returns an Executor that runs at most maxJobs commands
// concurrently. maxJobs <= 0 means unbounded.
func New(maxJobs int) *Executor {
	e := &Executor{
		maxJobs:   maxJobs,
		cancels:   make(map[*domain.Edge]context.CancelFunc),
		resultsCh: make(chan *ports.CommandResult, 64),
	}
	if maxJobs > 0 {
		e.sem = semaphore.NewWeighted(int64(maxJobs))
	}
	return e
}

// CanRunMore reports whether the executor has spare concurrency slots.
// It peeks the semaphore rather than holding it: the caller is on the
// single builder goroutine, so there's no race between this check and
// the StartCommand that follows it.
func (e *Executor) CanRunMore() bool {
	if e.sem == nil {
		return true
	}
	if e.sem.TryAcquire(1) {
		e.sem.Release(1)
		return true
	}
	return false
}

// StartCommand launches edge's expanded command asynchronously. When
// console is true the child runs behind a PTY connected to the
// process's own stdout/stderr, giving it exclusive access to the
// terminal the way the builtin console pool requires; otherwise output
// is captured and buffered into the CommandResult.
func (e *Executor) StartCommand(ctx context.Context, edge *domain.Edge, console bool) error {
	command := edge.Binding("command")
	if command == "" {
		return nil
	}

	if e.sem != nil && !e.sem.TryAcquire(1) {
		return zerr.New("no spare concurrency slot; caller must check CanRunMore first")
	}

	cmdCtx, cancel := context.WithCancel(ctx)

	e.mu.Lock()
	e.cancels[edge] = cancel
	e.mu.Unlock()

	go e.run(cmdCtx, cancel, edge, command, console)
	return nil
}

func (e *Executor) run(ctx context.Context, cancel context.CancelFunc, edge *domain.Edge, command string, console bool) {
	defer cancel()

	var result ports.CommandResult
	result.Edge = edge

	cmd := exec.CommandContext(ctx, "sh", "-c", command) //nolint:gosec // command is manifest-authored, not attacker input
	cmd.Dir = ""

	if console {
		result.Err = e.runConsole(cmd)
	} else {
		var buf bytes.Buffer
		cmd.Stdout = &buf
		cmd.Stderr = &buf
		result.Err = cmd.Run()
		result.Output = buf.Bytes()
	}

	result.Status = classifyResult(ctx, result.Err)

	e.mu.Lock()
	delete(e.cancels, edge)
	aborted := e.aborted
	e.mu.Unlock()

	if e.sem != nil {
		e.sem.Release(1)
	}

	if aborted && result.Status == ports.ExitFailure {
		result.Status = ports.ExitInterrupted
	}

	e.resultsCh <- &result
}

// runConsole connects cmd to a PTY and copies its output directly to
// the build's own stdout, so console-pool tools that detect a TTY
// (e.g. for colorized output) behave as if run interactively.
func (e *Executor) runConsole(cmd *exec.Cmd) error {
	f, err := pty.Start(cmd)
	if err != nil {
		return zerr.Wrap(err, "failed to start pty")
	}
	defer f.Close()

	copyDone := make(chan struct{})
	go func() {
		_, _ = io.Copy(os.Stdout, f)
		close(copyDone)
	}()

	err = cmd.Wait()
	<-copyDone
	return err
}

func classifyResult(ctx context.Context, err error) ports.ExitStatus {
	if err == nil {
		return ports.ExitSuccess
	}
	if ctx.Err() != nil {
		return ports.ExitInterrupted
	}
	return ports.ExitFailure
}

// WaitForCommand blocks until at least one command finishes, or
// returns (nil, false) once none remain outstanding.
func (e *Executor) WaitForCommand() (*ports.CommandResult, bool) {
	e.mu.Lock()
	none := len(e.cancels) == 0 && len(e.resultsCh) == 0
	e.mu.Unlock()
	if none {
		return nil, false
	}
	res, ok := <-e.resultsCh
	return res, ok
}

// Abort cancels every outstanding command's context, which kills the
// command's sh process; processes it spawned are not signalled.
func (e *Executor) Abort() {
	e.mu.Lock()
	e.aborted = true
	cancels := make([]context.CancelFunc, 0, len(e.cancels))
	for _, c := range e.cancels {
		cancels = append(cancels, c)
	}
	e.mu.Unlock()

	for _, c := range cancels {
		c()
	}
}
