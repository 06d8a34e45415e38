package builder_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.novabuild.dev/nova/internal/domain"
	"go.novabuild.dev/nova/internal/engine/builder"
	"go.novabuild.dev/nova/internal/engine/plan"
	"go.novabuild.dev/nova/internal/engine/scan"
	"go.novabuild.dev/nova/internal/ports"
	"go.novabuild.dev/nova/internal/ports/mocks"
	"go.uber.org/mock/gomock"
)

// diskState backs a gomock.MockDisk with the in-memory mtime table the
// scanner/builder tests need, keeping the stateful simulation logic
// that used to live on a hand-rolled fakeDisk.
type diskState struct{ mtimes map[string]int64 }

func newDiskMock(t *testing.T) (*mocks.MockDisk, *diskState) {
	t.Helper()
	st := &diskState{mtimes: make(map[string]int64)}
	disk := mocks.NewMockDisk(gomock.NewController(t))
	disk.EXPECT().Stat(gomock.Any()).DoAndReturn(func(path string) (ports.DiskStat, error) {
		mtime, ok := st.mtimes[path]
		if !ok {
			return ports.DiskStat{}, nil
		}
		return ports.DiskStat{Exists: true, Mtime: time.Unix(0, mtime)}, nil
	}).AnyTimes()
	disk.EXPECT().ReadFile(gomock.Any()).Return(nil, nil).AnyTimes()
	disk.EXPECT().WriteFile(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	disk.EXPECT().MkdirAll(gomock.Any()).Return(nil).AnyTimes()
	disk.EXPECT().Remove(gomock.Any()).Return(nil).AnyTimes()
	return disk, st
}

func (st *diskState) set(path string, mtime int64) { st.mtimes[path] = mtime }

// newBuildLogMock backs a gomock.MockBuildLog with an in-memory entry
// table, keyed by output path like the real build log.
func newBuildLogMock(t *testing.T) *mocks.MockBuildLog {
	t.Helper()
	entries := make(map[string]ports.BuildLogEntry)
	log := mocks.NewMockBuildLog(gomock.NewController(t))
	log.EXPECT().Lookup(gomock.Any()).DoAndReturn(func(output string) (ports.BuildLogEntry, bool) {
		e, ok := entries[output]
		return e, ok
	}).AnyTimes()
	log.EXPECT().Record(gomock.Any()).DoAndReturn(func(entry ports.BuildLogEntry) error {
		entries[entry.Output] = entry
		return nil
	}).AnyTimes()
	log.EXPECT().Close().Return(nil).AnyTimes()
	return log
}

type noDeps struct{}

func (noDeps) LoadDeps(*domain.Edge) (bool, error) { return false, nil }

// runnerState backs a gomock.MockCommandRunner, collapsing the real
// executor's one-goroutine-per-command shape into something
// deterministic: StartCommand queues a result synchronously instead of
// running anything, WaitForCommand dequeues it.
type runnerState struct {
	pending  []*ports.CommandResult
	statuses map[*domain.Edge]ports.ExitStatus
}

func newRunnerMock(t *testing.T) (*mocks.MockCommandRunner, *runnerState) {
	t.Helper()
	st := &runnerState{statuses: make(map[*domain.Edge]ports.ExitStatus)}
	runner := mocks.NewMockCommandRunner(gomock.NewController(t))
	runner.EXPECT().CanRunMore().Return(true).AnyTimes()
	runner.EXPECT().StartCommand(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, edge *domain.Edge, _ bool) error {
			status, ok := st.statuses[edge]
			if !ok {
				status = ports.ExitSuccess
			}
			st.pending = append(st.pending, &ports.CommandResult{Edge: edge, Status: status})
			return nil
		}).AnyTimes()
	runner.EXPECT().WaitForCommand().DoAndReturn(func() (*ports.CommandResult, bool) {
		if len(st.pending) == 0 {
			return nil, false
		}
		res := st.pending[0]
		st.pending = st.pending[1:]
		return res, true
	}).AnyTimes()
	runner.EXPECT().Abort().AnyTimes()
	return runner, st
}

func (st *runnerState) fail(e *domain.Edge) { st.statuses[e] = ports.ExitFailure }

type fakeVertex struct{}

func (fakeVertex) Stdout() io.Writer { return io.Discard }
func (fakeVertex) Stderr() io.Writer { return io.Discard }
func (fakeVertex) Complete(error)    {}
func (fakeVertex) Cached()           {}

type fakeStatus struct{ built, cached, failed int }

func (s *fakeStatus) Vertex(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, fakeVertex{}
}
func (s *fakeStatus) Summary(built, cached, failed int) {
	s.built, s.cached, s.failed = built, cached, failed
}

type fakeClock struct{ t int64 }

func (c *fakeClock) NowMillis() int64 { c.t++; return c.t }

func setup(t *testing.T) (*domain.Graph, *mocks.MockDisk, *diskState, *mocks.MockBuildLog, *mocks.MockCommandRunner, *runnerState, *fakeStatus) {
	t.Helper()
	disk, diskSt := newDiskMock(t)
	runner, runnerSt := newRunnerMock(t)
	return domain.NewGraph(), disk, diskSt, newBuildLogMock(t), runner, runnerSt, &fakeStatus{}
}

func TestBuilder_SuccessRecordsBuildLog(t *testing.T) {
	g, disk, diskSt, log, runner, _, status := setup(t)
	rule := domain.NewRule("cat")
	rule.AddBinding("command", domain.NewEvalString("cat $in > $out"))

	in := g.GetOrCreateNode("in", 0)
	out := g.GetOrCreateNode("out", 0)
	diskSt.set("in", 1)

	edge := domain.NewEdge(rule, nil)
	edge.AddInput(in, domain.InputExplicit)
	edge.AddOutput(out, true)
	g.AddEdge(edge)

	scanner := scan.New(disk, nil, noDeps{})
	p := plan.New(scanner)
	require.NoError(t, scanner.RecomputeDirtyNode(out))
	require.NoError(t, p.AddTarget(out))

	b := builder.New(builder.Config{
		Graph: g, Plan: p, Scanner: scanner, Runner: runner, Disk: disk,
		BuildLog: log, Status: status, Clock: &fakeClock{},
	})

	result, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Built)
	assert.Equal(t, 0, result.Failed)
	_, ok := log.Lookup("out")
	assert.True(t, ok, "expected a build log entry for out")
	assert.False(t, p.MoreToDo(), "plan should have converged")
}

func TestBuilder_FailureBlocksDependents(t *testing.T) {
	g, disk, diskSt, log, runner, runnerSt, status := setup(t)
	rule := domain.NewRule("cat")
	rule.AddBinding("command", domain.NewEvalString("cat $in > $out"))

	in := g.GetOrCreateNode("in", 0)
	mid := g.GetOrCreateNode("mid", 0)
	out := g.GetOrCreateNode("out", 0)
	diskSt.set("in", 1)

	e1 := domain.NewEdge(rule, nil)
	e1.AddInput(in, domain.InputExplicit)
	e1.AddOutput(mid, true)
	g.AddEdge(e1)
	runnerSt.fail(e1)

	e2 := domain.NewEdge(rule, nil)
	e2.AddInput(mid, domain.InputExplicit)
	e2.AddOutput(out, true)
	g.AddEdge(e2)

	scanner := scan.New(disk, nil, noDeps{})
	p := plan.New(scanner)
	require.NoError(t, scanner.RecomputeDirtyNode(out))
	require.NoError(t, p.AddTarget(out))

	b := builder.New(builder.Config{
		Graph: g, Plan: p, Scanner: scanner, Runner: runner, Disk: disk,
		BuildLog: log, Status: status, Clock: &fakeClock{}, FailuresRemaining: 1,
	})

	result, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 0, result.Built, "the edge producing out must never have run")
}
