package scan_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.novabuild.dev/nova/internal/domain"
	"go.novabuild.dev/nova/internal/engine/scan"
	"go.novabuild.dev/nova/internal/ports"
	"go.novabuild.dev/nova/internal/ports/mocks"
	"go.uber.org/mock/gomock"
)

// diskState backs a gomock.MockDisk with the in-memory mtime table the
// scanner tests need, letting tests set up mtimes without touching the
// real filesystem.
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

// newBuildLogMock backs a gomock.MockBuildLog with seed, copied so the
// caller's literal stays untouched by Record calls the scanner itself
// never makes but a future test might.
func newBuildLogMock(t *testing.T, seed map[string]ports.BuildLogEntry) *mocks.MockBuildLog {
	t.Helper()
	entries := make(map[string]ports.BuildLogEntry, len(seed))
	for k, v := range seed {
		entries[k] = v
	}
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

// noDeps augments nothing: every edge has no depfile/deps attribute.
type noDeps struct{}

func (noDeps) LoadDeps(*domain.Edge) (bool, error) { return false, nil }

func buildChainGraph(disk *diskState) (g *domain.Graph, inNode, outNode *domain.Node, edge *domain.Edge) {
	g = domain.NewGraph()
	rule := domain.NewRule("cat")
	rule.AddBinding("command", mustEvalString("cat $in > $out"))

	inNode = g.GetOrCreateNode("in", 0)
	outNode = g.GetOrCreateNode("out", 0)

	edge = domain.NewEdge(rule, nil)
	edge.AddInput(inNode, domain.InputExplicit)
	edge.AddOutput(outNode, true)
	g.AddEdge(edge)

	disk.set("in", 10)
	return g, inNode, outNode, edge
}

func mustEvalString(s string) domain.EvalString {
	return domain.NewEvalString(s)
}

func TestScan_MissingOutputIsDirty(t *testing.T) {
	disk, diskSt := newDiskMock(t)
	_, _, out, edge := buildChainGraph(diskSt)

	s := scan.New(disk, nil, noDeps{})
	require.NoError(t, s.RecomputeDirty(edge))
	assert.True(t, out.Dirty, "missing output should be dirty")
}

func TestScan_UpToDateOutputIsClean(t *testing.T) {
	disk, diskSt := newDiskMock(t)
	_, _, out, edge := buildChainGraph(diskSt)
	diskSt.set("out", 20) // newer than "in" (mtime 10)

	s := scan.New(disk, nil, noDeps{})
	require.NoError(t, s.RecomputeDirty(edge))
	assert.False(t, out.Dirty, "an output newer than its input with no build log should stay clean")
}

func TestScan_CommandChangeMarksDirty(t *testing.T) {
	disk, diskSt := newDiskMock(t)
	_, _, out, edge := buildChainGraph(diskSt)
	diskSt.set("out", 20)

	log := newBuildLogMock(t, map[string]ports.BuildLogEntry{
		"out": {Output: "out", CommandHash: domain.HashCommand(edge.HashableCommand()) + 1},
	})

	s := scan.New(disk, log, noDeps{})
	require.NoError(t, s.RecomputeDirty(edge))
	assert.True(t, out.Dirty, "a mismatched stored command hash should mark the edge dirty")
}

func TestScan_OrderOnlyChangeDoesNotDirty(t *testing.T) {
	disk, diskSt := newDiskMock(t)
	g := domain.NewGraph()
	rule := domain.NewRule("cat")
	rule.AddBinding("command", mustEvalString("cat $in > $out"))

	in := g.GetOrCreateNode("in", 0)
	orderOnly := g.GetOrCreateNode("order", 0)
	out := g.GetOrCreateNode("out", 0)
	diskSt.set("in", 1)
	diskSt.set("order", 999) // much newer than the output
	diskSt.set("out", 2)

	edge := domain.NewEdge(rule, nil)
	edge.AddInput(in, domain.InputExplicit)
	edge.AddInput(orderOnly, domain.InputOrderOnly)
	edge.AddOutput(out, true)
	g.AddEdge(edge)

	log := newBuildLogMock(t, map[string]ports.BuildLogEntry{
		"out": {Output: "out", CommandHash: domain.HashCommand(edge.HashableCommand())},
	})

	s := scan.New(disk, log, noDeps{})
	require.NoError(t, s.RecomputeDirty(edge))
	assert.False(t, out.Dirty, "an order-only input's newer mtime must not dirty the edge")
}

func TestScan_RestatExceptionSuppressesCascade(t *testing.T) {
	disk, diskSt := newDiskMock(t)
	g := domain.NewGraph()
	rule := domain.NewRule("touch")
	rule.AddBinding("command", mustEvalString("touch $out"))
	rule.AddBinding("restat", mustEvalString("1"))

	in := g.GetOrCreateNode("in", 0)
	out := g.GetOrCreateNode("out", 0)
	diskSt.set("in", 20) // newer than the output
	diskSt.set("out", 10)

	edge := domain.NewEdge(rule, nil)
	edge.AddInput(in, domain.InputExplicit)
	edge.AddOutput(out, true)
	g.AddEdge(edge)

	// A prior restat run already observed the output settle at or
	// after the input's mtime without rewriting it.
	log := newBuildLogMock(t, map[string]ports.BuildLogEntry{
		"out": {Output: "out", CommandHash: domain.HashCommand(edge.HashableCommand()), RestatMtime: 20},
	})

	s := scan.New(disk, log, noDeps{})
	require.NoError(t, s.RecomputeDirty(edge))
	assert.False(t, out.Dirty, "a restat rule with a prior restat_mtime covering the input should stay clean")
}

func TestScan_IdempotentAcrossRepeatedCalls(t *testing.T) {
	disk, diskSt := newDiskMock(t)
	_, _, out, edge := buildChainGraph(diskSt)
	diskSt.set("out", 20)

	s := scan.New(disk, nil, noDeps{})
	require.NoError(t, s.RecomputeDirty(edge), "first RecomputeDirty")
	first := out.Dirty
	require.NoError(t, s.RecomputeDirty(edge), "second RecomputeDirty")
	assert.Equal(t, first, out.Dirty, "two consecutive scans with no disk change should agree")
}
