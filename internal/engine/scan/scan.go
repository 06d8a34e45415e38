// Package scan implements the dependency scanner: the recursive
// dirty-bit computation that decides which edges must re-run.
package scan

import (
	"go.novabuild.dev/nova/internal/domain"
	"go.novabuild.dev/nova/internal/engine/fsstat"
	"go.novabuild.dev/nova/internal/ports"
)

// DepsLoader augments an edge's implicit inputs from a depfile or the
// deps log. Missing (not an error) means the edge must be treated as
// dirty so the next run regenerates the missing information.
type DepsLoader interface {
	LoadDeps(edge *domain.Edge) (missing bool, err error)
}

// Scanner implements recompute_dirty against a concrete disk and build
// log, augmented by a DepsLoader for implicit inputs.
type Scanner struct {
	disk     ports.Disk
	buildLog ports.BuildLog
	deps     DepsLoader
}

// New returns a Scanner. buildLog may be nil, in which case the
// command-hash check and the restat exception are skipped and dirtiness
// rests on mtimes alone.
func New(disk ports.Disk, buildLog ports.BuildLog, deps DepsLoader) *Scanner {
	return &Scanner{disk: disk, buildLog: buildLog, deps: deps}
}

// RecomputeDirtyNode stats a requested target node and, if it has a
// producing edge, recomputes that edge's dirty state. A dirty, ruleless
// source node (missing from disk with nothing to build it) is flagged
// dirty so Plan.AddTarget can report the "missing and no known rule"
// error.
func (s *Scanner) RecomputeDirtyNode(n *domain.Node) error {
	if err := fsstat.Node(s.disk, n); err != nil {
		return err
	}
	if n.InEdge != nil {
		return s.RecomputeDirty(n.InEdge)
	}
	if !n.Exists() {
		n.Dirty = true
	}
	return nil
}

// RecomputeDirty is the depth-first dirty-bit computation described in
// spec §4.4. It is memoized transitively through each input node's own
// stat state: an edge whose every input is already stat'd this build
// does no further recursive work, which keeps a diamond-shaped graph's
// total cost linear in edge count.
func (s *Scanner) RecomputeDirty(edge *domain.Edge) error {
	edge.OutputsReady = true
	edge.DepsMissing = false
	dirty := false

	if s.deps != nil {
		missing, err := s.deps.LoadDeps(edge)
		if err != nil {
			return err
		}
		if missing {
			dirty = true
			edge.DepsMissing = true
		}
	}

	var mostRecentInput int64
	haveMostRecent := false
	updateMostRecent := func(mtime int64) {
		if !haveMostRecent || mtime > mostRecentInput {
			mostRecentInput = mtime
			haveMostRecent = true
		}
	}

	visit := func(n *domain.Node, orderOnly bool) error {
		if !n.StatDone() {
			if err := fsstat.Node(s.disk, n); err != nil {
				return err
			}
			if n.InEdge != nil {
				if err := s.RecomputeDirty(n.InEdge); err != nil {
					return err
				}
			}
		}
		if n.InEdge == nil && !n.Exists() {
			n.Dirty = true
		}
		if n.InEdge != nil && !n.InEdge.OutputsReady {
			edge.OutputsReady = false
		}
		if !orderOnly {
			if n.Dirty {
				dirty = true
			} else {
				updateMostRecent(n.Mtime)
			}
		}
		return nil
	}

	explicitImplicit := edge.ExplicitDeps + edge.ImplicitDeps
	for i, n := range edge.Inputs {
		if err := visit(n, i >= explicitImplicit); err != nil {
			return err
		}
	}
	for _, n := range edge.LoadedDeps {
		if err := visit(n, false); err != nil {
			return err
		}
	}

	if !dirty {
		outDirty, err := s.recomputeOutputsDirty(edge, mostRecentInput, haveMostRecent)
		if err != nil {
			return err
		}
		dirty = outDirty
	}

	for _, o := range edge.Outputs {
		if err := fsstat.Node(s.disk, o); err != nil {
			return err
		}
		if dirty {
			o.Dirty = true
		}
	}

	if dirty && !(edge.Rule.IsPhony() && len(edge.Inputs) == 0 && len(edge.LoadedDeps) == 0) {
		edge.OutputsReady = false
	}

	return nil
}

// RecheckOutputsDirty recomputes whether edge's outputs would still be
// dirty given its *currently* recorded input state, without recursing
// into producer edges. Plan.CleanNode uses this after a restat edge
// proves its inputs are clean, to decide whether edge itself can now be
// demoted from wanted-true without running its command.
func (s *Scanner) RecheckOutputsDirty(edge *domain.Edge) (bool, error) {
	var mostRecentInput int64
	haveMostRecent := false
	for _, n := range edge.Inputs[:edge.ExplicitDeps+edge.ImplicitDeps] {
		if !haveMostRecent || n.Mtime > mostRecentInput {
			mostRecentInput, haveMostRecent = n.Mtime, true
		}
	}
	for _, n := range edge.LoadedDeps {
		if !haveMostRecent || n.Mtime > mostRecentInput {
			mostRecentInput, haveMostRecent = n.Mtime, true
		}
	}
	return s.recomputeOutputsDirty(edge, mostRecentInput, haveMostRecent)
}

func (s *Scanner) recomputeOutputsDirty(edge *domain.Edge, mostRecentInput int64, haveMostRecent bool) (bool, error) {
	if edge.Rule.IsPhony() {
		if len(edge.Inputs) > 0 || len(edge.LoadedDeps) > 0 {
			return false, nil
		}
		for _, o := range edge.Outputs {
			if err := fsstat.Node(s.disk, o); err != nil {
				return false, err
			}
			if !o.Exists() {
				return true, nil
			}
		}
		return false, nil
	}

	for _, o := range edge.Outputs {
		if err := fsstat.Node(s.disk, o); err != nil {
			return false, err
		}
		if !o.Exists() {
			return true, nil
		}
		if haveMostRecent && o.Mtime < mostRecentInput {
			if !s.cleanByRestat(edge, o, mostRecentInput) {
				return true, nil
			}
		}
	}

	if s.buildLog != nil && !edge.IsGenerator() {
		entry, ok := s.buildLog.Lookup(edge.Outputs[0].Path)
		if !ok || entry.CommandHash != domain.HashCommand(edge.HashableCommand()) {
			return true, nil
		}
	}

	return false, nil
}

// cleanByRestat implements the restat exception: an edge's output may
// be older than its most recent input yet still be considered clean if
// a prior restat run observed the output settle at or after that
// input's mtime without rewriting it.
func (s *Scanner) cleanByRestat(edge *domain.Edge, output *domain.Node, mostRecentInput int64) bool {
	if !edge.IsRestat() || s.buildLog == nil {
		return false
	}
	entry, ok := s.buildLog.Lookup(output.Path)
	if !ok {
		return false
	}
	return entry.RestatMtime >= mostRecentInput
}
