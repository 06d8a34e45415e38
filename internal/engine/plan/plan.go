// Package plan implements the want-map / ready-set state machine that
// tracks which edges the scanner marked dirty, admits them against
// pool capacity, and converges as commands complete.
package plan

import (
	"fmt"

	"go.novabuild.dev/nova/internal/domain"
	"go.trai.ch/zerr"
)

// DirtyRechecker recomputes an edge's outputs-dirty verdict against its
// currently recorded input state, without recursing into producers.
// internal/engine/scan.Scanner satisfies this structurally.
type DirtyRechecker interface {
	RecheckOutputsDirty(edge *domain.Edge) (bool, error)
}

// Plan is the add_target/schedule/find_work/edge_finished state machine
// described in spec §4.5. It is not safe for concurrent use; the
// Builder is the sole caller, on the single orchestrator thread.
type Plan struct {
	scan DirtyRechecker

	want  map[*domain.Edge]bool
	ready map[*domain.Edge]struct{}

	wantedEdges  int
	commandEdges int
}

// New returns an empty Plan. scan is consulted only by CleanNode.
func New(scan DirtyRechecker) *Plan {
	return &Plan{
		scan:  scan,
		want:  make(map[*domain.Edge]bool),
		ready: make(map[*domain.Edge]struct{}),
	}
}

// AddTarget walks the graph rooted at node depth-first, recording every
// edge it must traverse in the want-map and scheduling the dirty ones
// whose inputs are already ready. See spec §4.5.
func (p *Plan) AddTarget(node *domain.Node) error {
	return p.addTarget(node, nil)
}

func (p *Plan) addTarget(node *domain.Node, stack []*domain.Node) error {
	if node.InEdge == nil {
		if node.Dirty {
			return zerr.With(domain.ErrMissingAndNoRule, "path", node.Path)
		}
		return nil
	}

	for _, s := range stack {
		if s == node {
			return p.cycleError(append(stack, node))
		}
	}

	edge := node.InEdge
	if edge.OutputsReady {
		return nil
	}

	if _, seen := p.want[edge]; !seen {
		p.want[edge] = false

		childStack := append(stack, node)
		for _, in := range edge.AllInputs() {
			if err := p.addTarget(in, childStack); err != nil {
				return err
			}
		}
	}

	if node.Dirty && !p.want[edge] {
		p.want[edge] = true
		p.wantedEdges++
		if !edge.Rule.IsPhony() {
			p.commandEdges++
		}
		if p.allInputsReady(edge) {
			p.schedule(edge)
		}
	}

	return nil
}

func (p *Plan) cycleError(stack []*domain.Node) error {
	msg := "found cycle: "
	for i, n := range stack {
		if i > 0 {
			msg += " -> "
		}
		msg += n.Path
	}
	return zerr.With(domain.ErrDependencyCycle, "cycle", msg)
}

// allInputsReady reports whether every non-order-only input's producing
// edge (if any) has already converged outputs.
func (p *Plan) allInputsReady(edge *domain.Edge) bool {
	explicitImplicit := edge.ExplicitDeps + edge.ImplicitDeps
	for _, n := range edge.Inputs[:explicitImplicit] {
		if n.InEdge != nil && !n.InEdge.OutputsReady {
			return false
		}
	}
	for _, n := range edge.LoadedDeps {
		if n.InEdge != nil && !n.InEdge.OutputsReady {
			return false
		}
	}
	return true
}

// schedule admits edge into the ready-set if its pool has capacity,
// otherwise enqueues it on the pool's delay FIFO. Re-scheduling an
// already-ready or already-delayed edge is a no-op.
func (p *Plan) schedule(edge *domain.Edge) {
	if _, ok := p.ready[edge]; ok {
		return
	}
	pool := edge.Pool
	if pool == nil {
		p.ready[edge] = struct{}{}
		return
	}
	for _, d := range pool.Delayed {
		if d == edge {
			return
		}
	}
	if pool.CanRunMore() {
		pool.Acquire()
		p.ready[edge] = struct{}{}
		return
	}
	pool.Enqueue(edge)
}

// FindWork returns an arbitrary ready edge and removes it from the
// ready-set, or (nil, false) if none are ready right now. Callers must
// not assume any particular order; tests that need determinism sort on
// the returned edge's first output path themselves.
func (p *Plan) FindWork() (*domain.Edge, bool) {
	for e := range p.ready {
		delete(p.ready, e)
		return e, true
	}
	return nil, false
}

// EdgeFinished records that edge's command (or phony no-op) completed,
// releases its pool slot, promotes delayed siblings, and cascades
// readiness to consumer edges. See spec §4.5.
func (p *Plan) EdgeFinished(edge *domain.Edge) {
	wanted, hadWant := p.want[edge]
	if hadWant && wanted {
		p.wantedEdges--
		if !edge.Rule.IsPhony() {
			p.commandEdges--
		}
	}
	delete(p.want, edge)

	edge.OutputsReady = true

	if pool := edge.Pool; pool != nil {
		pool.Release()
		for pool.CanRunMore() {
			next := pool.Dequeue()
			if next == nil {
				break
			}
			pool.Acquire()
			p.ready[next] = struct{}{}
		}
	}

	for _, out := range edge.Outputs {
		for _, consumer := range out.OutEdges {
			consumerWanted, inWant := p.want[consumer]
			if !inWant {
				continue
			}
			if !p.allInputsReady(consumer) {
				continue
			}
			if consumerWanted {
				p.schedule(consumer)
			} else {
				p.EdgeFinished(consumer)
			}
		}
	}
}

// CleanNode retroactively marks node (and, transitively, consumer
// edges whose remaining inputs are all clean) as clean after a restat
// edge discovers its output did not actually change. See spec §4.5.
func (p *Plan) CleanNode(node *domain.Node) error {
	for _, consumer := range node.OutEdges {
		if !allInputsClean(consumer) {
			continue
		}

		stillDirty, err := p.scan.RecheckOutputsDirty(consumer)
		if err != nil {
			return err
		}
		if stillDirty {
			continue
		}

		changed := false
		for _, o := range consumer.Outputs {
			if o.Dirty {
				o.Dirty = false
				changed = true
			}
		}

		if wanted, ok := p.want[consumer]; ok && wanted {
			p.want[consumer] = false
			p.wantedEdges--
			if !consumer.Rule.IsPhony() {
				p.commandEdges--
			}
		}

		if changed {
			for _, o := range consumer.Outputs {
				if err := p.CleanNode(o); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func allInputsClean(edge *domain.Edge) bool {
	for _, n := range edge.Inputs[:edge.ExplicitDeps+edge.ImplicitDeps] {
		if n.Dirty {
			return false
		}
	}
	for _, n := range edge.LoadedDeps {
		if n.Dirty {
			return false
		}
	}
	return true
}

// MoreToDo reports whether any wanted edge still has a command to run.
// A plan with only phony work left is vacuously done.
func (p *Plan) MoreToDo() bool {
	return p.wantedEdges > 0 && p.commandEdges > 0
}

// WantedEdges and CommandEdges expose the plan's running counters,
// mainly for tests asserting on convergence.
func (p *Plan) WantedEdges() int   { return p.wantedEdges }
func (p *Plan) CommandEdges() int  { return p.commandEdges }

// IsWanted reports whether edge is in the want-map and, if so, whether
// it must actually run a command.
func (p *Plan) IsWanted(edge *domain.Edge) (wanted, inPlan bool) {
	w, ok := p.want[edge]
	return w, ok
}

// String renders the plan's size for debug logging.
func (p *Plan) String() string {
	return fmt.Sprintf("plan{want=%d ready=%d wanted_edges=%d command_edges=%d}",
		len(p.want), len(p.ready), p.wantedEdges, p.commandEdges)
}
