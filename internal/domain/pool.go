package domain

// Pool bounds how many edges that reference it may run concurrently.
// Depth 0 means unbounded. The builtin "console" pool has depth 1 and
// additionally grants its one running edge exclusive access to the
// terminal (see ports.CommandRunner).
type Pool struct {
	Name  string
	Depth int

	// CurrentUse is the number of edges from this pool currently
	// running or finished-but-not-yet-released. The plan increments it
	// on dispatch and decrements it when the edge finishes.
	CurrentUse int

	// Delayed holds edges waiting for pool capacity, in the order they
	// became ready, so admission is FIFO.
	Delayed []*Edge
}

// NewPool creates a pool with the given depth (0 = unbounded).
func NewPool(name string, depth int) *Pool {
	return &Pool{Name: name, Depth: depth}
}

// ConsolePool is the builtin pool used by edges with `pool = console`.
// It has depth 1: only one console-pool edge may run at a time, and it
// runs with the build's own stdout/stderr rather than a captured pipe.
var ConsolePool = &Pool{Name: "console", Depth: 1}

// IsUnbounded reports whether the pool imposes no concurrency limit.
func (p *Pool) IsUnbounded() bool { return p == nil || p.Depth == 0 }

// IsConsole reports whether this is the builtin console pool.
func (p *Pool) IsConsole() bool { return p != nil && p.Name == "console" }

// CanRunMore reports whether the pool has spare capacity for one more
// edge right now.
func (p *Pool) CanRunMore() bool {
	if p.IsUnbounded() {
		return true
	}
	return p.CurrentUse < p.Depth
}

// Acquire records that one more edge from this pool has started.
func (p *Pool) Acquire() { p.CurrentUse++ }

// Release records that an edge from this pool has finished, freeing one
// slot for a delayed edge.
func (p *Pool) Release() {
	if p.CurrentUse > 0 {
		p.CurrentUse--
	}
}

// Enqueue adds an edge to the delayed FIFO, to be admitted once
// capacity frees up.
func (p *Pool) Enqueue(e *Edge) { p.Delayed = append(p.Delayed, e) }

// Dequeue pops the next delayed edge, or nil if none are waiting.
func (p *Pool) Dequeue() *Edge {
	if len(p.Delayed) == 0 {
		return nil
	}
	e := p.Delayed[0]
	p.Delayed = p.Delayed[1:]
	return e
}
