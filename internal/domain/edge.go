package domain

import "strings"

// Edge is one manifest build statement: a rule applied to concrete
// inputs and outputs. Inputs and outputs are stored in manifest order,
// partitioned into explicit/implicit/order-only (inputs) and
// explicit/implicit (outputs) via counts rather than separate slices,
// matching the order the $in/$out bindings must reproduce.
type Edge struct {
	Rule *Rule
	Pool *Pool

	// Inputs holds, in order, the explicit deps, then implicit deps
	// (after a "|" separator in the manifest), then order-only deps
	// (after a "||" separator).
	Inputs         []*Node
	ExplicitDeps   int
	ImplicitDeps   int
	OrderOnlyDeps  int

	// Outputs holds, in order, the explicit outputs, then implicit
	// outputs (after a "|" separator).
	Outputs          []*Node
	ExplicitOutputs  int

	// Bindings holds this edge's own build-statement-level bindings
	// (e.g. a per-edge override of a rule variable). The scope has no
	// parent; Binding falls through to the rule and then to Env itself.
	Bindings *BindingEnv

	// Env is the enclosing manifest scope this edge was declared in,
	// consulted after Bindings and Rule.Bindings both miss.
	Env *BindingEnv

	// OutputsReady is scanner/plan working state: the scanner clears it
	// for a dirty edge, Plan.EdgeFinished sets it, and Plan.AddTarget
	// skips an edge whose outputs are already ready.
	OutputsReady bool

	// DepsMissing is set by the scanner when the edge's implicit deps
	// could not be loaded (depfile absent or empty, or deps-log entry
	// absent or stale), which makes the edge dirty.
	DepsMissing bool

	// Implicit dependencies loaded from a depfile or the deps log, not
	// written in the manifest itself. Order-only vs implicit is not
	// distinguished here: both depfile and deps-log deps are implicit.
	LoadedDeps []*Node
}

// NewEdge creates an edge bound to rule, with its own empty binding
// scope and env (the manifest scope active where the edge appears) as
// the final lookup fallback.
func NewEdge(rule *Rule, env *BindingEnv) *Edge {
	return &Edge{Rule: rule, Env: env, Bindings: NewBindingEnv(nil)}
}

// AddInput appends an input of the given kind. Inputs must be added in
// explicit, then implicit, then order-only order; this is enforced by
// the manifest parser, not by Edge itself.
func (e *Edge) AddInput(n *Node, kind InputKind) {
	e.Inputs = append(e.Inputs, n)
	switch kind {
	case InputExplicit:
		e.ExplicitDeps++
	case InputImplicit:
		e.ImplicitDeps++
	case InputOrderOnly:
		e.OrderOnlyDeps++
	}
	n.AddOutEdge(e)
}

// AddOutput appends an output of the given kind (explicit or implicit)
// and wires the node's producing edge back to e.
func (e *Edge) AddOutput(n *Node, explicit bool) {
	e.Outputs = append(e.Outputs, n)
	if explicit {
		e.ExplicitOutputs++
	}
	n.InEdge = e
}

// InputKind distinguishes the three input partitions of a build edge.
type InputKind int

const (
	InputExplicit InputKind = iota
	InputImplicit
	InputOrderOnly
)

// ExplicitInputs returns the leading explicit-dependency slice of Inputs.
func (e *Edge) ExplicitInputs() []*Node { return e.Inputs[:e.ExplicitDeps] }

// ImplicitInputs returns the implicit-dependency slice of Inputs,
// excluding order-only deps.
func (e *Edge) ImplicitInputs() []*Node {
	return e.Inputs[e.ExplicitDeps : e.ExplicitDeps+e.ImplicitDeps]
}

// OrderOnlyInputs returns the order-only dependency slice of Inputs.
func (e *Edge) OrderOnlyInputs() []*Node {
	return e.Inputs[e.ExplicitDeps+e.ImplicitDeps:]
}

// ExplicitOutputNodes returns the leading explicit-output slice.
func (e *Edge) ExplicitOutputNodes() []*Node { return e.Outputs[:e.ExplicitOutputs] }

// ImplicitOutputNodes returns the implicit-output slice.
func (e *Edge) ImplicitOutputNodes() []*Node { return e.Outputs[e.ExplicitOutputs:] }

// AllInputs returns manifest inputs followed by depfile/deps-log loaded
// inputs, the full set the scanner must stat and the plan must wait on.
func (e *Edge) AllInputs() []*Node {
	if len(e.LoadedDeps) == 0 {
		return e.Inputs
	}
	out := make([]*Node, 0, len(e.Inputs)+len(e.LoadedDeps))
	out = append(out, e.Inputs...)
	out = append(out, e.LoadedDeps...)
	return out
}

// OutputsDirty reports whether any output is marked dirty.
func (e *Edge) OutputsDirty() bool {
	for _, o := range e.Outputs {
		if o.Dirty {
			return true
		}
	}
	return false
}

// MarkOutputsReady short-circuits a later scan visit to this edge.
func (e *Edge) MarkOutputsReady() { e.OutputsReady = true }

// Binding resolves name against, in order: this edge's own bindings,
// the rule's bindings (evaluated against this edge's env so a rule
// binding can reference $in/$out), then the enclosing manifest scope.
// This is the EdgeEnv fallback chain described in the manifest spec.
func (e *Edge) Binding(name string) string {
	if v, ok := e.Bindings.LocalBinding(name); ok {
		return v.Evaluate(e)
	}
	if special, ok := e.specialBinding(name); ok {
		return special
	}
	if e.Rule != nil {
		if v, ok := e.Rule.Bindings.LocalBinding(name); ok {
			return v.Evaluate(e)
		}
	}
	if e.Env != nil {
		return e.Env.LookupVariable(name)
	}
	return ""
}

// Lookup implements Env so an EvalString bound on this edge or its rule
// can be evaluated with $in/$out/$in_newline visible.
func (e *Edge) Lookup(name string) string { return e.Binding(name) }

func (e *Edge) specialBinding(name string) (string, bool) {
	switch name {
	case "in":
		return joinPaths(e.ExplicitInputs(), " ", true), true
	case "in_newline":
		return joinPaths(e.ExplicitInputs(), "\n", false), true
	case "out":
		return joinPaths(e.ExplicitOutputNodes(), " ", true), true
	case "out_newline":
		return joinPaths(e.ExplicitOutputNodes(), "\n", false), true
	default:
		return "", false
	}
}

func joinPaths(nodes []*Node, sep string, escape bool) string {
	var b strings.Builder
	for i, n := range nodes {
		if i > 0 {
			b.WriteString(sep)
		}
		if escape {
			b.WriteString(shellEscape(n.Path))
		} else {
			b.WriteString(n.Path)
		}
	}
	return b.String()
}

// IsRestat reports whether this edge's rule declared `restat = 1`.
func (e *Edge) IsRestat() bool { return e.Binding("restat") != "" }

// IsGenerator reports whether this edge's rule declared `generator = 1`:
// a generator edge's command-line hash is never compared, since its job
// is to regenerate the manifest itself.
func (e *Edge) IsGenerator() bool { return e.Binding("generator") != "" }

// HashableCommand returns the text whose hash the build log compares
// against to detect a changed command line: the expanded command plus
// any rspfile content, since a tool driven entirely through an rspfile
// can change behavior without the command line itself changing.
func (e *Edge) HashableCommand() string {
	cmd := e.Binding("command")
	if rsp := e.Binding("rspfile_content"); rsp != "" {
		cmd += ";rspfile=" + rsp
	}
	return cmd
}

// shellEscape quotes path for safe inclusion in a command line built by
// string substitution, the same minimal quoting ninja applies to $in
// and $out: wrap in single quotes if the path contains any character a
// POSIX shell would otherwise treat specially.
func shellEscape(path string) string {
	if path == "" {
		return "''"
	}
	needsQuote := strings.ContainsAny(path, " \t\n\"'$`\\|&;()<>*?[]{}~!#%^=")
	if !needsQuote {
		return path
	}
	return "'" + strings.ReplaceAll(path, "'", `'\''`) + "'"
}
