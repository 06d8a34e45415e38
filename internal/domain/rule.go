package domain

import "go.trai.ch/zerr"

// ReservedBindings are the binding names with engine-defined meaning on
// a rule. Only membership is consulted; the order is not significant.
var ReservedBindings = []string{
	"command",
	"depfile",
	"description",
	"deps",
	"generator",
	"pool",
	"restat",
	"rspfile",
	"rspfile_content",
}

// IsReservedBinding reports whether name is one of the engine-defined
// rule binding names.
func IsReservedBinding(name string) bool {
	for _, r := range ReservedBindings {
		if r == name {
			return true
		}
	}
	return false
}

// Rule is a named bundle of un-evaluated bindings. Edges instantiate a
// Rule against concrete inputs/outputs; expansion happens per-edge via
// Edge.Binding's three-level fallback.
type Rule struct {
	Name     string
	Bindings *BindingEnv
}

// NewRule creates an empty rule with its own binding scope. The rule's
// scope has no parent: rule bindings resolve purely against the rule's
// own bindings plus, at evaluation time, whatever outer scope the
// caller supplies as a fallback (see Edge.Binding).
func NewRule(name string) *Rule {
	return &Rule{Name: name, Bindings: NewBindingEnv(nil)}
}

// AddBinding records a rule-level binding.
func (r *Rule) AddBinding(name string, value EvalString) {
	r.Bindings.AddBinding(name, value)
}

// Binding returns the raw EvalString bound to name on this rule, or the
// zero EvalString if unbound.
func (r *Rule) Binding(name string) EvalString {
	v, _ := r.Bindings.LocalBinding(name)
	return v
}

// IsPhony reports whether this rule is the builtin phony rule, which
// runs no command.
func (r *Rule) IsPhony() bool { return r == nil || r.Name == "phony" }

// PhonyRule is the builtin synthetic rule used for aliases and for the
// implicit-dep loader's synthesized "missing header" edges.
var PhonyRule = &Rule{Name: "phony", Bindings: NewBindingEnv(nil)}

// ReservedBindingGraph builds the reserved-binding reference graph for
// a single rule incrementally as its bindings are parsed, rejecting any
// addition that would close a cycle (e.g. `description = $command`,
// `command = $description`). The reserved set is small (<=9 names), so
// the per-addition DFS this performs is cheap.
type ReservedBindingGraph struct {
	refs map[string]map[string]bool
}

// NewReservedBindingGraph returns an empty graph.
func NewReservedBindingGraph() *ReservedBindingGraph {
	return &ReservedBindingGraph{refs: make(map[string]map[string]bool)}
}

// AddBinding records that the reserved binding `name` evaluates to
// `value`, registering an edge for every reserved name value refers to.
// Returns an error (with metadata key "cycle") the first time this
// addition closes a cycle in the reserved-binding reference graph.
func (g *ReservedBindingGraph) AddBinding(name string, value EvalString) error {
	if !IsReservedBinding(name) {
		return nil
	}
	for _, tok := range value.tokens {
		if tok.Kind != VarRef || !IsReservedBinding(tok.Text) {
			continue
		}
		if g.refs[name] == nil {
			g.refs[name] = make(map[string]bool)
		}
		g.refs[name][tok.Text] = true
	}
	return g.checkCycle(name)
}

func (g *ReservedBindingGraph) checkCycle(from string) error {
	visiting := make(map[string]bool)
	var path []string

	var visit func(n string) error
	visit = func(n string) error {
		if visiting[n] {
			return g.cycleError(append(path, n))
		}
		visiting[n] = true
		path = append(path, n)
		for next := range g.refs[n] {
			if err := visit(next); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		visiting[n] = false
		return nil
	}

	return visit(from)
}

func (g *ReservedBindingGraph) cycleError(chain []string) error {
	msg := "found cycle: "
	for i, n := range chain {
		if i > 0 {
			msg += " -> "
		}
		msg += n
	}
	return zerr.With(ErrReservedBindingCycle, "cycle", msg)
}
