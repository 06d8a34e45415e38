package domain

import "go.trai.ch/zerr"

// Graph owns every Node, Edge, Rule, and Pool parsed from a manifest
// (plus its subninja/include files). Nodes are deduplicated by
// canonical path via GetOrCreateNode; everything else is looked up by
// name through AddRule/AddPool and Rule/Pool.
type Graph struct {
	Nodes []*Node
	Edges []*Edge

	rules     map[string]*Rule
	pools     map[string]*Pool
	nodeByPath map[string]*Node

	Defaults []*Node
}

// NewGraph returns an empty graph seeded with the builtin phony rule
// and console pool.
func NewGraph() *Graph {
	g := &Graph{
		rules:      make(map[string]*Rule),
		pools:      make(map[string]*Pool),
		nodeByPath: make(map[string]*Node),
	}
	g.rules["phony"] = PhonyRule
	g.pools["console"] = ConsolePool
	return g
}

// GetOrCreateNode returns the Node for canonicalPath, creating one with
// a fresh dense ID if this is the first reference to that path.
// slashBits is recorded only on creation: the first spelling of a path
// wins for display purposes, matching ninja's CanonPath behavior.
func (g *Graph) GetOrCreateNode(canonicalPath string, slashBits uint64) *Node {
	if n, ok := g.nodeByPath[canonicalPath]; ok {
		return n
	}
	// Intern the path so every Node sharing a common path prefix (e.g.
	// "build/", "third_party/") and every caller that re-canonicalizes
	// the same string (depfile lines, deps-log entries, manifest
	// tokens) converges on one backing string allocation.
	interned := NewInternedString(canonicalPath).String()
	n := NewNode(len(g.Nodes), interned, slashBits)
	g.Nodes = append(g.Nodes, n)
	g.nodeByPath[interned] = n
	return n
}

// LookupNode returns the existing node for path, or nil if no edge or
// build statement has ever referenced it.
func (g *Graph) LookupNode(canonicalPath string) *Node {
	return g.nodeByPath[canonicalPath]
}

// AddRule registers rule under its own name. Redeclaring a name is a
// manifest error.
func (g *Graph) AddRule(rule *Rule) error {
	if _, exists := g.rules[rule.Name]; exists {
		return zerr.With(ErrDuplicateRule, "rule", rule.Name)
	}
	g.rules[rule.Name] = rule
	return nil
}

// Rule looks up a rule by name, returning (nil, false) if undeclared.
func (g *Graph) Rule(name string) (*Rule, bool) {
	r, ok := g.rules[name]
	return r, ok
}

// AddPool registers pool under its own name. Redeclaring a name, or
// declaring a pool named "console", is a manifest error.
func (g *Graph) AddPool(pool *Pool) error {
	if _, exists := g.pools[pool.Name]; exists {
		return zerr.With(ErrDuplicatePool, "pool", pool.Name)
	}
	g.pools[pool.Name] = pool
	return nil
}

// Pool looks up a pool by name, returning (nil, false) if undeclared.
func (g *Graph) Pool(name string) (*Pool, bool) {
	p, ok := g.pools[name]
	return p, ok
}

// AddEdge appends a fully-built edge to the graph. Callers must have
// already wired the edge's inputs/outputs via AddInput/AddOutput.
func (g *Graph) AddEdge(e *Edge) {
	g.Edges = append(g.Edges, e)
}

// AddDefault records a manifest-level default target.
func (g *Graph) AddDefault(n *Node) {
	g.Defaults = append(g.Defaults, n)
}

// RootNodes returns the manifest's default targets if any were
// declared, otherwise every node that is nobody's input: the set ninja
// builds when invoked with no explicit targets.
func (g *Graph) RootNodes() []*Node {
	if len(g.Defaults) > 0 {
		return g.Defaults
	}
	var roots []*Node
	for _, n := range g.Nodes {
		if len(n.OutEdges) == 0 && n.InEdge != nil {
			roots = append(roots, n)
		}
	}
	return roots
}
