package plan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.novabuild.dev/nova/internal/domain"
	"go.novabuild.dev/nova/internal/engine/plan"
)

// fakeRechecker reports every edge's outputs as clean. Only CleanNode
// consults it, and none of these tests call CleanNode.
type fakeRechecker struct{}

func (fakeRechecker) RecheckOutputsDirty(*domain.Edge) (bool, error) { return false, nil }

// chain builds `build mid: cat in` + `build out: cat mid`, matching
// spec §8 scenario 1: in exists, mid and out are missing.
func chain(t *testing.T) (g *domain.Graph, in, mid, out *domain.Node) {
	t.Helper()
	g = domain.NewGraph()
	rule := domain.NewRule("cat")

	in = g.GetOrCreateNode("in", 0)
	in.Mtime = 2
	mid = g.GetOrCreateNode("mid", 0)
	mid.Mtime = domain.MtimeMissing
	out = g.GetOrCreateNode("out", 0)
	out.Mtime = domain.MtimeMissing

	e1 := domain.NewEdge(rule, nil)
	e1.AddInput(in, domain.InputExplicit)
	e1.AddOutput(mid, true)
	g.AddEdge(e1)
	mid.Dirty = true

	e2 := domain.NewEdge(rule, nil)
	e2.AddInput(mid, domain.InputExplicit)
	e2.AddOutput(out, true)
	g.AddEdge(e2)
	out.Dirty = true

	return g, in, mid, out
}

func TestPlan_LinearChainOrdersByReadiness(t *testing.T) {
	_, _, mid, out := chain(t)

	p := plan.New(fakeRechecker{})
	require.NoError(t, p.AddTarget(out))

	edge, ok := p.FindWork()
	require.True(t, ok, "expected the edge producing mid to be ready")
	assert.Same(t, mid.InEdge, edge)
	_, ok = p.FindWork()
	assert.False(t, ok, "edge producing out must not be ready before mid finishes")

	p.EdgeFinished(edge)

	edge2, ok := p.FindWork()
	require.True(t, ok, "expected the edge producing out to become ready after mid finished")
	assert.Same(t, out.InEdge, edge2)

	p.EdgeFinished(edge2)
	_, ok = p.FindWork()
	assert.False(t, ok, "no more work should be ready")
	assert.False(t, p.MoreToDo(), "plan should have converged")
}

func TestPlan_PoolDepthOneSerializesSiblings(t *testing.T) {
	g := domain.NewGraph()
	rule := domain.NewRule("r")
	pool := domain.NewPool("p", 1)

	in := g.GetOrCreateNode("in", 0)
	in.Mtime = 1

	o1 := g.GetOrCreateNode("o1", 0)
	o2 := g.GetOrCreateNode("o2", 0)
	o1.Dirty, o2.Dirty = true, true

	e1 := domain.NewEdge(rule, nil)
	e1.Pool = pool
	e1.AddInput(in, domain.InputExplicit)
	e1.AddOutput(o1, true)
	g.AddEdge(e1)

	e2 := domain.NewEdge(rule, nil)
	e2.Pool = pool
	e2.AddInput(in, domain.InputExplicit)
	e2.AddOutput(o2, true)
	g.AddEdge(e2)

	p := plan.New(fakeRechecker{})
	require.NoError(t, p.AddTarget(o1))
	require.NoError(t, p.AddTarget(o2))

	first, ok := p.FindWork()
	require.True(t, ok, "expected exactly one edge ready")
	_, ok = p.FindWork()
	assert.False(t, ok, "pool depth 1 must delay the second edge")

	p.EdgeFinished(first)

	_, ok = p.FindWork()
	assert.True(t, ok, "second edge should become ready once the pool slot frees up")
}

func TestPlan_DependencyCycleReported(t *testing.T) {
	g := domain.NewGraph()
	rule := domain.NewRule("cat")

	a := g.GetOrCreateNode("a", 0)
	b := g.GetOrCreateNode("b", 0)
	c := g.GetOrCreateNode("c", 0)
	a.Dirty, b.Dirty, c.Dirty = true, true, true

	eA := domain.NewEdge(rule, nil)
	eA.AddInput(b, domain.InputExplicit)
	eA.AddOutput(a, true)
	g.AddEdge(eA)

	eB := domain.NewEdge(rule, nil)
	eB.AddInput(c, domain.InputExplicit)
	eB.AddOutput(b, true)
	g.AddEdge(eB)

	eC := domain.NewEdge(rule, nil)
	eC.AddInput(a, domain.InputExplicit)
	eC.AddOutput(c, true)
	g.AddEdge(eC)

	p := plan.New(fakeRechecker{})
	err := p.AddTarget(a)
	require.Error(t, err, "expected a dependency cycle error")
	assert.Contains(t, err.Error(), "a -> b -> c -> a")
}

func TestPlan_ZeroInputEdgeIsAlwaysReady(t *testing.T) {
	g := domain.NewGraph()
	rule := domain.NewRule("touch")
	out := g.GetOrCreateNode("out", 0)
	out.Dirty = true

	e := domain.NewEdge(rule, nil)
	e.AddOutput(out, true)
	g.AddEdge(e)

	p := plan.New(fakeRechecker{})
	require.NoError(t, p.AddTarget(out))
	_, ok := p.FindWork()
	assert.True(t, ok, "an edge with zero inputs should be ready immediately")
}
