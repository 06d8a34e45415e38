package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.novabuild.dev/nova/internal/domain"
	"go.trai.ch/zerr"
)

func TestGraph_GetOrCreateNode_Dedup(t *testing.T) {
	g := domain.NewGraph()
	a := g.GetOrCreateNode("foo.c", 0)
	b := g.GetOrCreateNode("foo.c", 0)
	assert.Same(t, a, b, "GetOrCreateNode should return the same *Node for the same path")
	assert.EqualValues(t, 0, a.ID)
	c := g.GetOrCreateNode("bar.c", 0)
	assert.EqualValues(t, 1, c.ID)
}

func TestGraph_AddRule_Duplicate(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddRule(domain.NewRule("cc")))
	err := g.AddRule(domain.NewRule("cc"))
	require.Error(t, err)
	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Equal(t, "cc", zErr.Metadata()["rule"])
}

func TestGraph_AddPool_Duplicate(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddPool(domain.NewPool("heavy", 2)))
	assert.Error(t, g.AddPool(domain.NewPool("heavy", 4)))
}

func TestGraph_BuiltinPhonyAndConsole(t *testing.T) {
	g := domain.NewGraph()
	rule, ok := g.Rule("phony")
	assert.True(t, ok && rule == domain.PhonyRule, "graph should seed the builtin phony rule")
	pool, ok := g.Pool("console")
	assert.True(t, ok && pool == domain.ConsolePool, "graph should seed the builtin console pool")
}

func TestGraph_RootNodes_DefaultsOverrideInference(t *testing.T) {
	g := domain.NewGraph()
	rule := domain.NewRule("cc")
	edge := domain.NewEdge(rule, nil)
	out := g.GetOrCreateNode("out.o", 0)
	edge.AddOutput(out, true)
	g.AddEdge(edge)

	roots := g.RootNodes()
	assert.Equal(t, []*domain.Node{out}, roots, "RootNodes() without defaults")

	other := g.GetOrCreateNode("other.o", 0)
	g.AddDefault(other)
	roots = g.RootNodes()
	assert.Equal(t, []*domain.Node{other}, roots, "RootNodes() with defaults")
}
