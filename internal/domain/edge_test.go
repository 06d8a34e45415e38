package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.novabuild.dev/nova/internal/domain"
)

func newTestNode(g *domain.Graph, path string) *domain.Node {
	n := g.GetOrCreateNode(path, 0)
	return n
}

func TestEdge_InOutBindingsWithShellEscaping(t *testing.T) {
	g := domain.NewGraph()
	rule := domain.NewRule("cc")
	rule.AddBinding("command", mustEvalString("gcc -c $in -o $out"))

	edge := domain.NewEdge(rule, nil)
	in1 := newTestNode(g, "has space.c")
	out1 := newTestNode(g, "out.o")
	edge.AddInput(in1, domain.InputExplicit)
	edge.AddOutput(out1, true)

	assert.Equal(t, "gcc -c 'has space.c' -o out.o", edge.Binding("command"))
}

func TestEdge_InputPartitioning(t *testing.T) {
	g := domain.NewGraph()
	rule := domain.NewRule("cc")
	edge := domain.NewEdge(rule, nil)

	explicit := newTestNode(g, "a.c")
	implicit := newTestNode(g, "a.h")
	orderOnly := newTestNode(g, "gen")

	edge.AddInput(explicit, domain.InputExplicit)
	edge.AddInput(implicit, domain.InputImplicit)
	edge.AddInput(orderOnly, domain.InputOrderOnly)

	assert.Equal(t, []*domain.Node{explicit}, edge.ExplicitInputs())
	assert.Equal(t, []*domain.Node{implicit}, edge.ImplicitInputs())
	assert.Equal(t, []*domain.Node{orderOnly}, edge.OrderOnlyInputs())
}

func TestEdge_RuleBindingFallsThroughToEnv(t *testing.T) {
	manifestScope := domain.NewBindingEnv(nil)
	manifestScope.AddBinding("cflags", domain.NewEvalString("-Wall"))

	rule := domain.NewRule("cc")
	rule.AddBinding("command", mustEvalString("gcc $cflags -c $in"))

	edge := domain.NewEdge(rule, manifestScope)
	g := domain.NewGraph()
	in1 := newTestNode(g, "a.c")
	edge.AddInput(in1, domain.InputExplicit)

	assert.Equal(t, "gcc -Wall -c a.c", edge.Binding("command"))
}

func mustEvalString(src string) domain.EvalString {
	// Minimal helper: split src into literal text and "$name" variable
	// references; no "${name}" or "$"-escape handling.
	var s domain.EvalString
	rest := src
	for {
		idx := indexByte(rest, '$')
		if idx < 0 {
			s.AddText(rest)
			break
		}
		s.AddText(rest[:idx])
		rest = rest[idx+1:]
		end := 0
		for end < len(rest) && isNameByte(rest[end]) {
			end++
		}
		if end == 0 {
			s.AddText("$")
			continue
		}
		s.AddVarRef(rest[:end])
		rest = rest[end:]
	}
	return s
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func isNameByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
