package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.novabuild.dev/nova/internal/domain"
	"go.trai.ch/zerr"
)

func TestReservedBindingGraph_AllowsAcyclicReference(t *testing.T) {
	g := domain.NewReservedBindingGraph()

	cmd := domain.NewEvalString("gcc -c $in")
	require.NoError(t, g.AddBinding("command", cmd))

	var desc domain.EvalString
	desc.AddText("Building with ")
	desc.AddVarRef("command")
	assert.NoError(t, g.AddBinding("description", desc))
}

func TestReservedBindingGraph_RejectsCycle(t *testing.T) {
	g := domain.NewReservedBindingGraph()

	var command domain.EvalString
	command.AddVarRef("description")
	require.NoError(t, g.AddBinding("command", command))

	var description domain.EvalString
	description.AddVarRef("command")
	err := g.AddBinding("description", description)
	require.Error(t, err)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	meta := zErr.Metadata()
	cycle, ok := meta["cycle"].(string)
	assert.True(t, ok && cycle != "", "expected non-empty metadata cycle, got %v", meta["cycle"])
}

func TestRule_IsPhony(t *testing.T) {
	assert.True(t, domain.PhonyRule.IsPhony())
	assert.True(t, (*domain.Rule)(nil).IsPhony(), "nil Rule.IsPhony() should be true")
	cc := domain.NewRule("cc")
	assert.False(t, cc.IsPhony())
}
