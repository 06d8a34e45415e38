package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.novabuild.dev/nova/internal/domain"
)

func TestEvalString_Evaluate(t *testing.T) {
	env := domain.NewBindingEnv(nil)
	env.AddBinding("cflags", domain.NewEvalString("-O2 -Wall"))

	var s domain.EvalString
	s.AddText("gcc ")
	s.AddVarRef("cflags")
	s.AddText(" -c foo.c")

	assert.Equal(t, "gcc -O2 -Wall -c foo.c", s.Evaluate(env))
}

func TestEvalString_Evaluate_UnboundVarIsEmpty(t *testing.T) {
	var s domain.EvalString
	s.AddText("x=")
	s.AddVarRef("undefined")

	assert.Equal(t, "x=", s.Evaluate(nil))
}

func TestBindingEnv_ParentFallback(t *testing.T) {
	parent := domain.NewBindingEnv(nil)
	parent.AddBinding("cc", domain.NewEvalString("gcc"))

	child := domain.NewBindingEnv(parent)
	assert.Equal(t, "gcc", child.LookupVariable("cc"))

	child.AddBinding("cc", domain.NewEvalString("clang"))
	assert.Equal(t, "clang", child.LookupVariable("cc"), "child override")
	assert.Equal(t, "gcc", parent.LookupVariable("cc"), "parent unaffected by child override")
}

func TestBindingEnv_SelfReferencingBinding(t *testing.T) {
	env := domain.NewBindingEnv(nil)
	env.AddBinding("command", domain.NewEvalString("base"))

	var desc domain.EvalString
	desc.AddText("Building with ")
	desc.AddVarRef("command")
	env.AddBinding("description", desc)

	assert.Equal(t, "Building with base", env.LookupVariable("description"))
}
