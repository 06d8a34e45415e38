package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.novabuild.dev/nova/internal/domain"
)

func TestPool_Unbounded(t *testing.T) {
	p := domain.NewPool("default", 0)
	assert.True(t, p.IsUnbounded(), "depth 0 pool should be unbounded")
	assert.True(t, p.CanRunMore(), "unbounded pool should always have capacity")
}

func TestPool_DepthOneAdmission(t *testing.T) {
	p := domain.NewPool("link", 1)
	require.True(t, p.CanRunMore(), "empty depth-1 pool should admit one edge")
	p.Acquire()
	assert.False(t, p.CanRunMore(), "depth-1 pool at capacity should not admit a second edge")
	p.Release()
	assert.True(t, p.CanRunMore(), "depth-1 pool should admit again after release")
}

func TestPool_DelayedFIFO(t *testing.T) {
	p := domain.NewPool("link", 1)
	e1, e2 := &domain.Edge{}, &domain.Edge{}
	p.Enqueue(e1)
	p.Enqueue(e2)
	assert.Same(t, e1, p.Dequeue(), "Dequeue should return edges in FIFO order")
	assert.Same(t, e2, p.Dequeue(), "Dequeue should return edges in FIFO order")
	assert.Nil(t, p.Dequeue(), "Dequeue on empty queue should return nil")
}

func TestConsolePool_Depth(t *testing.T) {
	assert.Equal(t, 1, domain.ConsolePool.Depth)
	assert.True(t, domain.ConsolePool.IsConsole())
}
