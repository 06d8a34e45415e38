package depslog_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.novabuild.dev/nova/internal/adapters/depslog"
)

func TestDepsLog_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".nova_deps")

	l, err := depslog.Load(path)
	require.NoError(t, err)
	require.NoError(t, l.RecordDeps("foo.o", 42, []string{"foo.c", "foo.h"}))
	require.NoError(t, l.Close())

	reloaded, err := depslog.Load(path)
	require.NoError(t, err)
	paths, mtime, ok := reloaded.GetDeps("foo.o")
	require.True(t, ok, "expected a recorded entry")
	assert.EqualValues(t, 42, mtime)
	assert.Equal(t, []string{"foo.c", "foo.h"}, paths)
}

func TestDepsLog_LaterRecordSupersedesEarlier(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".nova_deps")

	l, err := depslog.Load(path)
	require.NoError(t, err)
	require.NoError(t, l.RecordDeps("foo.o", 1, []string{"a.h"}))
	require.NoError(t, l.RecordDeps("foo.o", 2, []string{"a.h", "b.h"}))
	require.NoError(t, l.Close())

	reloaded, err := depslog.Load(path)
	require.NoError(t, err)
	paths, mtime, ok := reloaded.GetDeps("foo.o")
	require.True(t, ok, "expected a recorded entry")
	assert.EqualValues(t, 2, mtime)
	assert.Equal(t, []string{"a.h", "b.h"}, paths)
}

func TestDepsLog_MissingEntryNotOK(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".nova_deps")
	l, err := depslog.Load(path)
	require.NoError(t, err)
	_, _, ok := l.GetDeps("never-recorded.o")
	assert.False(t, ok, "expected no entry for an output never recorded")
}
