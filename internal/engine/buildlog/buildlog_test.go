package buildlog_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.novabuild.dev/nova/internal/engine/buildlog"
	"go.novabuild.dev/nova/internal/ports"
)

func TestBuildLog_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".nova_log")

	l, err := buildlog.Load(path)
	require.NoError(t, err)
	require.NoError(t, l.OpenForWrite())

	entry := ports.BuildLogEntry{
		Output:      "out.o",
		CommandHash: 0xdeadbeef,
		StartTime:   1,
		EndTime:     2,
		RestatMtime: 3,
	}
	require.NoError(t, l.Record(entry))
	require.NoError(t, l.Close())

	reloaded, err := buildlog.Load(path)
	require.NoError(t, err)
	got, ok := reloaded.Lookup("out.o")
	require.True(t, ok, "expected entry to round-trip")
	assert.Equal(t, entry, got)
}

func TestBuildLog_CompactsOnManyDuplicateEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".nova_log")

	l, err := buildlog.Load(path)
	require.NoError(t, err)
	require.NoError(t, l.OpenForWrite())

	for i := 0; i < 500; i++ {
		entry := ports.BuildLogEntry{
			Output:      "out.o",
			CommandHash: uint64(i), //nolint:gosec // test data
			StartTime:   int64(i),
			EndTime:     int64(i),
		}
		require.NoError(t, l.Record(entry), "Record #%d", i)
	}
	require.NoError(t, l.Close())

	reloaded, err := buildlog.Load(path)
	require.NoError(t, err)
	require.NoError(t, reloaded.OpenForWrite())
	got, ok := reloaded.Lookup("out.o")
	require.True(t, ok)
	assert.EqualValues(t, 499, got.CommandHash, "expected the latest of the duplicate entries to survive compaction")
}

// TestBuildLog_LoadFlagsRatioFromPriorRuns covers spec.md §8 scenario 5
// for the case the in-process Record path can't reach: a log that
// already exceeds the total/unique-entry ratio from entries written in
// earlier, separate process invocations. Load itself (not a Record
// call) must notice the ratio and flag needsRecompact, so the very
// next OpenForWrite rewrites the file with no intervening Record.
func TestBuildLog_LoadFlagsRatioFromPriorRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".nova_log")

	var b strings.Builder
	fmt.Fprintf(&b, "# nova log v4\n")
	for i := 0; i < 500; i++ {
		fmt.Fprintf(&b, "%d\t%d\t%d\t%s\t%016x\n", i, i, 0, "out.o", uint64(i)) //nolint:gosec // test data
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))

	reloaded, err := buildlog.Load(path)
	require.NoError(t, err)
	require.NoError(t, reloaded.OpenForWrite())
	require.NoError(t, reloaded.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	require.Len(t, lines, 2, "expected Load+OpenForWrite to recompact to signature+1 entry with no Record call:\n%s", content)

	got, ok := reloaded.Lookup("out.o")
	require.True(t, ok)
	assert.EqualValues(t, 499, got.CommandHash, "expected the latest duplicate entry to survive")
}
