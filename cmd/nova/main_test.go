package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_BuildsDefaultTarget(t *testing.T) {
	originalArgs := os.Args
	defer func() { os.Args = originalArgs }()

	tmpDir := t.TempDir()
	manifest := `rule cat
  command = cat $in > $out

build out.txt: cat in.txt
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "build.nova"), []byte(manifest), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "in.txt"), []byte("hello\n"), 0o644))

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	defer func() { _ = os.Chdir(originalWd) }()

	os.Args = []string{"nova"}

	exitCode := run()
	assert.Equal(t, 0, exitCode)

	content, err := os.ReadFile(filepath.Join(tmpDir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(content))
}

func TestRun_UnknownTargetFails(t *testing.T) {
	originalArgs := os.Args
	defer func() { os.Args = originalArgs }()

	tmpDir := t.TempDir()
	manifest := `rule cat
  command = cat $in > $out

build out.txt: cat in.txt
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "build.nova"), []byte(manifest), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "in.txt"), []byte("hello\n"), 0o644))

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	defer func() { _ = os.Chdir(originalWd) }()

	os.Args = []string{"nova", "nonexistent.txt"}

	exitCode := run()
	assert.Equal(t, 2, exitCode)
}
