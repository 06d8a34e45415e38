// Package fsdisk implements ports.Disk against the real filesystem.
package fsdisk

import (
	"os"
	"path/filepath"

	"go.novabuild.dev/nova/internal/ports"
	"go.trai.ch/zerr"
)

// Disk is the real-filesystem ports.Disk implementation.
type Disk struct{}

// New returns a Disk backed by os.
func New() *Disk { return &Disk{} }

// Stat reports path's existence and mtime. A missing file is not an
// error: Exists is simply false.
func (d *Disk) Stat(path string) (ports.DiskStat, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ports.DiskStat{}, nil
		}
		return ports.DiskStat{}, zerr.With(zerr.Wrap(err, "failed to stat path"), "path", path)
	}
	return ports.DiskStat{Exists: true, Mtime: info.ModTime()}, nil
}

// ReadFile reads path's full contents.
func (d *Disk) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is manifest/depfile-supplied, not attacker input
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read file"), "path", path)
	}
	return data, nil
}

// WriteFile writes data to path, creating or truncating it.
func (d *Disk) WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // build output, not sensitive
		return zerr.With(zerr.Wrap(err, "failed to write file"), "path", path)
	}
	return nil
}

// MkdirAll creates path and any missing parents.
func (d *Disk) MkdirAll(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil { //nolint:gosec // build output directory
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", path)
	}
	return nil
}

// Remove deletes path. A path that does not exist is not an error, so
// interrupt cleanup of a partially-written output is idempotent.
func (d *Disk) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return zerr.With(zerr.Wrap(err, "failed to remove file"), "path", path)
	}
	return nil
}

// EnsureParentDir creates the parent directory of path, used by the
// builder before an edge's command can be expected to write there.
func (d *Disk) EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return d.MkdirAll(dir)
}
