package ports

// DepsLog records, per output, the implicit dependencies discovered the
// last time that output's edge ran (either from its depfile or from a
// compiler's own deps output), so subsequent builds can recompute
// dirtiness without re-running the command.
type DepsLog interface {
	// GetDeps returns the implicit dependency paths and the mtime the
	// output had when they were recorded, or ok=false if output has no
	// recorded entry.
	GetDeps(output string) (paths []string, mtime int64, ok bool)

	// RecordDeps appends a new entry for output. Superseded entries are
	// left in place until Compact is called.
	RecordDeps(output string, mtime int64, paths []string) error

	// Compact rewrites the log keeping only the latest entry per output.
	Compact() error

	Close() error
}
