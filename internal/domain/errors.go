package domain

import "go.trai.ch/zerr"

// Fatal graph/manifest errors. All are constructed once and enriched
// with zerr.With metadata (edge outputs, cycle path, paths, ...) at the
// call site, mirroring how the project's task graph reports
// ErrCycleDetected / ErrMissingDependency with attached context.
var (
	ErrDuplicateRule           = zerr.New("duplicate rule")
	ErrDuplicatePool           = zerr.New("duplicate pool")
	ErrUnknownRule             = zerr.New("unknown rule")
	ErrUnknownPool             = zerr.New("unknown pool")
	ErrReservedBindingCycle    = zerr.New("dependency cycle in rule bindings")
	ErrMissingAndNoRule        = zerr.New("missing and no known rule to make it")
	ErrDependencyCycle         = zerr.New("dependency cycle")
	ErrDepfileMismatch         = zerr.New("depfile output mismatch")
	ErrMultipleOutputsWithDeps = zerr.New("edge with deps may have at most one explicit output")
	ErrManifestSyntax          = zerr.New("manifest syntax error")

	// ErrNoTargetsSpecified is returned when a build is requested with
	// no explicit targets and the manifest declares no defaults and no
	// root nodes to fall back to.
	ErrNoTargetsSpecified = zerr.New("no targets specified and manifest declares no defaults")

	// ErrUnknownTarget is returned when a requested target names a path
	// the graph has never seen, from the manifest or any depfile.
	ErrUnknownTarget = zerr.New("unknown target")

	// ErrBuildExecutionFailed wraps a non-nil Builder.Build result so
	// the CLI can distinguish "ran, but a command failed" (exit 1) from
	// a fatal setup error (exit 2).
	ErrBuildExecutionFailed = zerr.New("build execution failed")
)
