// Package app implements nova's application layer: loading a manifest,
// scanning it against the current filesystem and build log, and
// driving the builder to convergence for a requested target set.
package app

import (
	"context"
	"os"
	"time"

	"go.novabuild.dev/nova/internal/domain"
	"go.novabuild.dev/nova/internal/engine/builder"
	"go.novabuild.dev/nova/internal/engine/depsloader"
	"go.novabuild.dev/nova/internal/engine/plan"
	"go.novabuild.dev/nova/internal/engine/scan"
	"go.novabuild.dev/nova/internal/ports"
	"go.trai.ch/zerr"
)

// DefaultManifest is the conventional manifest filename nova looks for
// in the working directory, mirroring ninja's "build.ninja".
const DefaultManifest = "build.nova"

// App wires the manifest loader, disk, build log, deps log, command
// runner, status printer, logger, and tracer into one build invocation.
type App struct {
	manifest ports.ManifestLoader
	disk     ports.Disk
	buildLog ports.BuildLog
	depsLog  ports.DepsLog
	runner   ports.CommandRunner
	status   ports.StatusPrinter
	logger   ports.Logger
	tracer   ports.Tracer
}

// New creates an App instance from its adapter dependencies.
func New(
	manifest ports.ManifestLoader,
	disk ports.Disk,
	buildLog ports.BuildLog,
	depsLog ports.DepsLog,
	runner ports.CommandRunner,
	status ports.StatusPrinter,
	logger ports.Logger,
	tracer ports.Tracer,
) *App {
	return &App{
		manifest: manifest,
		disk:     disk,
		buildLog: buildLog,
		depsLog:  depsLog,
		runner:   runner,
		status:   status,
		logger:   logger,
		tracer:   tracer,
	}
}

// RunOptions configures one Build invocation.
type RunOptions struct {
	// ManifestPath overrides DefaultManifest.
	ManifestPath string
	// FailuresAllowed is how many command failures to tolerate before
	// aborting the remaining build (ninja's -k). 0 defaults to 1.
	FailuresAllowed int
}

// Build loads the manifest, resolves targetNames (or the manifest's
// declared defaults / root nodes when empty) against the graph, scans
// them for dirtiness, and runs the plan to completion.
func (a *App) Build(ctx context.Context, targetNames []string, opts RunOptions) error {
	manifestPath := opts.ManifestPath
	if manifestPath == "" {
		manifestPath = DefaultManifest
	}

	graph, err := a.manifest.Load(".", manifestPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load manifest")
	}

	targets, err := a.resolveTargets(graph, targetNames)
	if err != nil {
		return err
	}

	scanner := scan.New(a.disk, a.buildLog, depsloader.New(a.disk, a.depsLog, graph, a.logger))
	p := plan.New(scanner)

	outputNames := make([]string, 0, len(targets))
	for _, t := range targets {
		if err := scanner.RecomputeDirtyNode(t); err != nil {
			return zerr.Wrap(err, "failed to scan target")
		}
		if err := p.AddTarget(t); err != nil {
			return err
		}
		outputNames = append(outputNames, t.Path)
	}
	if a.tracer != nil {
		planCtx, span := a.tracer.Start(ctx, "build")
		a.tracer.EmitPlan(planCtx, outputNames)
		span.End()
	}

	b := builder.New(builder.Config{
		Graph:             graph,
		Plan:              p,
		Scanner:           scanner,
		Runner:            a.runner,
		Disk:              a.disk,
		BuildLog:          a.buildLog,
		DepsLog:           a.depsLog,
		Status:            a.status,
		Logger:            a.logger,
		Tracer:            a.tracer,
		Clock:             systemClock{},
		FailuresRemaining: opts.FailuresAllowed,
	})

	result, err := b.Build(ctx)
	if err != nil {
		return zerr.Wrap(err, "build aborted")
	}
	if result.Failed > 0 {
		return zerr.With(domain.ErrBuildExecutionFailed, "failed", result.Failed)
	}
	return nil
}

func (a *App) resolveTargets(graph *domain.Graph, targetNames []string) ([]*domain.Node, error) {
	if len(targetNames) == 0 {
		roots := graph.RootNodes()
		if len(roots) == 0 {
			return nil, domain.ErrNoTargetsSpecified
		}
		return roots, nil
	}

	targets := make([]*domain.Node, 0, len(targetNames))
	for _, name := range targetNames {
		path, _ := domain.CanonicalPath(name)
		n := graph.LookupNode(path)
		if n == nil {
			return nil, zerr.With(domain.ErrUnknownTarget, "target", name)
		}
		targets = append(targets, n)
	}
	return targets, nil
}

// CleanOptions selects which persisted state Clean removes.
type CleanOptions struct {
	BuildLog bool
	DepsLog  bool
}

// Clean removes nova's persisted build state (the build log and/or
// deps log), forcing a subsequent build to treat every edge as unknown
// rather than consulting stale history.
func (a *App) Clean(_ context.Context, buildLogPath, depsLogPath string, opts CleanOptions) error {
	remove := func(path, name string) error {
		a.logger.Info("removing " + name + "...")
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return zerr.Wrap(err, "failed to remove "+name)
		}
		a.logger.Info("removed " + name)
		return nil
	}

	if opts.BuildLog {
		if err := remove(buildLogPath, "build log"); err != nil {
			return err
		}
	}
	if opts.DepsLog {
		if err := remove(depsLogPath, "deps log"); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes and releases the App's persistent adapters.
func (a *App) Close() error {
	var errs error
	if a.buildLog != nil {
		if err := a.buildLog.Close(); err != nil {
			errs = zerr.Wrap(err, "failed to close build log")
		}
	}
	if a.depsLog != nil {
		if err := a.depsLog.Close(); err != nil {
			errs = zerr.Wrap(err, "failed to close deps log")
		}
	}
	return errs
}

// systemClock supplies wall-clock timestamps for build log entries.
type systemClock struct{}

func (systemClock) NowMillis() int64 { return time.Now().UnixMilli() }

var _ builder.Clock = systemClock{}
