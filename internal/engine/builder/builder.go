// Package builder drains a Plan against a CommandRunner, updating the
// build log, deps log, and status printer as commands complete. This
// is the engine's single concurrency boundary: everything else in
// internal/engine runs synchronously on this goroutine.
package builder

import (
	"context"

	"go.novabuild.dev/nova/internal/domain"
	"go.novabuild.dev/nova/internal/engine/depsloader"
	"go.novabuild.dev/nova/internal/engine/plan"
	"go.novabuild.dev/nova/internal/ports"
	"go.trai.ch/zerr"
)

// Clock supplies wall-clock timestamps for build log entries, injected
// so tests can drive deterministic start/end times.
type Clock interface {
	NowMillis() int64
}

// Scanner is the subset of internal/engine/scan.Scanner the builder
// calls directly, kept as an interface so builder tests need not wire
// a real disk.
type Scanner interface {
	RecomputeDirtyNode(n *domain.Node) error
}

// Builder owns the Plan, CommandRunner, BuildLog, DepsLog, Disk, and
// StatusPrinter for one build invocation, and implements the main loop
// from spec §4.7.
type Builder struct {
	graph    *domain.Graph
	plan     *plan.Plan
	scanner  Scanner
	runner   ports.CommandRunner
	disk     ports.Disk
	buildLog ports.BuildLog
	depsLog  ports.DepsLog
	status   ports.StatusPrinter
	logger   ports.Logger
	tracer   ports.Tracer
	clock    Clock

	failuresRemaining int
	started           int
	running           map[*domain.Edge]struct{}
	spans             map[*domain.Edge]ports.Span
}

// Config bundles the Builder's external collaborators.
type Config struct {
	Graph             *domain.Graph
	Plan              *plan.Plan
	Scanner           Scanner
	Runner            ports.CommandRunner
	Disk              ports.Disk
	BuildLog          ports.BuildLog
	DepsLog           ports.DepsLog
	Status            ports.StatusPrinter
	Logger            ports.Logger
	Tracer            ports.Tracer
	Clock             Clock
	FailuresRemaining int // 0 means "default to 1" (stop at first failure)
}

// New returns a Builder ready to run Build.
func New(cfg Config) *Builder {
	failures := cfg.FailuresRemaining
	if failures <= 0 {
		failures = 1
	}
	return &Builder{
		graph:             cfg.Graph,
		plan:              cfg.Plan,
		scanner:           cfg.Scanner,
		runner:            cfg.Runner,
		disk:              cfg.Disk,
		buildLog:          cfg.BuildLog,
		depsLog:           cfg.DepsLog,
		status:            cfg.Status,
		logger:            cfg.Logger,
		tracer:            cfg.Tracer,
		clock:             cfg.Clock,
		failuresRemaining: failures,
		running:           make(map[*domain.Edge]struct{}),
		spans:             make(map[*domain.Edge]ports.Span),
	}
}

// Result summarizes the outcome of a Build call.
type Result struct {
	Built       int
	Cached      int
	Failed      int
	Interrupted bool
}

// Build runs the plan to completion, or until the failure budget is
// exhausted or ctx is cancelled. See spec §4.7.
func (b *Builder) Build(ctx context.Context) (Result, error) {
	var result Result

	for {
		if err := ctx.Err(); err != nil {
			b.interrupt()
			result.Interrupted = true
			return result, nil
		}

		for b.runner.CanRunMore() {
			edge, ok := b.plan.FindWork()
			if !ok {
				break
			}
			if edge.Rule.IsPhony() {
				b.finishPhony(edge, &result)
				continue
			}
			if err := b.start(ctx, edge); err != nil {
				return result, err
			}
		}

		if b.started == 0 {
			break
		}

		res, ok := b.runner.WaitForCommand()
		if !ok {
			break
		}
		b.started--
		delete(b.running, res.Edge)

		switch res.Status {
		case ports.ExitSuccess:
			if err := b.onSuccess(res, &result); err != nil {
				return result, err
			}
		case ports.ExitFailure:
			b.onFailure(res, &result)
			if b.failuresRemaining <= 0 {
				b.interrupt()
				return result, nil
			}
		case ports.ExitInterrupted:
			result.Interrupted = true
			b.interrupt()
			return result, nil
		}

		if !b.plan.MoreToDo() && b.started == 0 {
			break
		}
	}

	b.status.Summary(result.Built, result.Cached, result.Failed)
	return result, nil
}

func (b *Builder) finishPhony(edge *domain.Edge, result *Result) {
	result.Cached++
	b.plan.EdgeFinished(edge)
}

func (b *Builder) start(ctx context.Context, edge *domain.Edge) error {
	console := edge.Pool != nil && edge.Pool.IsConsole()

	vtxCtx, vertex := b.status.Vertex(ctx, edge.Binding("description"))
	if wanted, _ := b.plan.IsWanted(edge); !wanted {
		vertex.Cached()
	}

	cmdCtx := vtxCtx
	if b.tracer != nil {
		var span ports.Span
		cmdCtx, span = b.tracer.Start(vtxCtx, edge.Binding("description"))
		span.SetAttribute("rule", edge.Rule.Name)
		if len(edge.Outputs) > 0 {
			span.SetAttribute("output", edge.Outputs[0].Path)
		}
		b.spans[edge] = span
	}

	if err := b.runner.StartCommand(cmdCtx, edge, console); err != nil {
		b.endSpan(edge, err)
		vertex.Complete(err)
		return zerr.Wrap(err, "failed to start command")
	}
	b.running[edge] = struct{}{}
	b.started++
	return nil
}

// endSpan closes edge's tracing span, if one was started, recording
// err on it first when non-nil.
func (b *Builder) endSpan(edge *domain.Edge, err error) {
	span, ok := b.spans[edge]
	if !ok {
		return
	}
	if err != nil {
		span.RecordError(err)
	}
	span.End()
	delete(b.spans, edge)
}

func (b *Builder) onSuccess(res *ports.CommandResult, result *Result) error {
	edge := res.Edge
	now := b.clock.NowMillis()

	if edge.IsGenerator() || hasDepsAttr(edge) {
		if err := b.postProcessDeps(edge); err != nil {
			return err
		}
	}

	restatMtime := int64(0)
	if edge.IsRestat() {
		if cleaned, err := b.applyRestat(edge, &restatMtime); err != nil {
			return err
		} else if cleaned {
			for _, o := range edge.Outputs {
				if err := b.plan.CleanNode(o); err != nil {
					return err
				}
			}
		}
	}

	for _, o := range edge.Outputs {
		entry := ports.BuildLogEntry{
			Output:      o.Path,
			CommandHash: domain.HashCommand(edge.HashableCommand()),
			StartTime:   now,
			EndTime:     now,
			RestatMtime: restatMtime,
		}
		if err := b.buildLog.Record(entry); err != nil {
			return err
		}
	}

	result.Built++
	b.endSpan(edge, nil)
	b.plan.EdgeFinished(edge)
	return nil
}

func (b *Builder) onFailure(res *ports.CommandResult, result *Result) {
	result.Failed++
	b.failuresRemaining--
	if res.Err != nil {
		b.endSpan(res.Edge, res.Err)
	} else {
		b.endSpan(res.Edge, zerr.New("command failed"))
	}
	if b.logger != nil {
		if res.Err != nil {
			b.logger.Error(res.Err)
		} else {
			b.logger.Error(zerr.New("command failed"))
		}
	}
	// The failed edge stays in the want-map (never EdgeFinished), so its
	// consumers remain blocked while unrelated ready work continues.
}

// applyRestat stats each output post-run and compares against its
// pre-run mtime, computing the effective restat_mtime: the max over
// outputs that did change, or the most recent input's mtime for
// outputs that held steady. Returns cleaned=true if every output held
// steady, the case the scanner's restat exception exists for.
func (b *Builder) applyRestat(edge *domain.Edge, restatMtime *int64) (cleaned bool, err error) {
	cleaned = true
	var mostRecentInput int64
	for _, n := range edge.Inputs[:edge.ExplicitDeps+edge.ImplicitDeps] {
		mostRecentInput = max(mostRecentInput, n.Mtime)
	}
	for _, n := range edge.LoadedDeps {
		mostRecentInput = max(mostRecentInput, n.Mtime)
	}
	for _, o := range edge.Outputs {
		prevMtime := o.Mtime
		st, err := b.disk.Stat(o.Path)
		if err != nil {
			return false, err
		}
		newMtime := int64(0)
		if st.Exists {
			newMtime = st.Mtime.UnixNano()
		}
		if newMtime != prevMtime {
			cleaned = false
			if newMtime > *restatMtime {
				*restatMtime = newMtime
			}
		} else if mostRecentInput > *restatMtime {
			*restatMtime = mostRecentInput
		}
		o.Mtime = newMtime
	}
	return cleaned, nil
}

func hasDepsAttr(edge *domain.Edge) bool {
	return edge.Binding("deps") != ""
}

// postProcessDeps re-reads a generator's or deps-mode edge's freshly
// produced depfile/compiler deps output and extends the deps log, so
// the next scan sees the implicit inputs without re-running anything.
func (b *Builder) postProcessDeps(edge *domain.Edge) error {
	if depfile := edge.Binding("depfile"); depfile != "" {
		content, err := b.disk.ReadFile(depfile)
		if err != nil || len(content) == 0 {
			return nil
		}
		_, ins, err := depsloader.ParseDepfile(string(content))
		if err != nil {
			return err
		}
		if len(edge.ExplicitOutputNodes()) == 0 {
			return nil
		}
		out := edge.ExplicitOutputNodes()[0]
		if b.depsLog != nil {
			return b.depsLog.RecordDeps(out.Path, out.Mtime, ins)
		}
	}
	return nil
}

// interrupt asks the runner to abort outstanding commands, drains
// their results, and removes partial outputs of edges that were still
// running, per spec §4.7/§5.
func (b *Builder) interrupt() {
	b.runner.Abort()

	wasRunning := make([]*domain.Edge, 0, len(b.running))
	for edge := range b.running {
		wasRunning = append(wasRunning, edge)
	}

	for len(b.running) > 0 {
		res, ok := b.runner.WaitForCommand()
		if !ok {
			break
		}
		delete(b.running, res.Edge)
		b.started--
	}
	for _, edge := range wasRunning {
		b.endSpan(edge, zerr.New("build interrupted"))
		b.cleanupPartialOutputs(edge)
	}
}

func (b *Builder) cleanupPartialOutputs(edge *domain.Edge) {
	for _, o := range edge.Outputs {
		if err := b.disk.Remove(o.Path); err != nil && b.logger != nil {
			b.logger.Debug("failed to remove partial output " + o.Path)
		}
	}
}
