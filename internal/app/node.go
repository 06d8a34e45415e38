package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.novabuild.dev/nova/internal/adapters/config"
	"go.novabuild.dev/nova/internal/adapters/depslog"
	"go.novabuild.dev/nova/internal/adapters/fsdisk"
	"go.novabuild.dev/nova/internal/adapters/logger" //nolint:depguard // wired in app layer
	"go.novabuild.dev/nova/internal/adapters/manifest"
	"go.novabuild.dev/nova/internal/adapters/shell"
	"go.novabuild.dev/nova/internal/adapters/status"
	"go.novabuild.dev/nova/internal/adapters/telemetry"
	"go.novabuild.dev/nova/internal/engine/buildlog"
	"go.novabuild.dev/nova/internal/ports"
)

const (
	// NodeID is the unique identifier for the main App Graft node.
	NodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components
	// Graft node the CLI entry point resolves.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			manifest.NodeID,
			fsdisk.NodeID,
			buildlog.NodeID,
			depslog.NodeID,
			shell.NodeID,
			status.NodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			NodeID,
			logger.NodeID,
			config.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	manifestLoader, err := graft.Dep[ports.ManifestLoader](ctx)
	if err != nil {
		return nil, err
	}
	disk, err := graft.Dep[ports.Disk](ctx)
	if err != nil {
		return nil, err
	}
	buildLog, err := graft.Dep[ports.BuildLog](ctx)
	if err != nil {
		return nil, err
	}
	depsLog, err := graft.Dep[ports.DepsLog](ctx)
	if err != nil {
		return nil, err
	}
	runner, err := graft.Dep[ports.CommandRunner](ctx)
	if err != nil {
		return nil, err
	}
	statusPrinter, err := graft.Dep[ports.StatusPrinter](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	return New(manifestLoader, disk, buildLog, depsLog, runner, statusPrinter, log, tracer), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	a, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := graft.Dep[ports.Config](ctx)
	if err != nil {
		return nil, err
	}
	return &Components{App: a, Logger: log, Config: cfg}, nil
}
