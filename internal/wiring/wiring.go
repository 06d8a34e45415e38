// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.novabuild.dev/nova/internal/adapters/config"
	_ "go.novabuild.dev/nova/internal/adapters/depslog"
	_ "go.novabuild.dev/nova/internal/adapters/fsdisk"
	_ "go.novabuild.dev/nova/internal/adapters/logger"
	_ "go.novabuild.dev/nova/internal/adapters/manifest"
	_ "go.novabuild.dev/nova/internal/adapters/shell"
	_ "go.novabuild.dev/nova/internal/adapters/status"
	_ "go.novabuild.dev/nova/internal/adapters/telemetry"
	// Register engine nodes.
	_ "go.novabuild.dev/nova/internal/engine/buildlog"
	// Register the application layer.
	_ "go.novabuild.dev/nova/internal/app"
)
