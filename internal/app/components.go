package app

import "go.novabuild.dev/nova/internal/ports"

// Components is the subset of the wired dependency graph the CLI entry
// point needs directly: the App to drive commands through, a Logger to
// report fatal errors that occur before the App exists, and the
// optional on-disk Config supplying default flag values.
type Components struct {
	App    *App
	Logger ports.Logger
	Config ports.Config
}
