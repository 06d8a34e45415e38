// Package main is the entry point for the nova build tool.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.novabuild.dev/nova/cmd/nova/commands"
	"go.novabuild.dev/nova/internal/app"
	"go.novabuild.dev/nova/internal/domain"
	_ "go.novabuild.dev/nova/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run(opts ...func(*app.App)) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed.
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 2
	}
	defer func() {
		_ = components.App.Close()
	}()

	for _, opt := range opts {
		opt(components.App)
	}

	cli := commands.New(components.App, components.Config)

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrBuildExecutionFailed) {
			return 1
		}
		components.Logger.Error(err)
		return 2
	}
	return 0
}
