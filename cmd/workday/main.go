package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/workday/adapter/cli"
	"github.com/felixgeelhaar/workday/adapter/cli/calendar"
	"github.com/felixgeelhaar/workday/adapter/cli/carryover"
	"github.com/felixgeelhaar/workday/adapter/cli/mcp"
	"github.com/felixgeelhaar/workday/adapter/cli/schedule"
	"github.com/felixgeelhaar/workday/adapter/cli/template"
	"github.com/felixgeelhaar/workday/adapter/cli/xp"
	"github.com/felixgeelhaar/workday/internal/app"
	mcpinternal "github.com/felixgeelhaar/workday/internal/mcp"
	"github.com/felixgeelhaar/workday/pkg/config"
	"github.com/felixgeelhaar/workday/pkg/observability"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Setup logger
	logger := observability.LoggerFromEnv()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return 1
	}
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if !cfg.IsDevelopment() {
			logger.Error("failed to initialize container", "error", err)
			return 1
		}
		// Commands that need the day report ErrNoApp; version still works.
		logger.Warn("failed to initialize container, running in limited mode", "error", err)
	} else {
		defer container.Close()
		container.StartBackground(ctx)
		cli.SetApp(mcpinternal.NewCLIApp(container))
	}

	// Register commands
	cli.AddCommand(schedule.Cmd)
	cli.AddCommand(carryover.Cmd)
	cli.AddCommand(xp.Cmd)
	cli.AddCommand(template.Cmd)
	cli.AddCommand(calendar.Cmd)
	cli.AddCommand(mcp.Cmd)

	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}
