package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/workday/internal/app"
	mcpinternal "github.com/felixgeelhaar/workday/internal/mcp"
	"github.com/felixgeelhaar/workday/pkg/config"
	"github.com/felixgeelhaar/workday/pkg/observability"
)

func main() {
	logger := observability.NewLogger(observability.LogConfig{
		Level:       slog.LevelInfo,
		Format:      observability.LogFormatJSON,
		Output:      os.Stdout,
		ServiceName: "workday-mcp",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()
	container.StartBackground(ctx)

	cliApp := mcpinternal.NewCLIApp(container)

	if err := mcpinternal.Serve(ctx, cfg, cliApp, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
