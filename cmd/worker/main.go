package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/workday/internal/app"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/workday/pkg/config"
	"github.com/felixgeelhaar/workday/pkg/observability"
)

func main() {
	// Setup logger
	logger := observability.LoggerFromEnv()

	logger.Info("starting workday worker")

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.RemoteMode() {
		logger.Error("the worker needs a database; unset WORKDAY_API_URL")
		os.Exit(1)
	}

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	// Consume from RabbitMQ when the outbox publishes there. Without a
	// broker the outbox feeds the in-process bus directly.
	if container.LocalBus == nil {
		consumer, err := eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
			URL:       cfg.RabbitMQURL,
			QueueName: eventbus.DefaultQueueName,
			Logger:    logger,
		}, eventbus.NewRegistry(logger))
		if err != nil {
			logger.Error("failed to create RabbitMQ consumer", "error", err)
			os.Exit(1)
		}
		defer consumer.Close()

		for _, sub := range []eventbus.EventConsumer{container.WorkStatsSubscriber, container.CalendarMirrorSubscriber} {
			if err := consumer.Subscribe(sub); err != nil {
				logger.Error("failed to subscribe", "error", err)
				os.Exit(1)
			}
		}
		go func() {
			if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("event consumer stopped", "error", err)
				cancel()
			}
		}()
	} else {
		logger.Info("no RabbitMQ configured, dispatching events in process")
	}

	processor := container.OutboxProcessor
	processor.Start(ctx)
	container.SyncQueue.Start(ctx)

	cleanupTicker := time.NewTicker(cfg.OutboxCleanupInterval)
	defer cleanupTicker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-cleanupTicker.C:
				cleanup(ctx, container, cfg, logger)
			}
		}
	}()

	if cfg.WorkerHealthAddr != "" {
		healthSrv := &http.Server{
			Addr:              cfg.WorkerHealthAddr,
			Handler:           healthMux(container),
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			logger.Info("health server starting", "addr", cfg.WorkerHealthAddr)
			if err := healthSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("health server error", "error", err)
			}
		}()

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := healthSrv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("health server shutdown error", "error", err)
			}
		}()
	}

	statsTicker := time.NewTicker(cfg.OutboxStatsInterval)
	defer statsTicker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-statsTicker.C:
				stats := processor.Stats()
				logger.Info("outbox stats",
					"running", stats.Running,
					"published", stats.Published,
					"failed", stats.Failed,
					"dead_lettered", stats.DeadLettered,
					"lag_seconds", stats.LagSeconds,
					"last_processed_at", stats.LastProcessedAt,
					"last_error_at", stats.LastErrorAt,
					"last_error", stats.LastError,
				)
			}
		}
	}()

	// Wait for shutdown
	<-ctx.Done()
	logger.Info("shutting down worker")

	processor.Stop()
	logger.Info("worker stopped")

	fmt.Println("Goodbye!")
}

// cleanup drops published outbox messages past retention and expired
// snapshot rows.
func cleanup(ctx context.Context, container *app.Container, cfg *config.Config, logger *slog.Logger) {
	cutoff := time.Now().AddDate(0, 0, -cfg.OutboxRetentionDays)
	deleted, err := container.OutboxRepo.DeleteOld(ctx, cutoff)
	if err != nil {
		logger.Error("outbox cleanup failed", "error", err)
	} else if deleted > 0 {
		logger.Info("outbox cleanup completed", "deleted", deleted, "retention_days", cfg.OutboxRetentionDays)
	}

	if container.SnapshotSQL == nil {
		return
	}
	purged, err := container.SnapshotSQL.Purge(ctx)
	if err != nil {
		logger.Error("snapshot purge failed", "error", err)
		return
	}
	if purged > 0 {
		logger.Info("expired snapshots purged", "deleted", purged)
	}
}

func healthMux(container *app.Container) *http.ServeMux {
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"outbox": container.OutboxProcessor.Stats(),
			"sync":   container.SyncQueue.Stats(),
		})
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		report := container.Health.Check(checkCtx)
		status := http.StatusOK
		if report.Status == observability.HealthStatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, report)
	})

	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, container.Metrics.Snapshot())
	})

	return mux
}
