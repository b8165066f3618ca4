package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/workday/internal/app"
	"github.com/felixgeelhaar/workday/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContainer(t *testing.T) (*app.Container, *config.Config) {
	t.Helper()
	cfg := &config.Config{
		AppEnv:              "test",
		DatabaseDriver:      "sqlite",
		SQLitePath:          filepath.Join(t.TempDir(), "worker.db"),
		UserID:              config.DefaultUserID,
		ScheduleStartTime:   "08:00",
		TargetWorkMinutes:   480,
		OutboxRetentionDays: 14,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	container, err := app.NewLocalContainer(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(container.Close)
	return container, cfg
}

func TestHealthMux(t *testing.T) {
	container, _ := newContainer(t)
	mux := healthMux(container)

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.True(t, json.Valid(rec.Body.Bytes()), path)
	}
}

func TestCleanup(t *testing.T) {
	container, cfg := newContainer(t)
	ctx := context.Background()

	backend := container.SnapshotSQL
	backend.WithClock(func() time.Time { return time.Now().Add(-time.Hour) })
	require.NoError(t, backend.Set(ctx, "stale", []byte("x"), time.Minute))
	backend.WithClock(time.Now)

	cleanup(ctx, container, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	purged, err := backend.Purge(ctx)
	require.NoError(t, err)
	assert.Zero(t, purged)
}
