// Package api serves the schedule and gamification HTTP API.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/workday/pkg/observability"
	"github.com/google/uuid"
)

// Server is the HTTP API server.
type Server struct {
	mux          *http.ServeMux
	server       *http.Server
	logger       *slog.Logger
	schedule     *ScheduleHandler
	gamification *GamificationHandler
	health       *observability.HealthRegistry
	defaultUser  uuid.UUID
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// DefaultUser serves requests without an X-User-ID header.
	DefaultUser uuid.UUID
}

func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func NewServer(cfg ServerConfig, schedule *ScheduleHandler, gamification *GamificationHandler, health *observability.HealthRegistry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if health == nil {
		health = observability.NewHealthRegistry()
	}

	s := &Server{
		mux:          http.NewServeMux(),
		logger:       logger,
		schedule:     schedule,
		gamification: gamification,
		health:       health,
		defaultUser:  cfg.DefaultUser,
	}
	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /api/v1/schedule/blocks", s.schedule.GetBlocks)
	s.mux.HandleFunc("PUT /api/v1/schedule/blocks", s.schedule.SaveBlocks)
	s.mux.HandleFunc("PATCH /api/v1/schedule/blocks/{id}", s.schedule.PatchBlock)
	s.mux.HandleFunc("GET /api/v1/schedule/incomplete", s.schedule.GetIncomplete)
	s.mux.HandleFunc("POST /api/v1/schedule/carryover", s.schedule.CarryOver)
	s.mux.HandleFunc("GET /api/v1/config", s.schedule.GetConfig)
	s.mux.HandleFunc("PUT /api/v1/config/template", s.schedule.SaveTemplate)

	s.mux.HandleFunc("GET /api/v1/gamification", s.gamification.GetProfile)
	s.mux.HandleFunc("POST /api/v1/gamification/xp", s.gamification.AwardXP)
	s.mux.HandleFunc("POST /api/v1/gamification/streak", s.gamification.UpdateStreak)
	s.mux.HandleFunc("POST /api/v1/gamification/achievements/{id}/unlock", s.gamification.UnlockAchievement)
}

// Handler returns the routes wrapped in the request context middleware.
func (s *Server) Handler() http.Handler {
	return s.withRequestContext(s.mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.health.Check(r.Context())
	status := http.StatusOK
	if health.Status == observability.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

func (s *Server) Start() error {
	s.logger.Info("starting workday API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down workday API server")
	return s.server.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("invalid JSON body: " + err.Error())
	}
	return nil
}
