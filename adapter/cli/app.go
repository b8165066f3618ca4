package cli

import (
	"github.com/felixgeelhaar/workday/adapter/api"
	gamificationCommands "github.com/felixgeelhaar/workday/internal/gamification/application/commands"
	gamificationQueries "github.com/felixgeelhaar/workday/internal/gamification/application/queries"
	"github.com/felixgeelhaar/workday/internal/scheduling/application/services"
	"github.com/felixgeelhaar/workday/pkg/config"
	"github.com/felixgeelhaar/workday/pkg/observability"
	"github.com/google/uuid"
)

// App holds the CLI application dependencies.
type App struct {
	Config *config.Config

	// Day
	Session   *services.DaySession
	CarryOver *services.CarryOverCoordinator
	Schedule  services.ScheduleGateway
	XP        services.XPGateway

	// Gamification handlers. Nil when the schedule lives behind a remote API.
	GetProfileHandler        *gamificationQueries.GetProfileHandler
	UnlockAchievementHandler *gamificationCommands.UnlockAchievementHandler

	// Calendar mirror
	CalendarMirror services.CalendarMirror

	// APIServer is nil when no database is open.
	APIServer *api.Server

	Health *observability.HealthRegistry

	// Current user context
	CurrentUserID uuid.UUID
}

// NewApp creates a new CLI application.
func NewApp(
	cfg *config.Config,
	session *services.DaySession,
	carryOver *services.CarryOverCoordinator,
	schedule services.ScheduleGateway,
	xp services.XPGateway,
) *App {
	a := &App{
		Config:    cfg,
		Session:   session,
		CarryOver: carryOver,
		Schedule:  schedule,
		XP:        xp,
	}
	if session != nil {
		a.CurrentUserID = session.UserID()
	}
	return a
}

// SetCurrentUserID sets the current user ID.
func (a *App) SetCurrentUserID(id uuid.UUID) {
	a.CurrentUserID = id
}

// SetGamificationHandlers sets the handlers only local mode has.
func (a *App) SetGamificationHandlers(profile *gamificationQueries.GetProfileHandler, unlock *gamificationCommands.UnlockAchievementHandler) {
	a.GetProfileHandler = profile
	a.UnlockAchievementHandler = unlock
}

// SetCalendarMirror sets the calendar mirror.
func (a *App) SetCalendarMirror(mirror services.CalendarMirror) {
	a.CalendarMirror = mirror
}

// SetAPIServer sets the HTTP API server.
func (a *App) SetAPIServer(srv *api.Server) {
	a.APIServer = srv
}

// SetHealth sets the dependency health registry.
func (a *App) SetHealth(h *observability.HealthRegistry) {
	a.Health = h
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
