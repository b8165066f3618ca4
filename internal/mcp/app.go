package mcp

import (
	"github.com/felixgeelhaar/workday/adapter/cli"
	"github.com/felixgeelhaar/workday/internal/app"
)

// NewCLIApp creates a CLI application instance backed by the provided container.
func NewCLIApp(container *app.Container) *cli.App {
	cliApp := cli.NewApp(
		container.Config,
		container.Session,
		container.CarryOver,
		container.ScheduleGateway,
		container.XPGateway,
	)

	if container.GetProfileHandler != nil {
		cliApp.SetGamificationHandlers(container.GetProfileHandler, container.UnlockAchievementHandler)
	}
	if container.CalendarMirror != nil {
		cliApp.SetCalendarMirror(container.CalendarMirror)
	}
	if srv := container.NewAPIServer(); srv != nil {
		cliApp.SetAPIServer(srv)
	}
	cliApp.SetHealth(container.Health)

	return cliApp
}
