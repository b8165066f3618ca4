package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/workday/internal/scheduling/application/services"
)

func registerCalendarTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("calendar.push").
		Description("Write today's blocks to the configured CalDAV calendar").
		Handler(func(ctx context.Context, input struct{}) (*services.MirrorResult, error) {
			if err := requireSession(app); err != nil {
				return nil, err
			}
			if app.CalendarMirror == nil || !app.CalendarMirror.Configured() {
				return nil, errors.New("no CalDAV server configured")
			}
			view, err := app.Session.Open(ctx, 0)
			if err != nil {
				return nil, err
			}
			return app.CalendarMirror.Push(ctx, app.CurrentUserID, app.Session.Today(), view.Blocks)
		})

	return nil
}
