package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/workday/internal/gamification/application/queries"
	"github.com/felixgeelhaar/workday/internal/gamification/domain"
	"github.com/felixgeelhaar/workday/internal/scheduling/application/dto"
)

// RegisterResources registers MCP resources that expose the day.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	if err := registerScheduleResources(srv, deps); err != nil {
		return err
	}
	if err := registerXPResources(srv, deps); err != nil {
		return err
	}

	return nil
}

func jsonResource(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}

func registerScheduleResources(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Resource("workday://schedule/today").
		Name("Today's Schedule").
		Description("Today's blocks with progress and XP").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if err := requireSession(app); err != nil {
				return nil, err
			}
			view, err := app.Session.Open(ctx, 0)
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, toScheduleOutput(app, view))
		})

	srv.Resource("workday://carryover").
		Name("Carry-over").
		Description("Yesterday's unfinished work blocks").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if err := requireSession(app); err != nil {
				return nil, err
			}
			info, err := app.CarryOver.FetchIncomplete(ctx)
			if err != nil {
				return nil, err
			}
			out := map[string]any{"has_incomplete": info != nil}
			if info != nil {
				out["date"] = info.Date
				out["total_minutes"] = info.TotalMinutes
				out["blocks"] = dto.FromBlocks(info.Blocks)
			}
			return jsonResource(uri, out)
		})

	return nil
}

func registerXPResources(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Resource("workday://xp/profile").
		Name("XP Profile").
		Description("Level, streak, hours worked and achievements").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.GetProfileHandler == nil {
				return nil, fmt.Errorf("profile requires a local database")
			}
			profile, err := app.GetProfileHandler.Handle(ctx, queries.GetProfileQuery{UserID: app.CurrentUserID})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, profile)
		})

	srv.Resource("workday://xp/actions").
		Name("XP Actions").
		Description("Awardable actions and their XP").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			return jsonResource(uri, domain.ClientXPConfig())
		})

	srv.Resource("workday://achievements").
		Name("Achievements").
		Description("Every achievement that can be unlocked").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			return jsonResource(uri, domain.Catalog())
		})

	return nil
}
