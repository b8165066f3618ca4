package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/workday/internal/gamification/application/commands"
	"github.com/felixgeelhaar/workday/internal/gamification/application/queries"
	"github.com/felixgeelhaar/workday/internal/gamification/domain"
	"github.com/felixgeelhaar/workday/internal/scheduling/application/services"
)

type xpShowOutput struct {
	TotalXP  int                  `json:"total_xp"`
	Progress domain.LevelProgress `json:"progress"`
	Profile  *queries.ProfileDTO  `json:"profile,omitempty"`
}

type xpAwardInput struct {
	Action string `json:"action" jsonschema:"required"`
	Reason string `json:"reason,omitempty"`
}

type xpUnlockInput struct {
	AchievementID string `json:"achievement_id" jsonschema:"required"`
}

func registerXPTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("xp.show").
		Description("Get total XP, level progress and, with a local database, the profile").
		Handler(func(ctx context.Context, input struct{}) (*xpShowOutput, error) {
			if app == nil || app.XP == nil {
				return nil, errNoSession
			}
			total, err := app.XP.TotalXP(ctx)
			if err != nil {
				return nil, err
			}
			out := &xpShowOutput{TotalXP: total, Progress: domain.ProgressFor(total)}
			if app.GetProfileHandler != nil {
				profile, err := app.GetProfileHandler.Handle(ctx, queries.GetProfileQuery{UserID: app.CurrentUserID})
				if err != nil {
					return nil, err
				}
				out.Profile = profile
			}
			return out, nil
		})

	srv.Tool("xp.award").
		Description("Award the XP the server assigns to an action, e.g. TASK_COMPLETED").
		Handler(func(ctx context.Context, input xpAwardInput) (*services.XPAward, error) {
			if app == nil || app.XP == nil {
				return nil, errNoSession
			}
			action, err := domain.ParseActionType(strings.ToUpper(input.Action))
			if err != nil {
				return nil, err
			}
			reason := input.Reason
			if reason == "" {
				reason = string(action)
			}
			award, err := app.XP.AwardXP(ctx, 0, reason, string(action))
			if err != nil {
				return nil, err
			}
			return &award, nil
		})

	srv.Tool("xp.actions").
		Description("List awardable actions and their XP").
		Handler(func(ctx context.Context, input struct{}) (map[string]int, error) {
			return domain.ClientXPConfig(), nil
		})

	srv.Tool("xp.streak").
		Description("Count today toward the daily streak").
		Handler(func(ctx context.Context, input struct{}) (map[string]string, error) {
			if err := requireSession(app); err != nil {
				return nil, err
			}
			today := app.Session.Now().Format("01-02-2006")
			if err := app.XP.UpdateStreak(ctx, today); err != nil {
				return nil, err
			}
			return map[string]string{"date": today}, nil
		})

	srv.Tool("xp.unlock").
		Description("Unlock an achievement by id").
		Handler(func(ctx context.Context, input xpUnlockInput) (*commands.UnlockAchievementResult, error) {
			if app == nil || app.UnlockAchievementHandler == nil {
				return nil, errors.New("achievements require a local database")
			}
			return app.UnlockAchievementHandler.Handle(ctx, commands.UnlockAchievementCommand{
				UserID:        app.CurrentUserID,
				AchievementID: input.AchievementID,
			})
		})

	return nil
}
