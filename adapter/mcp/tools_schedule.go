package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/workday/adapter/cli"
	"github.com/felixgeelhaar/workday/internal/scheduling/application/dto"
	"github.com/felixgeelhaar/workday/internal/scheduling/application/services"
	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
)

type blockInput struct {
	Block string `json:"block" jsonschema:"required"`
}

type completeOutput struct {
	Block            dto.BlockRecord   `json:"block"`
	XPEarned         int               `json:"xp_earned"`
	Milestone        *domain.Milestone `json:"milestone,omitempty"`
	AlreadyCompleted bool              `json:"already_completed"`
	TotalXP          int               `json:"total_xp"`
}

type scheduleUpdateInput struct {
	Block           string  `json:"block" jsonschema:"required"`
	Start           string  `json:"start,omitempty"`
	End             string  `json:"end,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	Label           *string `json:"label,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	ProjectName     *string `json:"project_name,omitempty"`
	FocusScore      *int    `json:"focus_score,omitempty"`
	Strict          bool    `json:"strict,omitempty"`
}

type scheduleUpdateOutput struct {
	Block        dto.BlockRecord `json:"block"`
	TimeIgnored  bool            `json:"time_ignored"`
	ShiftMinutes int             `json:"shift_minutes"`
	Warning      string          `json:"warning,omitempty"`
}

type templateEntryOutput struct {
	Type            string `json:"type"`
	DurationMinutes int    `json:"duration_minutes"`
	Label           string `json:"label"`
}

type templateOutput struct {
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	Entries     []templateEntryOutput `json:"entries"`
}

// openBlock opens today and resolves ref against its blocks.
func openBlock(ctx context.Context, app *cli.App, ref string) (domain.Block, error) {
	if err := requireSession(app); err != nil {
		return domain.Block{}, err
	}
	view, err := app.Session.Open(ctx, 0)
	if err != nil {
		return domain.Block{}, err
	}
	return cli.ResolveBlock(view.Blocks, ref)
}

func currentView(app *cli.App) (*scheduleOutput, error) {
	view, err := app.Session.Schedule()
	if err != nil {
		return nil, err
	}
	return toScheduleOutput(app, view), nil
}

func registerScheduleTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("schedule.show").
		Description("Get today's blocks, progress and XP. Builds the day from the template on first use.").
		Handler(func(ctx context.Context, input struct{}) (*scheduleOutput, error) {
			if err := requireSession(app); err != nil {
				return nil, err
			}
			view, err := app.Session.Open(ctx, 0)
			if err != nil {
				return nil, err
			}
			return toScheduleOutput(app, view), nil
		})

	srv.Tool("schedule.start").
		Description("Mark a block as in progress. block is a 1-based position or a block id.").
		Handler(func(ctx context.Context, input blockInput) (*scheduleOutput, error) {
			block, err := openBlock(ctx, app, input.Block)
			if err != nil {
				return nil, err
			}
			if err := app.Session.Start(ctx, block.ID()); err != nil {
				return nil, err
			}
			return currentView(app)
		})

	srv.Tool("schedule.complete").
		Description("Complete a block and award its XP").
		Handler(func(ctx context.Context, input blockInput) (*completeOutput, error) {
			block, err := openBlock(ctx, app, input.Block)
			if err != nil {
				return nil, err
			}
			result, err := app.Session.Complete(ctx, block.ID())
			if err != nil {
				return nil, err
			}
			return &completeOutput{
				Block:            dto.FromBlock(result.Block),
				XPEarned:         result.XPEarned,
				Milestone:        result.Milestone,
				AlreadyCompleted: result.AlreadyCompleted,
				TotalXP:          app.Session.XP().TotalXP,
			}, nil
		})

	srv.Tool("schedule.skip").
		Description("Skip a block").
		Handler(func(ctx context.Context, input blockInput) (*scheduleOutput, error) {
			block, err := openBlock(ctx, app, input.Block)
			if err != nil {
				return nil, err
			}
			if err := app.Session.Skip(ctx, block.ID()); err != nil {
				return nil, err
			}
			return currentView(app)
		})

	srv.Tool("schedule.update").
		Description("Change a block's times or details. Later blocks shift to keep the day contiguous.").
		Handler(func(ctx context.Context, input scheduleUpdateInput) (*scheduleUpdateOutput, error) {
			block, err := openBlock(ctx, app, input.Block)
			if err != nil {
				return nil, err
			}
			day := app.Session.Today()
			start, err := parseOptionalTime(day, input.Start)
			if err != nil {
				return nil, err
			}
			end, err := parseOptionalTime(day, input.End)
			if err != nil {
				return nil, err
			}

			update := domain.BlockUpdate{
				StartTime:       start,
				EndTime:         end,
				DurationMinutes: input.DurationMinutes,
				Label:           input.Label,
				Notes:           input.Notes,
				ProjectName:     input.ProjectName,
				FocusScore:      input.FocusScore,
			}
			var outcome domain.UpdateOutcome
			if input.Strict {
				outcome, err = app.Session.UpdateStrict(ctx, block.ID(), update)
			} else {
				outcome, err = app.Session.Update(ctx, block.ID(), update)
			}
			if err != nil {
				return nil, err
			}

			view, err := app.Session.Schedule()
			if err != nil {
				return nil, err
			}
			updated, err := domain.FindBlock(view.Blocks, block.ID())
			if err != nil {
				return nil, err
			}
			return &scheduleUpdateOutput{
				Block:        dto.FromBlock(updated),
				TimeIgnored:  outcome.TimeIgnored,
				ShiftMinutes: int(outcome.Shift.Minutes()),
				Warning:      outcome.Warning,
			}, nil
		})

	srv.Tool("schedule.reset").
		Description("Rebuild today from the template, discarding progress").
		Handler(func(ctx context.Context, input struct{}) (*scheduleOutput, error) {
			if err := requireSession(app); err != nil {
				return nil, err
			}
			if _, err := app.Session.Open(ctx, 0); err != nil {
				return nil, err
			}
			view, err := app.Session.Reset(ctx)
			if err != nil {
				return nil, fmt.Errorf("reset schedule: %w", err)
			}
			return toScheduleOutput(app, view), nil
		})

	srv.Tool("template.show").
		Description("Get the template new days are built from").
		Handler(func(ctx context.Context, input struct{}) (*templateOutput, error) {
			if app == nil || app.Schedule == nil {
				return nil, errNoSession
			}
			tmpl := services.NewTemplateProvider(app.Schedule, cli.Logger()).Template(ctx)
			out := &templateOutput{Name: tmpl.Name(), Description: tmpl.Description()}
			for _, e := range tmpl.Entries() {
				out.Entries = append(out.Entries, templateEntryOutput{
					Type:            string(e.Type),
					DurationMinutes: e.DurationMinutes,
					Label:           e.Label,
				})
			}
			return out, nil
		})

	return nil
}
