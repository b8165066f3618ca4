package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/workday/internal/scheduling/application/dto"
	"github.com/google/uuid"
)

type carryOverCheckOutput struct {
	HasIncomplete bool              `json:"has_incomplete"`
	Date          string            `json:"date,omitempty"`
	TotalMinutes  int               `json:"total_minutes"`
	Blocks        []dto.BlockRecord `json:"blocks"`
}

type carryOverAcceptInput struct {
	// BlockIDs defaults to every incomplete block.
	BlockIDs []string `json:"block_ids,omitempty"`
}

type carryOverAcceptOutput struct {
	Accepted       bool `json:"accepted"`
	CarriedMinutes int  `json:"carried_minutes"`
}

func registerCarryOverTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("carryover.check").
		Description("List yesterday's unfinished work blocks, unless the prompt was handled today").
		Handler(func(ctx context.Context, input struct{}) (*carryOverCheckOutput, error) {
			if err := requireSession(app); err != nil {
				return nil, err
			}
			info, err := app.CarryOver.FetchIncomplete(ctx)
			if err != nil {
				return nil, err
			}
			out := &carryOverCheckOutput{Blocks: []dto.BlockRecord{}}
			if info != nil {
				out.HasIncomplete = true
				out.Date = info.Date
				out.TotalMinutes = info.TotalMinutes
				out.Blocks = dto.FromBlocks(info.Blocks)
			}
			return out, nil
		})

	srv.Tool("carryover.accept").
		Description("Carry yesterday's unfinished blocks into one block at the end of today").
		Handler(func(ctx context.Context, input carryOverAcceptInput) (*carryOverAcceptOutput, error) {
			if err := requireSession(app); err != nil {
				return nil, err
			}
			if _, err := app.Session.Open(ctx, 0); err != nil {
				return nil, err
			}
			info, err := app.CarryOver.FetchIncomplete(ctx)
			if err != nil {
				return nil, err
			}
			if info == nil {
				return nil, errors.New("nothing to carry over")
			}

			ids := make([]uuid.UUID, 0, len(info.Blocks))
			if len(input.BlockIDs) == 0 {
				for _, b := range info.Blocks {
					ids = append(ids, b.ID())
				}
			}
			for _, raw := range input.BlockIDs {
				id, err := parseUUID(raw)
				if err != nil {
					return nil, err
				}
				ids = append(ids, id)
			}

			out := &carryOverAcceptOutput{Accepted: app.CarryOver.Accept(ctx, ids)}
			view, err := app.Session.Schedule()
			if err != nil {
				return nil, err
			}
			out.CarriedMinutes = view.CarriedMinutes
			return out, nil
		})

	srv.Tool("carryover.dismiss").
		Description("Hide the carry-over prompt until tomorrow").
		Handler(func(ctx context.Context, input struct{}) (map[string]bool, error) {
			if err := requireSession(app); err != nil {
				return nil, err
			}
			if err := app.CarryOver.Dismiss(ctx); err != nil {
				return nil, err
			}
			return map[string]bool{"dismissed": true}, nil
		})

	return nil
}
