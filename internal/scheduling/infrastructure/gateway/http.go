// Package gateway connects a day session to its backend: the workday HTTP
// API, or the application handlers when running locally.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/felixgeelhaar/workday/internal/scheduling/application/dto"
	"github.com/felixgeelhaar/workday/internal/scheduling/application/services"
	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/httpclient"
	"github.com/google/uuid"
)

// API paths.
const (
	PathBlocks      = "/api/v1/schedule/blocks"
	PathIncomplete  = "/api/v1/schedule/incomplete"
	PathCarryOver   = "/api/v1/schedule/carryover"
	PathConfig      = "/api/v1/config"
	PathTemplate    = "/api/v1/config/template"
	PathProfile     = "/api/v1/gamification"
	PathAwardXP     = "/api/v1/gamification/xp"
	PathStreak      = "/api/v1/gamification/streak"
	PathAchievement = "/api/v1/gamification/achievements"
)

// HTTPScheduleGateway implements services.ScheduleGateway over the API.
type HTTPScheduleGateway struct {
	client *httpclient.Client
}

func NewHTTPScheduleGateway(client *httpclient.Client) *HTTPScheduleGateway {
	return &HTTPScheduleGateway{client: client}
}

func (g *HTTPScheduleGateway) FetchTemplate(ctx context.Context) (*domain.Template, error) {
	var resp dto.ConfigResponse
	if err := g.client.Get(ctx, PathConfig, &resp); err != nil {
		return nil, err
	}
	if len(resp.DefaultTemplate.Blocks) == 0 {
		return nil, nil
	}
	return resp.DefaultTemplate.ToTemplate()
}

func (g *HTTPScheduleGateway) LoadBlocks(ctx context.Context, date time.Time) ([]domain.Block, error) {
	var resp dto.BlocksResponse
	if err := g.client.Get(ctx, PathBlocks+"?date="+url.QueryEscape(domain.DateKey(date)), &resp); err != nil {
		return nil, err
	}
	return recordsIn(resp.Blocks, date.Location())
}

func (g *HTTPScheduleGateway) SaveBlocks(ctx context.Context, date time.Time, blocks []domain.Block) error {
	req := dto.SaveBlocksRequest{Date: domain.DateKey(date), Blocks: dto.FromBlocks(blocks)}
	var resp dto.SaveBlocksResponse
	if err := g.client.Put(ctx, PathBlocks, req, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("save %s: server reported failure", req.Date)
	}
	return nil
}

func (g *HTTPScheduleGateway) FetchIncomplete(ctx context.Context, today time.Time) ([]domain.Block, error) {
	var resp dto.IncompleteResponse
	if err := g.client.Get(ctx, PathIncomplete+"?today="+url.QueryEscape(domain.DateKey(today)), &resp); err != nil {
		return nil, err
	}
	return recordsIn(resp.IncompleteBlocks, today.Location())
}

func (g *HTTPScheduleGateway) CommitCarryOver(ctx context.Context, blockIDs []uuid.UUID, toDate time.Time) error {
	req := dto.CarryOverRequest{CarryToDate: domain.DateKey(toDate)}
	for _, id := range blockIDs {
		req.BlockIDs = append(req.BlockIDs, id.String())
	}
	var resp dto.CarryOverResponse
	if err := g.client.Post(ctx, PathCarryOver, req, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("carry over to %s: server reported failure", req.CarryToDate)
	}
	return nil
}

// HTTPXPGateway implements services.XPGateway over the API.
type HTTPXPGateway struct {
	client *httpclient.Client
}

func NewHTTPXPGateway(client *httpclient.Client) *HTTPXPGateway {
	return &HTTPXPGateway{client: client}
}

func (g *HTTPXPGateway) TotalXP(ctx context.Context) (int, error) {
	var resp struct {
		TotalXP int `json:"total_xp"`
	}
	if err := g.client.Get(ctx, PathProfile, &resp); err != nil {
		return 0, err
	}
	return resp.TotalXP, nil
}

func (g *HTTPXPGateway) AwardXP(ctx context.Context, amount int, reason, actionType string) (services.XPAward, error) {
	req := dto.AwardXPRequest{Amount: amount, Reason: reason, ActionType: actionType}
	var resp dto.AwardXPResponse
	if err := g.client.Post(ctx, PathAwardXP, req, &resp); err != nil {
		return services.XPAward{}, err
	}
	return services.XPAward{
		TotalXP:       resp.TotalXP,
		Level:         resp.Level,
		XPGained:      resp.XPGained,
		LeveledUp:     resp.LeveledUp,
		PreviousLevel: resp.PreviousLevel,
	}, nil
}

// UpdateStreak treats a missing profile as nothing to update.
func (g *HTTPXPGateway) UpdateStreak(ctx context.Context, clientDate string) error {
	req := dto.StreakRequest{Increment: true, ClientDate: clientDate}
	err := g.client.Post(ctx, PathStreak, req, nil)
	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return nil
	}
	return err
}

func recordsIn(records []dto.BlockRecord, loc *time.Location) ([]domain.Block, error) {
	for i := range records {
		records[i].StartTime = records[i].StartTime.In(loc)
		records[i].EndTime = records[i].EndTime.In(loc)
	}
	return dto.ToBlocks(records)
}
