package mcp

import (
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/workday/adapter/cli"
	"github.com/felixgeelhaar/workday/internal/scheduling/application/dto"
	"github.com/felixgeelhaar/workday/internal/scheduling/application/services"
	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/google/uuid"
)

const timeLayout = "15:04"

var errNoSession = errors.New("schedule requires initialization")

func requireSession(app *cli.App) error {
	if app == nil || app.Session == nil {
		return errNoSession
	}
	return nil
}

func parseUUID(value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.UUID{}, errors.New("id is required")
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid id: %w", err)
	}
	return id, nil
}

func parseOptionalTime(date time.Time, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := cli.ParseClock(date, value)
	if err != nil {
		return nil, fmt.Errorf("invalid time format, use HH:MM: %w", err)
	}
	return &parsed, nil
}

// scheduleOutput is the tool form of a day.
type scheduleOutput struct {
	Date              string            `json:"date"`
	Source            string            `json:"source"`
	Blocks            []dto.BlockRecord `json:"blocks"`
	Stats             domain.Stats      `json:"stats"`
	TotalWorkMinutes  int               `json:"total_work_minutes"`
	TotalBreakMinutes int               `json:"total_break_minutes"`
	CarriedMinutes    int               `json:"carried_minutes"`
	IsComplete        bool              `json:"is_complete"`
	XP                xpState           `json:"xp"`
	Current           *dto.BlockRecord  `json:"current,omitempty"`
	Next              *dto.BlockRecord  `json:"next,omitempty"`
}

type xpState struct {
	TotalXP int `json:"total_xp"`
	Level   int `json:"level"`
	Pending int `json:"pending"`
}

func toScheduleOutput(app *cli.App, view services.ScheduleView) *scheduleOutput {
	out := &scheduleOutput{
		Date:              view.Date,
		Source:            view.Source,
		Blocks:            dto.FromBlocks(view.Blocks),
		Stats:             view.Stats,
		TotalWorkMinutes:  view.TotalWorkMinutes,
		TotalBreakMinutes: view.TotalBreakMinutes,
		CarriedMinutes:    view.CarriedMinutes,
		IsComplete:        view.IsComplete,
		XP: xpState{
			TotalXP: view.XP.TotalXP,
			Level:   view.XP.Level,
			Pending: len(view.XP.Pending),
		},
	}
	if b, ok := app.Session.CurrentBlock(); ok {
		rec := dto.FromBlock(b)
		out.Current = &rec
	}
	if b, ok := app.Session.NextBlock(); ok {
		rec := dto.FromBlock(b)
		out.Next = &rec
	}
	return out
}
