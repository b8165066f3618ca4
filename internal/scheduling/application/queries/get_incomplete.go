package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/workday/internal/scheduling/application/dto"
	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/google/uuid"
)

// GetIncompleteQuery asks for the work left unfinished the day before Today.
type GetIncompleteQuery struct {
	UserID uuid.UUID
	Today  time.Time
}

// GetIncompleteHandler handles GetIncompleteQuery.
type GetIncompleteHandler struct {
	scheduleRepo domain.ScheduleRepository
}

func NewGetIncompleteHandler(scheduleRepo domain.ScheduleRepository) *GetIncompleteHandler {
	return &GetIncompleteHandler{scheduleRepo: scheduleRepo}
}

// Handle lists yesterday's WORK and FLEX blocks that are pending, skipped
// or partial.
func (h *GetIncompleteHandler) Handle(ctx context.Context, query GetIncompleteQuery) (*dto.IncompleteResponse, error) {
	yesterday := domain.StartOfDay(query.Today).AddDate(0, 0, -1)
	resp := &dto.IncompleteResponse{
		Date:             domain.DateKey(yesterday),
		IncompleteBlocks: []dto.BlockRecord{},
	}

	schedule, err := h.scheduleRepo.FindByUserAndDate(ctx, query.UserID, yesterday)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return resp, nil
	}

	incomplete := domain.IncompleteWork(schedule.Blocks())
	resp.IncompleteBlocks = dto.FromBlocks(incomplete)
	resp.TotalIncompleteMinutes = domain.SumMinutes(incomplete)
	resp.HasIncomplete = len(incomplete) > 0
	return resp, nil
}
