package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/workday/internal/scheduling/application/dto"
	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/google/uuid"
)

type GetBlocksQuery struct {
	UserID uuid.UUID
	Date   time.Time
}

// GetBlocksHandler handles GetBlocksQuery.
type GetBlocksHandler struct {
	scheduleRepo domain.ScheduleRepository
}

func NewGetBlocksHandler(scheduleRepo domain.ScheduleRepository) *GetBlocksHandler {
	return &GetBlocksHandler{scheduleRepo: scheduleRepo}
}

// Handle returns an empty list for a day with nothing stored.
func (h *GetBlocksHandler) Handle(ctx context.Context, query GetBlocksQuery) (*dto.BlocksResponse, error) {
	resp := &dto.BlocksResponse{
		Blocks: []dto.BlockRecord{},
		Date:   domain.DateKey(query.Date),
	}

	schedule, err := h.scheduleRepo.FindByUserAndDate(ctx, query.UserID, query.Date)
	if err != nil {
		return nil, err
	}
	if schedule != nil {
		resp.Blocks = dto.FromBlocks(schedule.Blocks())
	}
	return resp, nil
}
