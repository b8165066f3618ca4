package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/workday/internal/shared/application"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// SaveBlocksCommand replaces every block stored for one day.
type SaveBlocksCommand struct {
	UserID uuid.UUID
	Date   time.Time
	Blocks []domain.Block
}

type SaveBlocksResult struct {
	BlocksSaved int
}

// SaveBlocksHandler handles SaveBlocksCommand. The last write wins.
type SaveBlocksHandler struct {
	scheduleRepo domain.ScheduleRepository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
}

func NewSaveBlocksHandler(scheduleRepo domain.ScheduleRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *SaveBlocksHandler {
	return &SaveBlocksHandler{
		scheduleRepo: scheduleRepo,
		outboxRepo:   outboxRepo,
		uow:          uow,
	}
}

// Handle records BlockCompleted for every block that is completed in the
// new list but was not in the stored one.
func (h *SaveBlocksHandler) Handle(ctx context.Context, cmd SaveBlocksCommand) (*SaveBlocksResult, error) {
	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*SaveBlocksResult, error) {
		schedule, err := h.scheduleRepo.FindByUserAndDate(txCtx, cmd.UserID, cmd.Date)
		if err != nil {
			return nil, err
		}
		if schedule == nil {
			schedule = domain.NewDaySchedule(cmd.UserID, cmd.Date, nil, 0)
		}

		schedule.ReplaceBlocks(cmd.Blocks)

		if err := saveSchedule(txCtx, h.scheduleRepo, h.outboxRepo, schedule, cmd.UserID); err != nil {
			return nil, err
		}
		return &SaveBlocksResult{BlocksSaved: schedule.Len()}, nil
	})
}
