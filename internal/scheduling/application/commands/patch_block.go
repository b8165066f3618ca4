package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/workday/internal/shared/application"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// PatchBlockCommand coalesces onto a stored block: nil fields are kept.
type PatchBlockCommand struct {
	UserID   uuid.UUID
	BlockID  uuid.UUID
	Status   *domain.BlockStatus
	EndTime  *time.Time
	XPEarned *int
	Notes    *string
}

type PatchBlockResult struct {
	Block   domain.Block
	Outcome domain.UpdateOutcome
}

// PatchBlockHandler handles PatchBlockCommand.
type PatchBlockHandler struct {
	scheduleRepo domain.ScheduleRepository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
}

func NewPatchBlockHandler(scheduleRepo domain.ScheduleRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *PatchBlockHandler {
	return &PatchBlockHandler{
		scheduleRepo: scheduleRepo,
		outboxRepo:   outboxRepo,
		uow:          uow,
	}
}

// Handle runs an end time change through the time-shift engine so the
// stored day stays contiguous.
func (h *PatchBlockHandler) Handle(ctx context.Context, cmd PatchBlockCommand) (*PatchBlockResult, error) {
	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*PatchBlockResult, error) {
		schedule, err := h.scheduleRepo.FindByBlockID(txCtx, cmd.UserID, cmd.BlockID)
		if err != nil {
			return nil, err
		}
		if schedule == nil {
			return nil, domain.ErrBlockNotFound
		}

		outcome, err := schedule.UpdateStrict(cmd.BlockID, domain.BlockUpdate{
			EndTime:  cmd.EndTime,
			Status:   cmd.Status,
			XPEarned: cmd.XPEarned,
			Notes:    cmd.Notes,
		})
		if err != nil {
			return nil, err
		}

		if err := saveSchedule(txCtx, h.scheduleRepo, h.outboxRepo, schedule, cmd.UserID); err != nil {
			return nil, err
		}
		block, err := schedule.FindBlock(cmd.BlockID)
		if err != nil {
			return nil, err
		}
		return &PatchBlockResult{Block: block, Outcome: outcome}, nil
	})
}
