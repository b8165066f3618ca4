package commands

import (
	"context"

	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/workday/internal/shared/application"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// CommitCarryOverCommand marks blocks as carried to CarryToDate (YYYY-MM-DD).
type CommitCarryOverCommand struct {
	UserID      uuid.UUID
	BlockIDs    []uuid.UUID
	CarryToDate string
}

type CommitCarryOverResult struct {
	BlocksCarried int
	Minutes       int
	CarryToDate   string
}

// CommitCarryOverHandler handles CommitCarryOverCommand.
type CommitCarryOverHandler struct {
	scheduleRepo domain.ScheduleRepository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
}

func NewCommitCarryOverHandler(scheduleRepo domain.ScheduleRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CommitCarryOverHandler {
	return &CommitCarryOverHandler{
		scheduleRepo: scheduleRepo,
		outboxRepo:   outboxRepo,
		uow:          uow,
	}
}

// Handle skips ids that are unknown or belong to another user. The blocks
// may span several days.
func (h *CommitCarryOverHandler) Handle(ctx context.Context, cmd CommitCarryOverCommand) (*CommitCarryOverResult, error) {
	if _, err := domain.ParseDate(cmd.CarryToDate, nil); err != nil {
		return nil, err
	}

	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*CommitCarryOverResult, error) {
		days := make(map[uuid.UUID]*domain.DaySchedule)
		var order []*domain.DaySchedule
		for _, id := range cmd.BlockIDs {
			schedule, err := h.findDay(txCtx, days, cmd.UserID, id)
			if err != nil {
				return nil, err
			}
			if schedule != nil && days[schedule.ID()] == nil {
				days[schedule.ID()] = schedule
				order = append(order, schedule)
			}
		}

		result := &CommitCarryOverResult{CarryToDate: cmd.CarryToDate}
		for _, schedule := range order {
			changed := schedule.MarkCarriedOver(cmd.BlockIDs, cmd.CarryToDate)
			if len(changed) == 0 {
				continue
			}
			result.BlocksCarried += len(changed)
			result.Minutes += domain.SumMinutes(changed)
			if err := saveSchedule(txCtx, h.scheduleRepo, h.outboxRepo, schedule, cmd.UserID); err != nil {
				return nil, err
			}
		}
		return result, nil
	})
}

func (h *CommitCarryOverHandler) findDay(ctx context.Context, loaded map[uuid.UUID]*domain.DaySchedule, userID, blockID uuid.UUID) (*domain.DaySchedule, error) {
	for _, s := range loaded {
		if _, err := s.FindBlock(blockID); err == nil {
			return s, nil
		}
	}
	return h.scheduleRepo.FindByBlockID(ctx, userID, blockID)
}
