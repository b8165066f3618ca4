package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/workday/internal/gamification/domain"
	sharedApplication "github.com/felixgeelhaar/workday/internal/shared/application"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// UpdateStreakCommand records today's activity. ClientDate is MM-DD-YYYY;
// anything else falls back to the server date.
type UpdateStreakCommand struct {
	UserID     uuid.UUID
	Increment  bool
	ClientDate string
}

// UpdateStreakResult carries the counters and any streak achievements the
// update unlocked.
type UpdateStreakResult struct {
	domain.StreakResult
	Unlocked []domain.AchievementTemplate `json:"unlocked,omitempty"`
}

// UpdateStreakHandler handles UpdateStreakCommand.
type UpdateStreakHandler struct {
	profileRepo domain.ProfileRepository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
	now         func() time.Time
}

func NewUpdateStreakHandler(profileRepo domain.ProfileRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *UpdateStreakHandler {
	return &UpdateStreakHandler{
		profileRepo: profileRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
		now:         time.Now,
	}
}

// WithClock replaces the server clock.
func (h *UpdateStreakHandler) WithClock(now func() time.Time) *UpdateStreakHandler {
	h.now = now
	return h
}

// Handle returns domain.ErrProfileNotFound for a user who never earned XP.
func (h *UpdateStreakHandler) Handle(ctx context.Context, cmd UpdateStreakCommand) (*UpdateStreakResult, error) {
	now := h.now()
	today, ok := domain.ParseClientDate(cmd.ClientDate)
	if !ok {
		today = now.Format(time.DateOnly)
	}

	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*UpdateStreakResult, error) {
		profile, err := findExisting(txCtx, h.profileRepo, cmd.UserID)
		if err != nil {
			return nil, err
		}

		result := &UpdateStreakResult{StreakResult: profile.UpdateStreak(cmd.Increment, today)}
		if !cmd.Increment {
			return result, nil
		}
		result.Unlocked = profile.EvaluateAchievements(now)

		if err := saveProfile(txCtx, h.profileRepo, h.outboxRepo, profile, cmd.UserID); err != nil {
			return nil, err
		}
		return result, nil
	})
}
