package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/workday/internal/gamification/domain"
	sharedApplication "github.com/felixgeelhaar/workday/internal/shared/application"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

type UnlockAchievementCommand struct {
	UserID        uuid.UUID
	AchievementID string
}

type UnlockAchievementResult struct {
	Achievement domain.AchievementTemplate `json:"achievement"`
	// Unlocked is false when the achievement was already unlocked.
	Unlocked bool   `json:"unlocked"`
	Message  string `json:"message"`
}

// UnlockAchievementHandler handles UnlockAchievementCommand.
type UnlockAchievementHandler struct {
	profileRepo domain.ProfileRepository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
}

func NewUnlockAchievementHandler(profileRepo domain.ProfileRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *UnlockAchievementHandler {
	return &UnlockAchievementHandler{
		profileRepo: profileRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
	}
}

func (h *UnlockAchievementHandler) Handle(ctx context.Context, cmd UnlockAchievementCommand) (*UnlockAchievementResult, error) {
	if _, err := domain.FindAchievement(cmd.AchievementID); err != nil {
		return nil, err
	}

	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*UnlockAchievementResult, error) {
		profile, err := findExisting(txCtx, h.profileRepo, cmd.UserID)
		if err != nil {
			return nil, err
		}

		tmpl, unlocked, err := profile.Unlock(cmd.AchievementID, time.Now())
		if err != nil {
			return nil, err
		}
		if unlocked {
			if err := saveProfile(txCtx, h.profileRepo, h.outboxRepo, profile, cmd.UserID); err != nil {
				return nil, err
			}
		}

		return &UnlockAchievementResult{
			Achievement: tmpl,
			Unlocked:    unlocked,
			Message:     fmt.Sprintf("Achievement %q unlocked!", tmpl.Name),
		}, nil
	})
}
