package commands

import (
	"context"

	"github.com/felixgeelhaar/workday/internal/gamification/domain"
	sharedApplication "github.com/felixgeelhaar/workday/internal/shared/application"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/workday/pkg/observability"
	"github.com/google/uuid"
)

// AwardXPCommand grants XP for an action. The amount always comes from the
// server-side action table; clients only name the action.
type AwardXPCommand struct {
	UserID     uuid.UUID
	ActionType string
	Reason     string
}

// AwardXPHandler handles AwardXPCommand.
type AwardXPHandler struct {
	profileRepo domain.ProfileRepository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
	metrics     observability.Metrics
}

func NewAwardXPHandler(profileRepo domain.ProfileRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork, metrics observability.Metrics) *AwardXPHandler {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &AwardXPHandler{
		profileRepo: profileRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
		metrics:     metrics,
	}
}

// Handle creates the profile on the first award.
func (h *AwardXPHandler) Handle(ctx context.Context, cmd AwardXPCommand) (*domain.AwardResult, error) {
	action, err := domain.ParseActionType(cmd.ActionType)
	if err != nil {
		return nil, err
	}

	result, err := sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*domain.AwardResult, error) {
		profile, err := findOrCreate(txCtx, h.profileRepo, cmd.UserID)
		if err != nil {
			return nil, err
		}

		res, err := profile.AwardXP(action, cmd.Reason)
		if err != nil {
			return nil, err
		}
		if err := saveProfile(txCtx, h.profileRepo, h.outboxRepo, profile, cmd.UserID); err != nil {
			return nil, err
		}
		return &res, nil
	})
	if err != nil {
		return nil, err
	}

	h.metrics.Counter(observability.MetricXPAwarded, int64(result.XPGained), observability.T("action_type", string(action)))
	return result, nil
}
