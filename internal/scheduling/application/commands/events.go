package commands

import (
	"context"

	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/workday/internal/shared/application"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// saveSchedule persists the day and stages its events in the outbox inside
// the caller's transaction.
func saveSchedule(ctx context.Context, repo domain.ScheduleRepository, outboxRepo outbox.Repository, schedule *domain.DaySchedule, userID uuid.UUID) error {
	if err := repo.Save(ctx, schedule); err != nil {
		return err
	}

	events := schedule.PullDomainEvents()
	if len(events) == 0 {
		return nil
	}
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(userID))

	msgs, err := outbox.NewMessages(events)
	if err != nil {
		return err
	}
	return outboxRepo.SaveBatch(ctx, msgs)
}
