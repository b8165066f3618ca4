package commands

import (
	"context"

	"github.com/felixgeelhaar/workday/internal/gamification/domain"
	sharedApplication "github.com/felixgeelhaar/workday/internal/shared/application"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// saveProfile persists the profile and stages its events in the outbox
// inside the caller's transaction.
func saveProfile(ctx context.Context, repo domain.ProfileRepository, outboxRepo outbox.Repository, profile *domain.Profile, userID uuid.UUID) error {
	if err := repo.Save(ctx, profile); err != nil {
		return err
	}

	events := profile.PullDomainEvents()
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

func findOrCreate(ctx context.Context, repo domain.ProfileRepository, userID uuid.UUID) (*domain.Profile, error) {
	profile, err := repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = domain.NewProfile(userID)
	}
	return profile, nil
}

func findExisting(ctx context.Context, repo domain.ProfileRepository, userID uuid.UUID) (*domain.Profile, error) {
	profile, err := repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrProfileNotFound
	}
	return profile, nil
}
