package domain

import (
	"context"

	"github.com/google/uuid"
)

// ProfileRepository persists profiles with their achievements and pending
// XP transactions.
type ProfileRepository interface {
	Save(ctx context.Context, profile *Profile) error
	// FindByUserID returns nil when the user has no profile yet.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
}
