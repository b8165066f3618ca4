package outbox

import (
	"context"
	"time"
)

// Repository stores outbox messages next to the aggregates that raised them.
type Repository interface {
	// SaveBatch writes msgs in the transaction carried by ctx, or in its own.
	SaveBatch(ctx context.Context, msgs []*Message) error
	// GetUnpublished returns due messages oldest first.
	GetUnpublished(ctx context.Context, limit int) ([]*Message, error)
	MarkPublished(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, reason string, nextRetryAt time.Time) error
	MarkDead(ctx context.Context, id int64, reason string) error
	// CountPending counts messages neither published nor dead-lettered.
	CountPending(ctx context.Context) (int64, error)
	// DeleteOld removes messages published before cutoff.
	DeleteOld(ctx context.Context, cutoff time.Time) (int64, error)
}
