package services

import (
	"context"
	"time"

	"github.com/felixgeelhaar/workday/internal/scheduling/application/dto"
	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/google/uuid"
)

// ScheduleGateway is the remote side of a day: the API in remote mode or the
// application handlers in local mode.
type ScheduleGateway interface {
	// FetchTemplate returns nil when the user has no template.
	FetchTemplate(ctx context.Context) (*domain.Template, error)
	LoadBlocks(ctx context.Context, date time.Time) ([]domain.Block, error)
	// SaveBlocks replaces every stored block of date.
	SaveBlocks(ctx context.Context, date time.Time, blocks []domain.Block) error
	// FetchIncomplete returns the unfinished work of the day before today.
	FetchIncomplete(ctx context.Context, today time.Time) ([]domain.Block, error)
	CommitCarryOver(ctx context.Context, blockIDs []uuid.UUID, toDate time.Time) error
}

// XPAward is the server's answer to an award.
type XPAward struct {
	TotalXP       int
	Level         int
	XPGained      int
	LeveledUp     bool
	PreviousLevel int
}

// XPGateway reaches the gamification service.
type XPGateway interface {
	TotalXP(ctx context.Context) (int, error)
	AwardXP(ctx context.Context, amount int, reason, actionType string) (XPAward, error)
	// UpdateStreak increments the streak for clientDate (MM-DD-YYYY).
	UpdateStreak(ctx context.Context, clientDate string) error
}

// Snapshot is the locally stored copy of one day.
type Snapshot struct {
	UserID  uuid.UUID         `json:"user_id"`
	Date    string            `json:"date"`
	Blocks  []dto.BlockRecord `json:"blocks"`
	SavedAt time.Time         `json:"saved_at"`
}

// SnapshotStore keeps one snapshot per user and date.
type SnapshotStore interface {
	// Load returns nil when nothing is stored.
	Load(ctx context.Context, userID uuid.UUID, date string) (*Snapshot, error)
	Save(ctx context.Context, snapshot Snapshot) error
	Delete(ctx context.Context, userID uuid.UUID, date string) error
}

// DismissalStore remembers the days on which the carry-over prompt was handled.
type DismissalStore interface {
	Dismissed(ctx context.Context, userID uuid.UUID, date string) (bool, error)
	Dismiss(ctx context.Context, userID uuid.UUID, date string) error
}

// MirrorResult counts what one calendar push changed.
type MirrorResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}

// CalendarMirror copies a day's blocks into an external calendar.
type CalendarMirror interface {
	Configured() bool
	Push(ctx context.Context, userID uuid.UUID, date time.Time, blocks []domain.Block) (*MirrorResult, error)
}
