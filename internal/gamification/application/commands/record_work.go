package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/workday/internal/gamification/domain"
	sharedApplication "github.com/felixgeelhaar/workday/internal/shared/application"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

const (
	earlyBirdBefore = 7 * 60
	nightOwlAfter   = 22 * 60
)

// RecordWorkCommand logs one completed work block. Start and End are read
// in their own location.
type RecordWorkCommand struct {
	UserID  uuid.UUID
	Minutes int
	Start   time.Time
	End     time.Time
}

type RecordWorkResult struct {
	TotalWorkMinutes int
	TotalSessions    int
	Unlocked         []domain.AchievementTemplate
}

// RecordWorkHandler handles RecordWorkCommand.
type RecordWorkHandler struct {
	profileRepo domain.ProfileRepository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
}

func NewRecordWorkHandler(profileRepo domain.ProfileRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *RecordWorkHandler {
	return &RecordWorkHandler{
		profileRepo: profileRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
	}
}

// Handle adds the minutes and a session, unlocks early_bird and night_owl
// from the block's times, then re-evaluates the counter achievements.
func (h *RecordWorkHandler) Handle(ctx context.Context, cmd RecordWorkCommand) (*RecordWorkResult, error) {
	now := time.Now()

	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*RecordWorkResult, error) {
		profile, err := findOrCreate(txCtx, h.profileRepo, cmd.UserID)
		if err != nil {
			return nil, err
		}

		profile.RecordWork(cmd.Minutes)

		var unlocked []domain.AchievementTemplate
		for _, id := range timeOfDayAchievements(cmd.Start, cmd.End) {
			tmpl, ok, err := profile.Unlock(id, now)
			if err != nil {
				return nil, err
			}
			if ok {
				unlocked = append(unlocked, tmpl)
			}
		}
		unlocked = append(unlocked, profile.EvaluateAchievements(now)...)

		if err := saveProfile(txCtx, h.profileRepo, h.outboxRepo, profile, cmd.UserID); err != nil {
			return nil, err
		}
		return &RecordWorkResult{
			TotalWorkMinutes: profile.TotalWorkMinutes(),
			TotalSessions:    profile.TotalSessions(),
			Unlocked:         unlocked,
		}, nil
	})
}

func timeOfDayAchievements(start, end time.Time) []string {
	var ids []string
	if !start.IsZero() && minuteOfDay(start) < earlyBirdBefore {
		ids = append(ids, domain.AchievementEarlyBird)
	}
	if !end.IsZero() && (minuteOfDay(end) > nightOwlAfter || !sameDay(start, end)) {
		ids = append(ids, domain.AchievementNightOwl)
	}
	return ids
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func sameDay(a, b time.Time) bool {
	if a.IsZero() {
		return true
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}
