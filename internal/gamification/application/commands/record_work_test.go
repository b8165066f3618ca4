package commands

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/workday/internal/gamification/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordWorkHandler_Handle(t *testing.T) {
	userID := uuid.New()
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	t.Run("adds minutes and a session", func(t *testing.T) {
		f := newFixture()
		handler := NewRecordWorkHandler(f.repo, f.outbox, f.uow)

		f.repo.On("FindByUserID", f.txCtx, userID).Return(nil, nil)
		f.expectCommit()

		result, err := handler.Handle(f.ctx, RecordWorkCommand{
			UserID:  userID,
			Minutes: 90,
			Start:   day.Add(8 * time.Hour),
			End:     day.Add(9*time.Hour + 30*time.Minute),
		})

		require.NoError(t, err)
		assert.Equal(t, 90, result.TotalWorkMinutes)
		assert.Equal(t, 1, result.TotalSessions)
		assert.Empty(t, result.Unlocked)
	})

	t.Run("early and late blocks unlock time of day achievements", func(t *testing.T) {
		f := newFixture()
		handler := NewRecordWorkHandler(f.repo, f.outbox, f.uow)
		existing := domain.RehydrateProfile(domain.ProfileState{UserID: userID, TotalWorkMinutes: 9 * 60, TotalSessions: 9})

		f.repo.On("FindByUserID", f.txCtx, userID).Return(existing, nil)
		f.expectCommit()

		result, err := handler.Handle(f.ctx, RecordWorkCommand{
			UserID:  userID,
			Minutes: 60,
			Start:   day.Add(6*time.Hour + 30*time.Minute),
			End:     day.Add(22*time.Hour + 15*time.Minute),
		})

		require.NoError(t, err)
		var ids []string
		for _, a := range result.Unlocked {
			ids = append(ids, a.ID)
		}
		assert.Equal(t, []string{"early_bird", "night_owl", "hours_10", "sessions_10"}, ids)
	})
}

func TestTimeOfDayAchievements(t *testing.T) {
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name       string
		start, end time.Duration
		want       []string
	}{
		{"daytime", 9 * time.Hour, 10 * time.Hour, nil},
		{"starts at seven", 7 * time.Hour, 8 * time.Hour, nil},
		{"starts before seven", 6*time.Hour + 59*time.Minute, 8 * time.Hour, []string{"early_bird"}},
		{"ends at ten", 21 * time.Hour, 22 * time.Hour, nil},
		{"ends after ten", 21 * time.Hour, 22*time.Hour + time.Minute, []string{"night_owl"}},
		{"crosses midnight", 23 * time.Hour, 25 * time.Hour, []string{"night_owl"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timeOfDayAchievements(day.Add(tt.start), day.Add(tt.end)))
		})
	}
}
