package commands

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// storedDay is A(9:00-10:00 WORK) B(10:00-10:15 BREAK) C(10:15-11:00 WORK).
func storedDay(t *testing.T, userID uuid.UUID) *domain.DaySchedule {
	t.Helper()
	blocks, err := domain.Build(day, "09:00", []domain.TemplateEntry{
		{Type: domain.BlockTypeWork, DurationMinutes: 60, Label: "A"},
		{Type: domain.BlockTypeBreak, DurationMinutes: 15, Label: "B"},
		{Type: domain.BlockTypeWork, DurationMinutes: 45, Label: "C"},
	}, 0)
	require.NoError(t, err)
	return domain.RehydrateDaySchedule(userID, day, blocks, day, day)
}
