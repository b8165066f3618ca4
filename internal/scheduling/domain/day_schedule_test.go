package domain_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDay(t *testing.T) *domain.DaySchedule {
	t.Helper()
	blocks := build(t, "08:00", domain.FallbackTemplate().Entries(), 0)
	return domain.NewDaySchedule(uuid.New(), day.Add(13*time.Hour), blocks, 480)
}

func TestNewDaySchedule(t *testing.T) {
	userID := uuid.New()
	s := domain.NewDaySchedule(userID, day.Add(15*time.Hour), nil, 0)

	assert.Equal(t, day, s.Date())
	assert.Equal(t, "2024-03-04", s.DateKey())
	assert.Equal(t, domain.DefaultTargetWorkMinutes, s.TargetWorkMinutes())
	assert.Equal(t, domain.ScheduleID(userID, day), s.ID(), "id is stable per user and date")
	assert.NotEqual(t, domain.ScheduleID(uuid.New(), day), s.ID())
	assert.False(t, s.IsComplete())
}

func TestDaySchedule_Complete_EmitsEvent(t *testing.T) {
	s := newDay(t)
	id := s.Blocks()[0].ID()

	result, err := s.Complete(id)
	require.NoError(t, err)

	events := s.DomainEvents()
	require.Len(t, events, 1)
	event, ok := events[0].(*domain.BlockCompleted)
	require.True(t, ok)
	assert.Equal(t, domain.RoutingKeyBlockCompleted, event.RoutingKey())
	assert.Equal(t, s.ID(), event.AggregateID())
	assert.Equal(t, id, event.BlockID)
	assert.Equal(t, result.XPEarned, event.XPEarned)
	assert.Equal(t, "First Block", event.Milestone)
	assert.Equal(t, 50, event.MilestoneBonus)
	assert.True(t, event.IsWork())
	assert.Equal(t, "2024-03-04", event.ScheduleDate)

	s.ClearDomainEvents()
	_, err = s.Complete(id)
	require.NoError(t, err)
	assert.Empty(t, s.DomainEvents(), "second completion records nothing")
}

func TestDaySchedule_Skip(t *testing.T) {
	s := newDay(t)
	id := s.Blocks()[1].ID()

	require.NoError(t, s.Skip(id))
	require.NoError(t, s.Skip(id))

	require.Len(t, s.DomainEvents(), 1)
	assert.Equal(t, domain.RoutingKeyBlockSkipped, s.DomainEvents()[0].RoutingKey())
	assert.ErrorIs(t, s.Skip(uuid.New()), domain.ErrBlockNotFound)
}

func TestDaySchedule_Start(t *testing.T) {
	s := newDay(t)
	id := s.Blocks()[0].ID()

	require.NoError(t, s.Start(id))

	current, ok := s.CurrentBlock()
	require.True(t, ok)
	assert.Equal(t, id, current.ID())
	assert.Equal(t, domain.RoutingKeyBlockStarted, s.DomainEvents()[0].RoutingKey())
}

func TestDaySchedule_Update(t *testing.T) {
	s := newDay(t)
	first := s.Blocks()[0]

	outcome := s.Update(first.ID(), domain.BlockUpdate{EndTime: ptr(first.EndTime().Add(4 * time.Hour))})

	require.True(t, outcome.Found)
	assert.NotEmpty(t, outcome.Warning, "720 work minutes exceed 480+60")
	requireInvariants(t, s.Blocks())
	require.Len(t, s.DomainEvents(), 1)
	moved := s.DomainEvents()[0].(*domain.BlockRescheduled)
	assert.Equal(t, 240, moved.ShiftMinutes)

	s.ClearDomainEvents()
	s.Update(first.ID(), domain.BlockUpdate{Label: ptr("Planning")})
	assert.Empty(t, s.DomainEvents(), "label edits do not reschedule")
	assert.False(t, s.Update(uuid.New(), domain.BlockUpdate{}).Found)
}

func TestDaySchedule_UpdateStrict(t *testing.T) {
	s := newDay(t)
	first := s.Blocks()[0]

	_, err := s.UpdateStrict(first.ID(), domain.BlockUpdate{StartTime: ptr(first.EndTime())})

	assert.ErrorIs(t, err, domain.ErrNonPositiveDuration)
	assert.Equal(t, first, s.Blocks()[0])
	assert.Empty(t, s.DomainEvents())
}

func TestDaySchedule_UpdateToCompleted(t *testing.T) {
	s := newDay(t)
	completed := domain.StatusCompleted

	s.Update(s.Blocks()[2].ID(), domain.BlockUpdate{Status: &completed})

	require.Len(t, s.DomainEvents(), 1)
	assert.Equal(t, domain.RoutingKeyBlockCompleted, s.DomainEvents()[0].RoutingKey())
}

func TestDaySchedule_AppendCarryOver(t *testing.T) {
	s := newDay(t)

	b, ok := s.AppendCarryOver(45, domain.TimeOfDay{Hour: 8})

	require.True(t, ok)
	assert.Equal(t, at(17, 0), b.StartTime())
	assert.Equal(t, at(17, 45), b.EndTime())
	assert.Equal(t, 8, s.Len())
	assert.Equal(t, 45, s.CarriedMinutes())
	assert.Equal(t, 525, s.TotalWorkMinutes())
	requireInvariants(t, s.Blocks())
	assert.Equal(t, domain.RoutingKeyCarryOverAppended, s.DomainEvents()[0].RoutingKey())

	_, ok = s.AppendCarryOver(0, domain.TimeOfDay{Hour: 8})
	assert.False(t, ok)
}

func TestDaySchedule_ReplaceBlocks(t *testing.T) {
	s := newDay(t)
	original := s.Blocks()

	completed, _, err := domain.Complete(original, original[0].ID())
	require.NoError(t, err)
	s.ReplaceBlocks(completed)

	keys := []string{}
	for _, e := range s.DomainEvents() {
		keys = append(keys, e.RoutingKey())
	}
	assert.Equal(t, []string{domain.RoutingKeyScheduleReplaced, domain.RoutingKeyBlockCompleted}, keys)

	s.ClearDomainEvents()
	s.ReplaceBlocks(completed)
	require.Len(t, s.DomainEvents(), 1, "already completed blocks are not announced again")
}

func TestDaySchedule_MarkCarriedOver(t *testing.T) {
	s := newDay(t)
	ids := []uuid.UUID{s.Blocks()[0].ID(), s.Blocks()[2].ID()}

	changed := s.MarkCarriedOver(ids, "2024-03-05")

	require.Len(t, changed, 2)
	event := s.DomainEvents()[0].(*domain.BlocksCarriedOver)
	assert.Equal(t, 240, event.Minutes)
	assert.Equal(t, "2024-03-05", event.CarryToDate)
	assert.Nil(t, s.MarkCarriedOver([]uuid.UUID{uuid.New()}, "2024-03-05"))
}

func TestDaySchedule_BlocksIsACopy(t *testing.T) {
	s := newDay(t)
	blocks := s.Blocks()
	blocks[0] = blocks[0].WithStatus(domain.StatusCompleted)

	assert.Equal(t, domain.StatusPending, s.Blocks()[0].Status())
}
