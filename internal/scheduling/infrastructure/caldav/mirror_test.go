package caldav_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/felixgeelhaar/workday/internal/scheduling/infrastructure/caldav"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

func TestEventFor(t *testing.T) {
	userID := uuid.New()
	blocks, err := domain.Build(day, "08:00", []domain.TemplateEntry{
		{Type: domain.BlockTypeWork, DurationMinutes: 90, Label: "Deep work"},
	}, 0)
	require.NoError(t, err)
	done, _, err := domain.Complete(blocks, blocks[0].ID())
	require.NoError(t, err)

	cal := caldav.EventFor(userID, done[0], day)

	require.Len(t, cal.Children, 1)
	event := &ical.Event{Component: cal.Children[0]}
	uid, err := event.Props.Text(ical.PropUID)
	require.NoError(t, err)
	assert.Equal(t, done[0].ID().String(), uid)

	start, err := event.DateTimeStart(time.UTC)
	require.NoError(t, err)
	assert.True(t, start.Equal(day.Add(8*time.Hour)))
	end, err := event.DateTimeEnd(time.UTC)
	require.NoError(t, err)
	assert.True(t, end.Equal(day.Add(9*time.Hour+30*time.Minute)))

	summary, err := event.Props.Text(ical.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, "Deep work", summary)
	description, err := event.Props.Text(ical.PropDescription)
	require.NoError(t, err)
	assert.Contains(t, description, "Status: completed")
	assert.Contains(t, description, "XP: 125")
	assert.True(t, caldav.IsMirrored(cal))

	var buf bytes.Buffer
	require.NoError(t, ical.NewEncoder(&buf).Encode(cal))
	assert.Contains(t, buf.String(), "X-WORKDAY:"+userID.String())
}

func TestIsMirrored(t *testing.T) {
	assert.False(t, caldav.IsMirrored(nil))

	foreign := ical.NewCalendar()
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, "meeting")
	foreign.Children = append(foreign.Children, event.Component)
	assert.False(t, caldav.IsMirrored(foreign))
}

func TestEventPath(t *testing.T) {
	id := uuid.MustParse("6f1c8f36-3c35-4a52-9c8e-0f55f3e2a001")
	assert.Equal(t, "/calendars/me/work/6f1c8f36-3c35-4a52-9c8e-0f55f3e2a001.ics",
		caldav.EventPath("/calendars/me/work/", id))
}

func TestMirror_NotConfigured(t *testing.T) {
	m := caldav.NewMirror(caldav.Config{}, nil)

	assert.False(t, m.Configured())
	_, err := m.Push(context.Background(), uuid.New(), day, nil)
	assert.Error(t, err)
}
