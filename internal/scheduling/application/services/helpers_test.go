package services_test

import (
	"context"
	"testing"
	"time"

	gamificationServices "github.com/felixgeelhaar/workday/internal/gamification/application/services"
	"github.com/felixgeelhaar/workday/internal/scheduling/application/services"
	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/felixgeelhaar/workday/internal/scheduling/infrastructure/snapshot"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/syncqueue"
	"github.com/felixgeelhaar/workday/pkg/observability"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	today = time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	now   = today.Add(9*time.Hour + 30*time.Minute)
)

func workdayTemplate() *domain.Template {
	return domain.RehydrateTemplate("Short day", "", []domain.TemplateEntry{
		{Type: domain.BlockTypeWork, DurationMinutes: 90, Label: "Deep work"},
		{Type: domain.BlockTypeBreak, DurationMinutes: 15, Label: "Break"},
		{Type: domain.BlockTypeWork, DurationMinutes: 60, Label: "Email"},
	}, true)
}

type sessionFixture struct {
	session   *services.DaySession
	gateway   *mockScheduleGateway
	xp        *mockXPGateway
	snapshots services.SnapshotStore
	queue     *syncqueue.Queue
	metrics   *observability.InMemoryMetrics
	userID    uuid.UUID
}

func noSleep(context.Context, time.Duration) error { return nil }

func newSessionFixture(t *testing.T, snapshots services.SnapshotStore) *sessionFixture {
	t.Helper()
	if snapshots == nil {
		snapshots = snapshot.NewMemoryStore()
	}
	f := &sessionFixture{
		gateway:   new(mockScheduleGateway),
		xp:        new(mockXPGateway),
		snapshots: snapshots,
		metrics:   observability.NewInMemoryMetrics(),
		userID:    uuid.New(),
	}
	f.queue = syncqueue.New(syncqueue.Config{MaxRetries: 1, Sleep: noSleep}, nil, f.metrics)
	start, err := domain.ParseTimeOfDay("08:00")
	require.NoError(t, err)

	f.session = services.NewDaySession(services.SessionConfig{
		UserID:            f.userID,
		StartTime:         start,
		TargetWorkMinutes: 480,
		Location:          time.UTC,
		DrainTimeout:      time.Second,
		Now:               func() time.Time { return now },
	}, f.gateway, f.xp, snapshots, f.queue, gamificationServices.NewXPLedger(0), nil, f.metrics)
	return f
}

// openFromTemplate opens today from workdayTemplate and flushes the initial save.
func (f *sessionFixture) openFromTemplate(t *testing.T) services.ScheduleView {
	t.Helper()
	ctx := context.Background()
	f.xp.On("TotalXP", mock.Anything).Return(200, nil).Once()
	f.gateway.On("LoadBlocks", mock.Anything, today).Return(nil, nil).Once()
	f.gateway.On("FetchTemplate", mock.Anything).Return(workdayTemplate(), nil).Once()
	f.gateway.On("SaveBlocks", mock.Anything, today, mock.Anything).Return(nil)

	view, err := f.session.Open(ctx, 0)
	require.NoError(t, err)
	require.NoError(t, f.queue.Process(ctx))
	return view
}
