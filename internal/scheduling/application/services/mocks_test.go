package services_test

import (
	"context"
	"time"

	"github.com/felixgeelhaar/workday/internal/scheduling/application/services"
	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockScheduleGateway struct {
	mock.Mock
}

func (m *mockScheduleGateway) FetchTemplate(ctx context.Context) (*domain.Template, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Template), args.Error(1)
}

func (m *mockScheduleGateway) LoadBlocks(ctx context.Context, date time.Time) ([]domain.Block, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Block), args.Error(1)
}

func (m *mockScheduleGateway) SaveBlocks(ctx context.Context, date time.Time, blocks []domain.Block) error {
	return m.Called(ctx, date, blocks).Error(0)
}

func (m *mockScheduleGateway) FetchIncomplete(ctx context.Context, today time.Time) ([]domain.Block, error) {
	args := m.Called(ctx, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Block), args.Error(1)
}

func (m *mockScheduleGateway) CommitCarryOver(ctx context.Context, blockIDs []uuid.UUID, toDate time.Time) error {
	return m.Called(ctx, blockIDs, toDate).Error(0)
}

type mockXPGateway struct {
	mock.Mock
}

func (m *mockXPGateway) TotalXP(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockXPGateway) AwardXP(ctx context.Context, amount int, reason, actionType string) (services.XPAward, error) {
	args := m.Called(ctx, amount, reason, actionType)
	return args.Get(0).(services.XPAward), args.Error(1)
}

func (m *mockXPGateway) UpdateStreak(ctx context.Context, clientDate string) error {
	return m.Called(ctx, clientDate).Error(0)
}

type failingSnapshots struct{}

func (failingSnapshots) Load(context.Context, uuid.UUID, string) (*services.Snapshot, error) {
	return nil, nil
}

func (failingSnapshots) Save(context.Context, services.Snapshot) error {
	return context.DeadlineExceeded
}

func (failingSnapshots) Delete(context.Context, uuid.UUID, string) error { return nil }
