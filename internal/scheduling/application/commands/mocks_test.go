package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockScheduleRepo struct {
	mock.Mock
}

func (m *mockScheduleRepo) Save(ctx context.Context, schedule *domain.DaySchedule) error {
	return m.Called(ctx, schedule).Error(0)
}

func (m *mockScheduleRepo) FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.DaySchedule, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DaySchedule), args.Error(1)
}

func (m *mockScheduleRepo) FindByBlockID(ctx context.Context, userID, blockID uuid.UUID) (*domain.DaySchedule, error) {
	args := m.Called(ctx, userID, blockID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DaySchedule), args.Error(1)
}

type mockTemplateRepo struct {
	mock.Mock
}

func (m *mockTemplateRepo) FindDefault(ctx context.Context, userID uuid.UUID) (*domain.Template, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Template), args.Error(1)
}

func (m *mockTemplateRepo) SaveDefault(ctx context.Context, userID uuid.UUID, template *domain.Template) error {
	return m.Called(ctx, userID, template).Error(0)
}

type mockOutboxRepo struct {
	mock.Mock
}

func (m *mockOutboxRepo) SaveBatch(ctx context.Context, msgs []*outbox.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *mockOutboxRepo) MarkPublished(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockOutboxRepo) MarkFailed(ctx context.Context, id int64, reason string, nextRetryAt time.Time) error {
	return m.Called(ctx, id, reason, nextRetryAt).Error(0)
}

func (m *mockOutboxRepo) MarkDead(ctx context.Context, id int64, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

func (m *mockOutboxRepo) CountPending(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockOutboxRepo) DeleteOld(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type fixture struct {
	repo   *mockScheduleRepo
	outbox *mockOutboxRepo
	uow    *mockUnitOfWork
	ctx    context.Context
	txCtx  context.Context
}

func newFixture() *fixture {
	ctx := context.Background()
	f := &fixture{
		repo:   new(mockScheduleRepo),
		outbox: new(mockOutboxRepo),
		uow:    new(mockUnitOfWork),
		ctx:    ctx,
		txCtx:  context.WithValue(ctx, "tx", "transaction"),
	}
	f.uow.On("Begin", ctx).Return(f.txCtx, nil)
	return f
}

func (f *fixture) expectCommit() {
	f.uow.On("Commit", f.txCtx).Return(nil)
	f.repo.On("Save", f.txCtx, mock.AnythingOfType("*domain.DaySchedule")).Return(nil)
	f.outbox.On("SaveBatch", f.txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)
}

// savedRoutingKeys returns the routing keys staged in the outbox.
func (f *fixture) savedRoutingKeys() []string {
	var keys []string
	for _, call := range f.outbox.Calls {
		if call.Method != "SaveBatch" {
			continue
		}
		for _, msg := range call.Arguments.Get(1).([]*outbox.Message) {
			keys = append(keys, msg.RoutingKey)
		}
	}
	return keys
}
