package commands

import (
	"errors"
	"testing"

	"github.com/felixgeelhaar/workday/internal/gamification/domain"
	"github.com/felixgeelhaar/workday/pkg/observability"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAwardXPHandler_Handle(t *testing.T) {
	userID := uuid.New()

	t.Run("creates the profile on first award", func(t *testing.T) {
		f := newFixture()
		metrics := observability.NewInMemoryMetrics()
		handler := NewAwardXPHandler(f.repo, f.outbox, f.uow, metrics)

		f.repo.On("FindByUserID", f.txCtx, userID).Return(nil, nil)
		f.expectCommit()

		result, err := handler.Handle(f.ctx, AwardXPCommand{UserID: userID, ActionType: "CLOCK_OUT"})

		require.NoError(t, err)
		assert.Equal(t, 20, result.TotalXP)
		assert.Equal(t, 20, result.XPGained)
		assert.Equal(t, 1, result.Level)
		assert.False(t, result.LeveledUp)
		assert.Equal(t, []string{domain.RoutingKeyXPAwarded}, f.savedRoutingKeys())
		assert.Equal(t, int64(20), metrics.GetCounter(observability.MetricXPAwarded, observability.T("action_type", "CLOCK_OUT")))

		saved := f.repo.Calls[1].Arguments.Get(1).(*domain.Profile)
		require.Len(t, saved.PendingTransactions(), 1)
		assert.Equal(t, "Action: CLOCK_OUT", saved.PendingTransactions()[0].Reason)
		f.uow.AssertExpectations(t)
	})

	t.Run("reports a level up", func(t *testing.T) {
		f := newFixture()
		handler := NewAwardXPHandler(f.repo, f.outbox, f.uow, nil)
		existing := domain.RehydrateProfile(domain.ProfileState{UserID: userID, TotalXP: 990})

		f.repo.On("FindByUserID", f.txCtx, userID).Return(existing, nil)
		f.expectCommit()

		result, err := handler.Handle(f.ctx, AwardXPCommand{UserID: userID, ActionType: "WEEKLY_MILESTONE", Reason: "week done"})

		require.NoError(t, err)
		assert.Equal(t, 1990, result.TotalXP)
		assert.True(t, result.LeveledUp)
		assert.Equal(t, 4, result.PreviousLevel)
		assert.Equal(t, 6, result.Level)
		assert.Equal(t, []string{domain.RoutingKeyXPAwarded, domain.RoutingKeyLevelUp}, f.savedRoutingKeys())
	})

	t.Run("rejects unknown actions before opening a transaction", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		handler := NewAwardXPHandler(new(mockProfileRepo), new(mockOutboxRepo), uow, nil)

		_, err := handler.Handle(t.Context(), AwardXPCommand{UserID: userID, ActionType: "FREE_XP"})

		assert.ErrorIs(t, err, domain.ErrUnknownAction)
		uow.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("rolls back when save fails", func(t *testing.T) {
		f := newFixture()
		handler := NewAwardXPHandler(f.repo, f.outbox, f.uow, nil)
		saveErr := errors.New("disk full")

		f.repo.On("FindByUserID", f.txCtx, userID).Return(nil, nil)
		f.repo.On("Save", f.txCtx, mock.Anything).Return(saveErr)
		f.uow.On("Rollback", f.txCtx).Return(nil)

		_, err := handler.Handle(f.ctx, AwardXPCommand{UserID: userID, ActionType: "CLOCK_IN"})

		assert.ErrorIs(t, err, saveErr)
		f.uow.AssertExpectations(t)
		f.outbox.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything)
	})
}
