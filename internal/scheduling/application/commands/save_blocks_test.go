package commands

import (
	"testing"

	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSaveBlocksHandler_Handle(t *testing.T) {
	userID := uuid.New()

	t.Run("first save of a day", func(t *testing.T) {
		f := newFixture()
		handler := NewSaveBlocksHandler(f.repo, f.outbox, f.uow)
		blocks := storedDay(t, userID).Blocks()
		blocks, _, err := domain.Complete(blocks, blocks[0].ID())
		require.NoError(t, err)

		f.repo.On("FindByUserAndDate", f.txCtx, userID, day).Return(nil, nil)
		f.expectCommit()

		result, err := handler.Handle(f.ctx, SaveBlocksCommand{UserID: userID, Date: day, Blocks: blocks})

		require.NoError(t, err)
		assert.Equal(t, 3, result.BlocksSaved)
		assert.Equal(t, []string{domain.RoutingKeyScheduleReplaced, domain.RoutingKeyBlockCompleted}, f.savedRoutingKeys())

		saved := f.repo.Calls[1].Arguments.Get(1).(*domain.DaySchedule)
		assert.Equal(t, userID, saved.UserID())
		assert.Equal(t, "2024-03-04", saved.DateKey())
		f.uow.AssertExpectations(t)
	})

	t.Run("already completed blocks are not announced again", func(t *testing.T) {
		f := newFixture()
		handler := NewSaveBlocksHandler(f.repo, f.outbox, f.uow)
		existing := storedDay(t, userID)
		_, err := existing.Complete(existing.Blocks()[0].ID())
		require.NoError(t, err)
		existing.ClearDomainEvents()

		f.repo.On("FindByUserAndDate", f.txCtx, userID, day).Return(existing, nil)
		f.expectCommit()

		_, err = handler.Handle(f.ctx, SaveBlocksCommand{UserID: userID, Date: day, Blocks: existing.Blocks()})

		require.NoError(t, err)
		assert.Equal(t, []string{domain.RoutingKeyScheduleReplaced}, f.savedRoutingKeys())
	})

	t.Run("empty list clears the day", func(t *testing.T) {
		f := newFixture()
		handler := NewSaveBlocksHandler(f.repo, f.outbox, f.uow)

		f.repo.On("FindByUserAndDate", f.txCtx, userID, day).Return(storedDay(t, userID), nil)
		f.expectCommit()

		result, err := handler.Handle(f.ctx, SaveBlocksCommand{UserID: userID, Date: day})

		require.NoError(t, err)
		assert.Zero(t, result.BlocksSaved)
		f.repo.AssertCalled(t, "Save", f.txCtx, mock.AnythingOfType("*domain.DaySchedule"))
	})
}
