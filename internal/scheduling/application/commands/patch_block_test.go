package commands

import (
	"testing"

	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestPatchBlockHandler_Handle(t *testing.T) {
	userID := uuid.New()

	t.Run("end time shifts the rest of the day", func(t *testing.T) {
		f := newFixture()
		handler := NewPatchBlockHandler(f.repo, f.outbox, f.uow)
		existing := storedDay(t, userID)
		a := existing.Blocks()[0]

		f.repo.On("FindByBlockID", f.txCtx, userID, a.ID()).Return(existing, nil)
		f.expectCommit()

		result, err := handler.Handle(f.ctx, PatchBlockCommand{
			UserID:   userID,
			BlockID:  a.ID(),
			Status:   ptr(domain.StatusCompleted),
			EndTime:  ptr(at(10, 30)),
			XPEarned: ptr(40),
			Notes:    ptr("ran long"),
		})

		require.NoError(t, err)
		assert.Equal(t, at(10, 30), result.Block.EndTime())
		assert.Equal(t, 40, result.Block.XPEarned())
		assert.Equal(t, "ran long", result.Block.Notes())
		assert.Equal(t, domain.StatusCompleted, result.Block.Status())

		blocks := existing.Blocks()
		assert.Equal(t, at(10, 30), blocks[1].StartTime())
		assert.Equal(t, at(11, 30), blocks[2].EndTime())
		assert.Equal(t, []string{domain.RoutingKeyBlockRescheduled, domain.RoutingKeyBlockCompleted}, f.savedRoutingKeys())
	})

	t.Run("unknown block", func(t *testing.T) {
		f := newFixture()
		handler := NewPatchBlockHandler(f.repo, f.outbox, f.uow)
		id := uuid.New()

		f.repo.On("FindByBlockID", f.txCtx, userID, id).Return(nil, nil)
		f.uow.On("Rollback", f.txCtx).Return(nil)

		_, err := handler.Handle(f.ctx, PatchBlockCommand{UserID: userID, BlockID: id, Notes: ptr("x")})

		assert.ErrorIs(t, err, domain.ErrBlockNotFound)
		f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		f := newFixture()
		handler := NewPatchBlockHandler(f.repo, f.outbox, f.uow)
		existing := storedDay(t, userID)
		c := existing.Blocks()[2]

		f.repo.On("FindByBlockID", f.txCtx, userID, c.ID()).Return(existing, nil)
		f.uow.On("Rollback", f.txCtx).Return(nil)

		_, err := handler.Handle(f.ctx, PatchBlockCommand{UserID: userID, BlockID: c.ID(), EndTime: ptr(at(10, 0))})

		assert.ErrorIs(t, err, domain.ErrNonPositiveDuration)
		assert.Equal(t, at(11, 0), existing.Blocks()[2].EndTime())
	})
}
