package domain_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// threeBlocks is A(9:00-10:00) B(10:00-10:15) C(10:15-11:00).
func threeBlocks(t *testing.T) []domain.Block {
	return build(t, "09:00", []domain.TemplateEntry{work(60, "A"), brk(15), work(45, "C")}, 0)
}

func TestUpdateBlock_EndTimeShiftsTail(t *testing.T) {
	blocks := threeBlocks(t)

	out, outcome := domain.UpdateBlock(blocks, blocks[0].ID(), domain.BlockUpdate{EndTime: ptr(at(10, 30))})

	require.True(t, outcome.Found)
	assert.Equal(t, 30*time.Minute, outcome.Shift)
	requireInvariants(t, out)
	assert.Equal(t, at(9, 0), out[0].StartTime())
	assert.Equal(t, at(10, 30), out[0].EndTime())
	assert.Equal(t, 90, out[0].DurationMinutes())
	assert.Equal(t, at(10, 30), out[1].StartTime())
	assert.Equal(t, at(10, 45), out[1].EndTime())
	assert.Equal(t, at(10, 45), out[2].StartTime())
	assert.Equal(t, at(11, 30), out[2].EndTime())
	assert.Equal(t, 15, out[1].DurationMinutes())
	assert.Equal(t, 45, out[2].DurationMinutes())

	assert.Equal(t, at(10, 0), blocks[0].EndTime(), "input is copy-on-write")
}

func TestUpdateBlock_EndTimeEarlier(t *testing.T) {
	blocks := threeBlocks(t)

	out, outcome := domain.UpdateBlock(blocks, blocks[1].ID(), domain.BlockUpdate{EndTime: ptr(at(10, 5))})

	assert.Equal(t, -10*time.Minute, outcome.Shift)
	requireInvariants(t, out)
	assert.Equal(t, at(10, 5), out[2].StartTime())
	assert.Equal(t, at(10, 50), out[2].EndTime())
}

func TestUpdateBlock_Duration(t *testing.T) {
	blocks := threeBlocks(t)

	out, outcome := domain.UpdateBlock(blocks, blocks[1].ID(), domain.BlockUpdate{DurationMinutes: ptr(30)})

	assert.Equal(t, 15*time.Minute, outcome.Shift)
	requireInvariants(t, out)
	assert.Equal(t, at(10, 30), out[1].EndTime())
	assert.Equal(t, at(11, 15), out[2].EndTime())
}

func TestUpdateBlock_StartTime(t *testing.T) {
	t.Run("moves the boundary with the previous block", func(t *testing.T) {
		blocks := threeBlocks(t)

		out, outcome := domain.UpdateBlock(blocks, blocks[1].ID(), domain.BlockUpdate{StartTime: ptr(at(9, 50))})

		assert.False(t, outcome.TimeIgnored)
		assert.Zero(t, outcome.Shift)
		requireInvariants(t, out)
		assert.Equal(t, 50, out[0].DurationMinutes())
		assert.Equal(t, 25, out[1].DurationMinutes())
		assert.Equal(t, at(10, 15), out[2].StartTime())
	})

	t.Run("start that would swallow the previous block is dropped", func(t *testing.T) {
		blocks := threeBlocks(t)

		out, outcome := domain.UpdateBlock(blocks, blocks[1].ID(), domain.BlockUpdate{StartTime: ptr(blocks[0].StartTime())})

		assert.True(t, outcome.TimeIgnored)
		assert.Equal(t, blocks, out)
	})

	t.Run("first block keeps its end", func(t *testing.T) {
		blocks := threeBlocks(t)

		out, _ := domain.UpdateBlock(blocks, blocks[0].ID(), domain.BlockUpdate{StartTime: ptr(at(8, 30))})

		requireInvariants(t, out)
		assert.Equal(t, at(8, 30), out[0].StartTime())
		assert.Equal(t, 90, out[0].DurationMinutes())
	})

	t.Run("start at or after the end is dropped", func(t *testing.T) {
		blocks := threeBlocks(t)

		out, outcome := domain.UpdateBlock(blocks, blocks[0].ID(), domain.BlockUpdate{
			StartTime: ptr(at(10, 0)),
			Label:     ptr("Deep work"),
		})

		assert.True(t, outcome.Found)
		assert.True(t, outcome.TimeIgnored)
		requireInvariants(t, out)
		assert.Equal(t, at(9, 0), out[0].StartTime())
		assert.Equal(t, 60, out[0].DurationMinutes())
		assert.Equal(t, "Deep work", out[0].Label(), "other fields still apply")
	})

	t.Run("strict variant rejects it", func(t *testing.T) {
		blocks := threeBlocks(t)

		out, _, err := domain.UpdateBlockStrict(blocks, blocks[0].ID(), domain.BlockUpdate{StartTime: ptr(at(11, 0))})

		assert.ErrorIs(t, err, domain.ErrNonPositiveDuration)
		assert.Equal(t, blocks, out)
	})
}

func TestUpdateBlock_NonPositiveEndOrDuration(t *testing.T) {
	blocks := threeBlocks(t)

	out, outcome := domain.UpdateBlock(blocks, blocks[2].ID(), domain.BlockUpdate{EndTime: ptr(at(10, 15))})
	assert.True(t, outcome.TimeIgnored)
	requireInvariants(t, out)

	out, outcome = domain.UpdateBlock(blocks, blocks[2].ID(), domain.BlockUpdate{DurationMinutes: ptr(0)})
	assert.True(t, outcome.TimeIgnored)
	requireInvariants(t, out)

	_, _, err := domain.UpdateBlockStrict(blocks, blocks[2].ID(), domain.BlockUpdate{DurationMinutes: ptr(-10)})
	assert.ErrorIs(t, err, domain.ErrNonPositiveDuration)
}

func TestUpdateBlock_Fields(t *testing.T) {
	blocks := threeBlocks(t)
	status := domain.StatusPartial

	out, _ := domain.UpdateBlock(blocks, blocks[0].ID(), domain.BlockUpdate{
		Label:       ptr("Review"),
		Status:      &status,
		ProjectID:   ptr("42"),
		ProjectName: ptr("Portal"),
		Notes:       ptr("half done"),
		FocusScore:  ptr(140),
		XPEarned:    ptr(40),
	})

	b := out[0]
	assert.Equal(t, "Review", b.Label())
	assert.Equal(t, domain.StatusPartial, b.Status())
	assert.Equal(t, "42", b.ProjectID())
	assert.Equal(t, "Portal", b.ProjectName())
	assert.Equal(t, "half done", b.Notes())
	assert.Equal(t, 100, b.FocusScore())
	assert.Equal(t, 40, b.XPEarned())
}

func TestUpdateBlock_UnknownID(t *testing.T) {
	blocks := threeBlocks(t)

	out, outcome := domain.UpdateBlock(blocks, uuid.New(), domain.BlockUpdate{Label: ptr("x")})
	assert.False(t, outcome.Found)
	assert.Equal(t, blocks, out)

	_, _, err := domain.UpdateBlockStrict(blocks, uuid.New(), domain.BlockUpdate{})
	assert.ErrorIs(t, err, domain.ErrBlockNotFound)
}

func TestOvertimeWarning(t *testing.T) {
	blocks := build(t, "08:00", domain.FallbackTemplate().Entries(), 0)
	assert.Empty(t, domain.OvertimeWarning(blocks, 480))

	out, _ := domain.UpdateBlock(blocks, blocks[0].ID(), domain.BlockUpdate{DurationMinutes: ptr(180)})
	assert.Empty(t, domain.OvertimeWarning(out, 480), "exactly target+60 is allowed")

	out, _ = domain.UpdateBlock(out, out[0].ID(), domain.BlockUpdate{DurationMinutes: ptr(181)})
	assert.Contains(t, domain.OvertimeWarning(out, 480), "541m")
}

func TestUpdateBlock_RandomEditsKeepInvariants(t *testing.T) {
	blocks := build(t, "08:00", domain.FallbackTemplate().Entries(), 30)
	edits := []domain.BlockUpdate{
		{EndTime: ptr(at(10, 45))},
		{DurationMinutes: ptr(5)},
		{StartTime: ptr(at(7, 0))},
		{StartTime: ptr(at(23, 0))},
		{EndTime: ptr(at(6, 0))},
		{DurationMinutes: ptr(95)},
	}
	for i := 0; i < 40; i++ {
		target := blocks[(i*3)%len(blocks)].ID()
		blocks, _ = domain.UpdateBlock(blocks, target, edits[i%len(edits)])
		requireInvariants(t, blocks)
	}
}
