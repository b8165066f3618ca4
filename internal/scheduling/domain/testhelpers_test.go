package domain_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
}

func build(t *testing.T, start string, entries []domain.TemplateEntry, carry int) []domain.Block {
	t.Helper()
	blocks, err := domain.Build(day, start, entries, carry)
	require.NoError(t, err)
	return blocks
}

func work(minutes int, label string) domain.TemplateEntry {
	return domain.TemplateEntry{Type: domain.BlockTypeWork, DurationMinutes: minutes, Label: label}
}

func brk(minutes int) domain.TemplateEntry {
	return domain.TemplateEntry{Type: domain.BlockTypeBreak, DurationMinutes: minutes, Label: "Break"}
}

// requireInvariants checks contiguity, duration and order index.
func requireInvariants(t *testing.T, blocks []domain.Block) {
	t.Helper()
	for i, b := range blocks {
		require.Equal(t, i, b.OrderIndex(), "order index of block %d", i)
		require.True(t, b.EndTime().After(b.StartTime()), "block %d has no duration", i)
		require.Equal(t, int(b.EndTime().Sub(b.StartTime())/time.Minute), b.DurationMinutes(), "duration of block %d", i)
		if i > 0 {
			require.True(t, blocks[i-1].EndTime().Equal(b.StartTime()), "gap before block %d", i)
		}
	}
}
