package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/felixgeelhaar/workday/internal/scheduling/application/services"
	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/felixgeelhaar/workday/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBlocks() []domain.Block {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	return []domain.Block{
		domain.NewBlock(domain.BlockTypeWork, 0, start, 120, "Focus"),
		domain.NewBlock(domain.BlockTypeBreak, 1, start.Add(2*time.Hour), 15, "Break"),
		domain.NewBlock(domain.BlockTypeWork, 2, start.Add(135*time.Minute), 60, "Review"),
	}
}

func TestResolveBlock(t *testing.T) {
	blocks := testBlocks()

	t.Run("position", func(t *testing.T) {
		b, err := ResolveBlock(blocks, "2")
		require.NoError(t, err)
		assert.Equal(t, "Break", b.Label())
	})

	t.Run("position out of range", func(t *testing.T) {
		_, err := ResolveBlock(blocks, "4")
		assert.ErrorIs(t, err, ErrUnknownBlock)
		_, err = ResolveBlock(blocks, "0")
		assert.ErrorIs(t, err, ErrUnknownBlock)
	})

	t.Run("full id", func(t *testing.T) {
		b, err := ResolveBlock(blocks, blocks[2].ID().String())
		require.NoError(t, err)
		assert.Equal(t, blocks[2].ID(), b.ID())
	})

	t.Run("prefix", func(t *testing.T) {
		b, err := ResolveBlock(blocks, blocks[0].ID().String()[:9])
		require.NoError(t, err)
		assert.Equal(t, blocks[0].ID(), b.ID())
	})

	t.Run("short prefix", func(t *testing.T) {
		_, err := ResolveBlock(blocks, "ab")
		assert.ErrorIs(t, err, ErrUnknownBlock)
	})
}

func TestParseClock(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	got, err := ParseClock(day, "13:45")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 13, 45, 0, 0, time.UTC), got)

	_, err = ParseClock(day, "1pm")
	assert.Error(t, err)
}

func TestPrintSchedule(t *testing.T) {
	blocks := testBlocks()
	view := services.ScheduleView{
		Date:              "2026-03-02",
		Source:            services.SourceTemplate,
		Blocks:            blocks,
		Stats:             domain.ComputeStats(blocks, blocks[0].StartTime()),
		TotalWorkMinutes:  domain.TotalWorkMinutes(blocks),
		TotalBreakMinutes: domain.TotalBreakMinutes(blocks),
	}

	var out bytes.Buffer
	PrintSchedule(&out, view)

	assert.Contains(t, out.String(), "Schedule for 2026-03-02 (template)")
	assert.Contains(t, out.String(), " 1. [ ] 08:00 - 10:00  WORK  Focus (120m)")
	assert.Contains(t, out.String(), "Work: 180m | Breaks: 15m")
}

func TestRequireApp(t *testing.T) {
	SetApp(nil)
	_, err := RequireApp()
	assert.ErrorIs(t, err, ErrNoApp)
}

func TestVersionMode(t *testing.T) {
	t.Cleanup(func() { SetApp(nil) })

	SetApp(nil)
	assert.Equal(t, "unavailable", mode())

	SetApp(&App{Config: &config.Config{LocalMode: true, DatabaseDriver: "sqlite"}})
	assert.Equal(t, "local sqlite", mode())

	SetApp(&App{Config: &config.Config{APIURL: "https://api.example.com"}})
	assert.Equal(t, "remote https://api.example.com", mode())

	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	assert.Contains(t, buf.String(), "workday dev")
	assert.Contains(t, buf.String(), "mode: remote")
}
