package persistence_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/felixgeelhaar/workday/internal/scheduling/infrastructure/persistence"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/workday/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func openConn(t *testing.T) database.Connection {
	t.Helper()
	ctx := context.Background()
	conn, err := database.Open(ctx, database.Config{SQLitePath: filepath.Join(t.TempDir(), "schedule.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, migrations.Run(ctx, conn))
	return conn
}

func buildDay(t *testing.T, userID uuid.UUID) *domain.DaySchedule {
	t.Helper()
	blocks, err := domain.Build(day, "08:00", []domain.TemplateEntry{
		{Type: domain.BlockTypeWork, DurationMinutes: 120, Label: "Focus"},
		{Type: domain.BlockTypeLunch, DurationMinutes: 30, Label: "Lunch"},
		{Type: domain.BlockTypeFlex, DurationMinutes: 60, Label: "Admin"},
	}, 0)
	require.NoError(t, err)
	return domain.NewDaySchedule(userID, day, blocks, 0)
}

func TestScheduleRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewScheduleRepository(openConn(t))
	userID := uuid.New()

	missing, err := repo.FindByUserAndDate(ctx, userID, day)
	require.NoError(t, err)
	assert.Nil(t, missing)

	schedule := buildDay(t, userID)
	first := schedule.Blocks()[0]
	_, err = schedule.Complete(first.ID())
	require.NoError(t, err)
	notes := "wrote the report"
	schedule.Update(schedule.Blocks()[2].ID(), domain.BlockUpdate{Notes: &notes})
	require.NoError(t, repo.Save(ctx, schedule))

	loaded, err := repo.FindByUserAndDate(ctx, userID, day)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, schedule.ID(), loaded.ID())
	blocks := loaded.Blocks()
	require.Len(t, blocks, 3)
	assert.Equal(t, first.ID(), blocks[0].ID())
	assert.Equal(t, domain.StatusCompleted, blocks[0].Status())
	assert.Equal(t, 200, blocks[0].XPEarned())
	assert.True(t, blocks[1].StartTime().Equal(day.Add(10*time.Hour)))
	assert.Equal(t, 30, blocks[1].DurationMinutes())
	assert.Equal(t, domain.BlockTypeFlex, blocks[2].Type())
	assert.Equal(t, notes, blocks[2].Notes())
	assert.Empty(t, blocks[1].Notes())

	other, err := repo.FindByUserAndDate(ctx, uuid.New(), day)
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestScheduleRepository_KeepsCarryOverFlag(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewScheduleRepository(openConn(t))
	userID := uuid.New()

	schedule := buildDay(t, userID)
	start, err := domain.ParseTimeOfDay("08:00")
	require.NoError(t, err)
	carry, ok := schedule.AppendCarryOver(45, start)
	require.True(t, ok)
	label := "Finish the report"
	schedule.Update(carry.ID(), domain.BlockUpdate{Label: &label})
	require.NoError(t, repo.Save(ctx, schedule))

	loaded, err := repo.FindByUserAndDate(ctx, userID, day)
	require.NoError(t, err)
	blocks := loaded.Blocks()
	require.Len(t, blocks, 4)
	assert.True(t, blocks[3].IsCarryOver())
	assert.False(t, blocks[0].IsCarryOver())
	assert.Equal(t, 45, loaded.CarriedMinutes())
}

func TestScheduleRepository_SaveReplacesDay(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewScheduleRepository(openConn(t))
	userID := uuid.New()

	schedule := buildDay(t, userID)
	require.NoError(t, repo.Save(ctx, schedule))

	blocks := schedule.Blocks()
	schedule.ReplaceBlocks(blocks[:1])
	require.NoError(t, repo.Save(ctx, schedule))

	loaded, err := repo.FindByUserAndDate(ctx, userID, day)
	require.NoError(t, err)
	require.Len(t, loaded.Blocks(), 1)

	dropped, err := repo.FindByBlockID(ctx, userID, blocks[2].ID())
	require.NoError(t, err)
	assert.Nil(t, dropped)
}

func TestScheduleRepository_FindByBlockID(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewScheduleRepository(openConn(t))
	userID := uuid.New()
	schedule := buildDay(t, userID)
	require.NoError(t, repo.Save(ctx, schedule))
	target := schedule.Blocks()[1]

	found, err := repo.FindByBlockID(ctx, userID, target.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "2024-03-04", found.DateKey())

	foreign, err := repo.FindByBlockID(ctx, uuid.New(), target.ID())
	require.NoError(t, err)
	assert.Nil(t, foreign)
}

func TestScheduleRepository_SaveInUnitOfWork(t *testing.T) {
	ctx := context.Background()
	conn := openConn(t)
	repo := persistence.NewScheduleRepository(conn)
	uow := database.NewUnitOfWork(conn)
	userID := uuid.New()

	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Save(txCtx, buildDay(t, userID)))
	require.NoError(t, uow.Rollback(txCtx))

	missing, err := repo.FindByUserAndDate(ctx, userID, day)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTemplateRepository(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewTemplateRepository(openConn(t))
	userID := uuid.New()

	missing, err := repo.FindDefault(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	tmpl, err := domain.NewTemplate("Four day week", "long days", []domain.TemplateEntry{
		{Type: domain.BlockTypeWork, DurationMinutes: 150, Label: "Morning"},
		{Type: domain.BlockTypeLunch, DurationMinutes: 45, Label: "Lunch"},
		{Type: domain.BlockTypeWork, DurationMinutes: 150, Label: "Afternoon"},
	})
	require.NoError(t, err)
	require.NoError(t, repo.SaveDefault(ctx, userID, tmpl))

	loaded, err := repo.FindDefault(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Four day week", loaded.Name())
	assert.Equal(t, "long days", loaded.Description())
	assert.True(t, loaded.IsDefault())
	assert.Equal(t, tmpl.Entries(), loaded.Entries())

	replacement, err := domain.NewTemplate("Half day", "", []domain.TemplateEntry{
		{Type: domain.BlockTypeWork, DurationMinutes: 240, Label: "Focus"},
	})
	require.NoError(t, err)
	require.NoError(t, repo.SaveDefault(ctx, userID, replacement))

	loaded, err = repo.FindDefault(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Half day", loaded.Name())
	assert.Len(t, loaded.Entries(), 1)
}
