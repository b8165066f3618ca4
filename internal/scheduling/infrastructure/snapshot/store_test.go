package snapshot_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/workday/internal/scheduling/application/dto"
	"github.com/felixgeelhaar/workday/internal/scheduling/application/services"
	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/felixgeelhaar/workday/internal/scheduling/infrastructure/snapshot"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingBackend struct{}

func (failingBackend) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}
func (failingBackend) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}
func (failingBackend) Delete(context.Context, string) error { return nil }

func TestKeys(t *testing.T) {
	userID := uuid.MustParse("6f1c1c0e-8d1a-4a59-9a0c-1c2d3e4f5a6b")

	assert.Equal(t, "workday:user:6f1c1c0e-8d1a-4a59-9a0c-1c2d3e4f5a6b:snapshot:2024-03-04",
		snapshot.SnapshotKey(userID, "2024-03-04"))
	assert.Equal(t, "workday:user:6f1c1c0e-8d1a-4a59-9a0c-1c2d3e4f5a6b:carryover:dismissed:2024-03-04",
		snapshot.DismissalKey(userID, "2024-03-04"))
}

func TestStore_SnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	store := snapshot.NewMemoryStore()
	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	blocks, err := domain.Build(date, "08:00", []domain.TemplateEntry{
		{Type: domain.BlockTypeWork, DurationMinutes: 90, Label: "Deep work"},
		{Type: domain.BlockTypeBreak, DurationMinutes: 15, Label: "Break"},
	}, 0)
	require.NoError(t, err)

	missing, err := store.Load(ctx, userID, "2024-03-04")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, store.Save(ctx, services.Snapshot{
		UserID:  userID,
		Date:    "2024-03-04",
		Blocks:  dto.FromBlocks(blocks),
		SavedAt: date.Add(9 * time.Hour),
	}))

	loaded, err := store.Load(ctx, userID, "2024-03-04")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Blocks, 2)
	assert.Equal(t, blocks[0].ID().String(), loaded.Blocks[0].ID)
	assert.True(t, loaded.Blocks[1].EndTime.Equal(blocks[1].EndTime()))

	other, err := store.Load(ctx, uuid.New(), "2024-03-04")
	require.NoError(t, err)
	assert.Nil(t, other)

	require.NoError(t, store.Delete(ctx, userID, "2024-03-04"))
	gone, err := store.Load(ctx, userID, "2024-03-04")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestStore_Dismissals(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	store := snapshot.NewMemoryStore()

	dismissed, err := store.Dismissed(ctx, userID, "2024-03-05")
	require.NoError(t, err)
	assert.False(t, dismissed)

	require.NoError(t, store.Dismiss(ctx, userID, "2024-03-05"))

	dismissed, err = store.Dismissed(ctx, userID, "2024-03-05")
	require.NoError(t, err)
	assert.True(t, dismissed)

	dismissed, err = store.Dismissed(ctx, userID, "2024-03-06")
	require.NoError(t, err)
	assert.False(t, dismissed)
}

func TestStore_BackendErrors(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewStore(failingBackend{}, 0)

	_, err := store.Load(ctx, uuid.New(), "2024-03-04")
	assert.Error(t, err)

	_, err = store.Dismissed(ctx, uuid.New(), "2024-03-04")
	assert.Error(t, err)
}

func TestMemoryBackend_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	backend := snapshot.NewMemoryBackend().WithClock(func() time.Time { return now })

	require.NoError(t, backend.Set(ctx, "k", []byte("v"), time.Hour))
	require.NoError(t, backend.Set(ctx, "forever", []byte("v"), 0))

	val, err := backend.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)

	now = now.Add(time.Hour)
	_, err = backend.Get(ctx, "k")
	assert.ErrorIs(t, err, snapshot.ErrKeyNotFound)
	assert.Equal(t, 1, backend.Len())

	_, err = backend.Get(ctx, "forever")
	assert.NoError(t, err)
}
