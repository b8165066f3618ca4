// Package snapshot keeps the local copy of each day and the carry-over
// dismissals, in Redis or in memory.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/workday/internal/scheduling/application/services"
	"github.com/google/uuid"
)

// DefaultTTL keeps yesterday's snapshot around for the carry-over prompt.
const DefaultTTL = 48 * time.Hour

// ErrKeyNotFound is returned by a Backend for a missing key.
var ErrKeyNotFound = errors.New("snapshot key not found")

// Backend is a byte store with expiry.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// SnapshotKey is workday:user:{id}:snapshot:{date}.
func SnapshotKey(userID uuid.UUID, date string) string {
	return fmt.Sprintf("workday:user:%s:snapshot:%s", userID, date)
}

// DismissalKey is workday:user:{id}:carryover:dismissed:{date}.
func DismissalKey(userID uuid.UUID, date string) string {
	return fmt.Sprintf("workday:user:%s:carryover:dismissed:%s", userID, date)
}

// Store implements services.SnapshotStore and services.DismissalStore.
type Store struct {
	backend Backend
	ttl     time.Duration
}

func NewStore(backend Backend, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{backend: backend, ttl: ttl}
}

func (s *Store) Load(ctx context.Context, userID uuid.UUID, date string) (*services.Snapshot, error) {
	raw, err := s.backend.Get(ctx, SnapshotKey(userID, date))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", date, err)
	}

	var snap services.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", date, err)
	}
	return &snap, nil
}

func (s *Store) Save(ctx context.Context, snap services.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", snap.Date, err)
	}
	return s.backend.Set(ctx, SnapshotKey(snap.UserID, snap.Date), raw, s.ttl)
}

func (s *Store) Delete(ctx context.Context, userID uuid.UUID, date string) error {
	return s.backend.Delete(ctx, SnapshotKey(userID, date))
}

func (s *Store) Dismissed(ctx context.Context, userID uuid.UUID, date string) (bool, error) {
	_, err := s.backend.Get(ctx, DismissalKey(userID, date))
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Dismiss(ctx context.Context, userID uuid.UUID, date string) error {
	return s.backend.Set(ctx, DismissalKey(userID, date), []byte(date), s.ttl)
}
