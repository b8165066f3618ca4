package snapshot

import (
	"context"
	"time"

	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/database"
)

// SQLBackend keeps values in the local_snapshots table. The CLI uses it in
// local mode so snapshots and dismissals survive between invocations.
type SQLBackend struct {
	conn database.Connection
	now  func() time.Time
}

func NewSQLBackend(conn database.Connection) *SQLBackend {
	return &SQLBackend{conn: conn, now: time.Now}
}

// WithClock replaces the clock used for expiry.
func (b *SQLBackend) WithClock(now func() time.Time) *SQLBackend {
	b.now = now
	return b
}

func (b *SQLBackend) q(query string) string {
	return database.Rebind(b.conn.Driver(), query)
}

func (b *SQLBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var (
		value     string
		expiresAt *string
	)
	err := b.conn.QueryRow(ctx, b.q(`SELECT value, expires_at FROM local_snapshots WHERE key = ?`), key).
		Scan(&value, &expiresAt)
	if database.IsNoRows(err) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}

	expiry, err := database.ParseTimePtr(expiresAt)
	if err != nil {
		return nil, err
	}
	if expiry != nil && !b.now().Before(*expiry) {
		if err := b.Delete(ctx, key); err != nil {
			return nil, err
		}
		return nil, ErrKeyNotFound
	}
	return []byte(value), nil
}

const upsertSnapshot = `
	INSERT INTO local_snapshots (key, value, expires_at)
	VALUES (?, ?, ?)
	ON CONFLICT (key) DO UPDATE SET
		value = excluded.value,
		expires_at = excluded.expires_at`

func (b *SQLBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt *string
	if ttl > 0 {
		t := b.now().Add(ttl)
		expiresAt = database.FormatTimePtr(&t)
	}
	_, err := b.conn.Exec(ctx, b.q(upsertSnapshot), key, string(value), expiresAt)
	return err
}

func (b *SQLBackend) Delete(ctx context.Context, key string) error {
	_, err := b.conn.Exec(ctx, b.q(`DELETE FROM local_snapshots WHERE key = ?`), key)
	return err
}

// Purge drops expired rows.
func (b *SQLBackend) Purge(ctx context.Context) (int64, error) {
	res, err := b.conn.Exec(ctx, b.q(`DELETE FROM local_snapshots WHERE expires_at IS NOT NULL AND expires_at <= ?`),
		database.FormatTime(b.now()))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
