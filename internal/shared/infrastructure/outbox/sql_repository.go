package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// SQLRepository implements Repository for both SQLite and PostgreSQL.
type SQLRepository struct {
	conn database.Connection
}

func NewSQLRepository(conn database.Connection) *SQLRepository {
	return &SQLRepository{conn: conn}
}

func (r *SQLRepository) q(query string) string {
	return database.Rebind(r.conn.Driver(), query)
}

const insertMessage = `
	INSERT INTO outbox_events (event_id, aggregate_type, aggregate_id, routing_key, body, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	RETURNING id`

func (r *SQLRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	if len(msgs) == 0 {
		return nil
	}
	if tx := database.TxFromContext(ctx); tx != nil {
		return r.insert(ctx, tx, msgs)
	}

	tx, err := r.conn.BeginTx(ctx)
	if err != nil {
		return err
	}
	if err := r.insert(ctx, tx, msgs); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func (r *SQLRepository) insert(ctx context.Context, exec database.Executor, msgs []*Message) error {
	query := r.q(insertMessage)
	for _, msg := range msgs {
		err := exec.QueryRow(ctx, query,
			msg.EventID.String(),
			msg.AggregateType,
			msg.AggregateID.String(),
			msg.RoutingKey,
			string(msg.Body),
			database.FormatTime(msg.CreatedAt),
		).Scan(&msg.ID)
		if err != nil {
			return fmt.Errorf("insert outbox event %s: %w", msg.EventID, err)
		}
	}
	return nil
}

const selectDue = `
	SELECT id, event_id, aggregate_type, aggregate_id, routing_key, body, created_at,
	       published_at, next_retry_at, retry_count, last_error, dead_lettered_at, dead_letter_reason
	FROM outbox_events
	WHERE published_at IS NULL
	  AND dead_lettered_at IS NULL
	  AND (next_retry_at IS NULL OR next_retry_at <= ?)
	ORDER BY id
	LIMIT ?`

func (r *SQLRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, r.q(selectDue), database.FormatTime(time.Now()), limit)
	if err != nil {
		return nil, fmt.Errorf("select due outbox events: %w", err)
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

func scanMessage(row database.Row) (*Message, error) {
	var (
		msg                                 Message
		eventID, aggregateID, body, created string
		published, nextRetry, dead          *string
	)
	err := row.Scan(&msg.ID, &eventID, &msg.AggregateType, &aggregateID, &msg.RoutingKey, &body, &created,
		&published, &nextRetry, &msg.RetryCount, &msg.LastError, &dead, &msg.DeadLetterReason)
	if err != nil {
		return nil, err
	}
	if msg.EventID, err = uuid.Parse(eventID); err != nil {
		return nil, fmt.Errorf("outbox event id: %w", err)
	}
	if msg.AggregateID, err = uuid.Parse(aggregateID); err != nil {
		return nil, fmt.Errorf("outbox aggregate id: %w", err)
	}
	msg.Body = []byte(body)
	if msg.CreatedAt, err = database.ParseTime(created); err != nil {
		return nil, err
	}
	if msg.PublishedAt, err = database.ParseTimePtr(published); err != nil {
		return nil, err
	}
	if msg.NextRetryAt, err = database.ParseTimePtr(nextRetry); err != nil {
		return nil, err
	}
	if msg.DeadLetteredAt, err = database.ParseTimePtr(dead); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *SQLRepository) MarkPublished(ctx context.Context, id int64) error {
	return r.update(ctx, `UPDATE outbox_events SET published_at = ? WHERE id = ?`,
		database.FormatTime(time.Now()), id)
}

func (r *SQLRepository) MarkFailed(ctx context.Context, id int64, reason string, nextRetryAt time.Time) error {
	return r.update(ctx, `
		UPDATE outbox_events
		SET retry_count = retry_count + 1, last_error = ?, next_retry_at = ?
		WHERE id = ?`,
		reason, database.FormatTime(nextRetryAt), id)
}

func (r *SQLRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	return r.update(ctx, `
		UPDATE outbox_events
		SET retry_count = retry_count + 1, last_error = ?, dead_lettered_at = ?, dead_letter_reason = ?
		WHERE id = ?`,
		reason, database.FormatTime(time.Now()), reason, id)
}

func (r *SQLRepository) update(ctx context.Context, query string, args ...any) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, r.q(query), args...)
	return err
}

func (r *SQLRepository) CountPending(ctx context.Context) (int64, error) {
	var n int64
	err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx,
		`SELECT COUNT(*) FROM outbox_events WHERE published_at IS NULL AND dead_lettered_at IS NULL`,
	).Scan(&n)
	return n, err
}

func (r *SQLRepository) DeleteOld(ctx context.Context, cutoff time.Time) (int64, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	res, err := exec.Exec(ctx, r.q(`DELETE FROM outbox_events WHERE published_at IS NOT NULL AND published_at < ?`),
		database.FormatTime(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
