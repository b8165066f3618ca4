package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// ScheduleRepository implements domain.ScheduleRepository on schedule_blocks.
// A day is the set of rows sharing user_id and schedule_date.
type ScheduleRepository struct {
	conn database.Connection
}

func NewScheduleRepository(conn database.Connection) *ScheduleRepository {
	return &ScheduleRepository{conn: conn}
}

func (r *ScheduleRepository) q(query string) string {
	return database.Rebind(r.conn.Driver(), query)
}

const deleteDay = `
	DELETE FROM schedule_blocks
	WHERE user_id = ? AND schedule_date = ?`

const insertBlock = `
	INSERT INTO schedule_blocks (
		id, user_id, schedule_date, block_type, order_index, start_time, end_time,
		duration_minutes, label, status, project_id, project_name, notes,
		xp_earned, focus_score, carry_over, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Save replaces every stored block of the day.
func (r *ScheduleRepository) Save(ctx context.Context, schedule *domain.DaySchedule) error {
	if tx := database.TxFromContext(ctx); tx != nil {
		return r.save(ctx, tx, schedule)
	}

	tx, err := r.conn.BeginTx(ctx)
	if err != nil {
		return err
	}
	if err := r.save(ctx, tx, schedule); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func (r *ScheduleRepository) save(ctx context.Context, exec database.Executor, schedule *domain.DaySchedule) error {
	userID := schedule.UserID().String()
	date := schedule.DateKey()

	if _, err := exec.Exec(ctx, r.q(deleteDay), userID, date); err != nil {
		return fmt.Errorf("clear %s: %w", date, err)
	}

	created := database.FormatTime(schedule.CreatedAt())
	updated := database.FormatTime(schedule.UpdatedAt())
	for _, b := range schedule.Blocks() {
		_, err := exec.Exec(ctx, r.q(insertBlock),
			b.ID().String(),
			userID,
			date,
			string(b.Type()),
			b.OrderIndex(),
			database.FormatTime(b.StartTime()),
			database.FormatTime(b.EndTime()),
			b.DurationMinutes(),
			b.Label(),
			string(b.Status()),
			nullable(b.ProjectID()),
			nullable(b.ProjectName()),
			nullable(b.Notes()),
			b.XPEarned(),
			b.FocusScore(),
			flag(b.IsCarryOver()),
			created,
			updated,
		)
		if err != nil {
			return fmt.Errorf("insert block %s: %w", b.ID(), err)
		}
	}
	return nil
}

const selectDay = `
	SELECT id, block_type, order_index, start_time, end_time, label, status,
	       project_id, project_name, notes, xp_earned, focus_score, carry_over, created_at, updated_at
	FROM schedule_blocks
	WHERE user_id = ? AND schedule_date = ?
	ORDER BY order_index`

// FindByUserAndDate returns nil when no block is stored for the date. Block
// times come back in date's location.
func (r *ScheduleRepository) FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.DaySchedule, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	key := domain.DateKey(date)

	rows, err := exec.Query(ctx, r.q(selectDay), userID.String(), key)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	defer rows.Close()

	var (
		blocks           []domain.Block
		created, updated time.Time
	)
	for rows.Next() {
		b, c, u, err := scanBlock(rows, date.Location())
		if err != nil {
			return nil, err
		}
		if created.IsZero() || c.Before(created) {
			created = c
		}
		if u.After(updated) {
			updated = u
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, nil
	}
	return domain.RehydrateDaySchedule(userID, date, blocks, created, updated), nil
}

const selectBlockDay = `
	SELECT schedule_date
	FROM schedule_blocks
	WHERE user_id = ? AND id = ?`

// FindByBlockID returns the day holding the block, or nil. Blocks of other
// users are not found.
func (r *ScheduleRepository) FindByBlockID(ctx context.Context, userID, blockID uuid.UUID) (*domain.DaySchedule, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)

	var key string
	err := exec.QueryRow(ctx, r.q(selectBlockDay), userID.String(), blockID.String()).Scan(&key)
	if database.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select block %s: %w", blockID, err)
	}

	date, err := domain.ParseDate(key, time.UTC)
	if err != nil {
		return nil, err
	}
	return r.FindByUserAndDate(ctx, userID, date)
}

func scanBlock(rows database.Rows, loc *time.Location) (domain.Block, time.Time, time.Time, error) {
	var (
		id, blockType, start, end, label, status string
		projectID, projectName, notes            *string
		orderIndex, xpEarned, focusScore, carry  int
		created, updated                         string
	)
	err := rows.Scan(&id, &blockType, &orderIndex, &start, &end, &label, &status,
		&projectID, &projectName, &notes, &xpEarned, &focusScore, &carry, &created, &updated)
	if err != nil {
		return domain.Block{}, time.Time{}, time.Time{}, err
	}

	blockID, err := uuid.Parse(id)
	if err != nil {
		return domain.Block{}, time.Time{}, time.Time{}, fmt.Errorf("block id: %w", err)
	}
	startTime, err := database.ParseTime(start)
	if err != nil {
		return domain.Block{}, time.Time{}, time.Time{}, err
	}
	endTime, err := database.ParseTime(end)
	if err != nil {
		return domain.Block{}, time.Time{}, time.Time{}, err
	}
	createdAt, err := database.ParseTime(created)
	if err != nil {
		return domain.Block{}, time.Time{}, time.Time{}, err
	}
	updatedAt, err := database.ParseTime(updated)
	if err != nil {
		return domain.Block{}, time.Time{}, time.Time{}, err
	}

	b := domain.RehydrateBlock(
		blockID,
		domain.BlockType(blockType),
		orderIndex,
		startTime.In(loc),
		endTime.In(loc),
		label,
		domain.BlockStatus(status),
		deref(projectID),
		deref(projectName),
		deref(notes),
		xpEarned,
		focusScore,
		carry != 0,
	)
	return b, createdAt, updatedAt, nil
}

// flag stores a bool as 0/1 so both drivers share the INTEGER column.
func flag(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
