package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/workday/internal/gamification/domain"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// ProfileRepository implements domain.ProfileRepository on the
// user_gamification, user_achievements and xp_transactions tables.
type ProfileRepository struct {
	conn database.Connection
}

func NewProfileRepository(conn database.Connection) *ProfileRepository {
	return &ProfileRepository{conn: conn}
}

func (r *ProfileRepository) q(query string) string {
	return database.Rebind(r.conn.Driver(), query)
}

const upsertProfile = `
	INSERT INTO user_gamification (
		user_id, total_xp, level, current_streak, longest_streak, last_activity_date,
		total_work_minutes, total_sessions, focus_sessions, version, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (user_id) DO UPDATE SET
		total_xp = excluded.total_xp,
		level = excluded.level,
		current_streak = excluded.current_streak,
		longest_streak = excluded.longest_streak,
		last_activity_date = excluded.last_activity_date,
		total_work_minutes = excluded.total_work_minutes,
		total_sessions = excluded.total_sessions,
		focus_sessions = excluded.focus_sessions,
		version = excluded.version,
		updated_at = excluded.updated_at`

const insertAchievement = `
	INSERT INTO user_achievements (user_id, achievement_id, unlocked_at)
	VALUES (?, ?, ?)
	ON CONFLICT (user_id, achievement_id) DO NOTHING`

const insertTransaction = `
	INSERT INTO xp_transactions (id, user_id, amount, reason, action_type, created_at)
	VALUES (?, ?, ?, ?, ?, ?)`

// Save writes the profile row, every unlocked achievement and the pending
// XP transactions in one transaction.
func (r *ProfileRepository) Save(ctx context.Context, p *domain.Profile) error {
	if tx := database.TxFromContext(ctx); tx != nil {
		if err := r.save(ctx, tx, p); err != nil {
			return err
		}
	} else {
		tx, err := r.conn.BeginTx(ctx)
		if err != nil {
			return err
		}
		if err := r.save(ctx, tx, p); err != nil {
			_ = tx.Rollback(ctx)
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return err
		}
	}
	p.ClearPendingTransactions()
	p.IncrementVersion()
	return nil
}

func (r *ProfileRepository) save(ctx context.Context, exec database.Executor, p *domain.Profile) error {
	userID := p.UserID().String()

	var lastActivity *string
	if d := p.LastActivityDate(); d != "" {
		lastActivity = &d
	}
	_, err := exec.Exec(ctx, r.q(upsertProfile),
		userID,
		p.TotalXP(),
		p.Level(),
		p.CurrentStreak(),
		p.LongestStreak(),
		lastActivity,
		p.TotalWorkMinutes(),
		p.TotalSessions(),
		p.FocusSessions(),
		p.Version()+1,
		database.FormatTime(p.CreatedAt()),
		database.FormatTime(p.UpdatedAt()),
	)
	if err != nil {
		return fmt.Errorf("upsert profile %s: %w", userID, err)
	}

	for id, at := range p.UnlockedAchievements() {
		if _, err := exec.Exec(ctx, r.q(insertAchievement), userID, id, database.FormatTime(at)); err != nil {
			return fmt.Errorf("insert achievement %s: %w", id, err)
		}
	}

	for _, tx := range p.PendingTransactions() {
		_, err := exec.Exec(ctx, r.q(insertTransaction),
			tx.ID.String(),
			userID,
			tx.Amount,
			tx.Reason,
			string(tx.ActionType),
			database.FormatTime(tx.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("insert xp transaction %s: %w", tx.ID, err)
		}
	}
	return nil
}

const selectProfile = `
	SELECT total_xp, current_streak, longest_streak, last_activity_date,
	       total_work_minutes, total_sessions, focus_sessions, version, created_at, updated_at
	FROM user_gamification
	WHERE user_id = ?`

const selectAchievements = `
	SELECT achievement_id, unlocked_at
	FROM user_achievements
	WHERE user_id = ?`

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)

	state := domain.ProfileState{UserID: userID}
	var (
		lastActivity     *string
		created, updated string
	)
	err := exec.QueryRow(ctx, r.q(selectProfile), userID.String()).Scan(
		&state.TotalXP,
		&state.CurrentStreak,
		&state.LongestStreak,
		&lastActivity,
		&state.TotalWorkMinutes,
		&state.TotalSessions,
		&state.FocusSessions,
		&state.Version,
		&created,
		&updated,
	)
	if database.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select profile %s: %w", userID, err)
	}
	if lastActivity != nil {
		state.LastActivityDate = *lastActivity
	}
	if state.CreatedAt, err = database.ParseTime(created); err != nil {
		return nil, err
	}
	if state.UpdatedAt, err = database.ParseTime(updated); err != nil {
		return nil, err
	}

	rows, err := exec.Query(ctx, r.q(selectAchievements), userID.String())
	if err != nil {
		return nil, fmt.Errorf("select achievements %s: %w", userID, err)
	}
	defer rows.Close()

	state.Unlocked = make(map[string]time.Time)
	for rows.Next() {
		var id, at string
		if err := rows.Scan(&id, &at); err != nil {
			return nil, err
		}
		unlockedAt, err := database.ParseTime(at)
		if err != nil {
			return nil, err
		}
		state.Unlocked[id] = unlockedAt
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return domain.RehydrateProfile(state), nil
}

// XPTransactionRecord is one row of the XP history.
type XPTransactionRecord struct {
	ID         uuid.UUID
	Amount     int
	Reason     string
	ActionType string
	CreatedAt  time.Time
}

const selectTransactions = `
	SELECT id, amount, reason, action_type, created_at
	FROM xp_transactions
	WHERE user_id = ?
	ORDER BY created_at DESC
	LIMIT ?`

// RecentTransactions returns the newest XP rows first.
func (r *ProfileRepository) RecentTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]XPTransactionRecord, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, r.q(selectTransactions), userID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("select xp transactions %s: %w", userID, err)
	}
	defer rows.Close()

	var out []XPTransactionRecord
	for rows.Next() {
		var (
			rec         XPTransactionRecord
			id, created string
		)
		if err := rows.Scan(&id, &rec.Amount, &rec.Reason, &rec.ActionType, &created); err != nil {
			return nil, err
		}
		if rec.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("xp transaction id: %w", err)
		}
		if rec.CreatedAt, err = database.ParseTime(created); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
