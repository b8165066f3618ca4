package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// TemplateRepository implements domain.TemplateRepository on block_templates.
type TemplateRepository struct {
	conn database.Connection
	now  func() time.Time
}

func NewTemplateRepository(conn database.Connection) *TemplateRepository {
	return &TemplateRepository{conn: conn, now: time.Now}
}

func (r *TemplateRepository) q(query string) string {
	return database.Rebind(r.conn.Driver(), query)
}

type entryRow struct {
	Type     string `json:"type"`
	Duration int    `json:"duration"`
	Label    string `json:"label"`
}

const upsertTemplate = `
	INSERT INTO block_templates (user_id, name, description, entries, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (user_id) DO UPDATE SET
		name = excluded.name,
		description = excluded.description,
		entries = excluded.entries,
		updated_at = excluded.updated_at`

func (r *TemplateRepository) SaveDefault(ctx context.Context, userID uuid.UUID, template *domain.Template) error {
	entries := template.Entries()
	rows := make([]entryRow, len(entries))
	for i, e := range entries {
		rows[i] = entryRow{Type: string(e.Type), Duration: e.DurationMinutes, Label: e.Label}
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode template entries: %w", err)
	}

	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err = exec.Exec(ctx, r.q(upsertTemplate),
		userID.String(),
		template.Name(),
		template.Description(),
		string(raw),
		database.FormatTime(r.now()),
	)
	if err != nil {
		return fmt.Errorf("upsert template for %s: %w", userID, err)
	}
	return nil
}

const selectTemplate = `
	SELECT name, description, entries
	FROM block_templates
	WHERE user_id = ?`

// FindDefault returns nil when the user has not saved a template.
func (r *TemplateRepository) FindDefault(ctx context.Context, userID uuid.UUID) (*domain.Template, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)

	var name, description, raw string
	err := exec.QueryRow(ctx, r.q(selectTemplate), userID.String()).Scan(&name, &description, &raw)
	if database.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select template for %s: %w", userID, err)
	}

	var rows []entryRow
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, fmt.Errorf("decode template entries: %w", err)
	}
	entries := make([]domain.TemplateEntry, len(rows))
	for i, row := range rows {
		entries[i] = domain.TemplateEntry{Type: domain.BlockType(row.Type), DurationMinutes: row.Duration, Label: row.Label}
	}
	return domain.RehydrateTemplate(name, description, entries, true), nil
}
