package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ScheduleRepository persists days. Save replaces every stored block of the day.
type ScheduleRepository interface {
	Save(ctx context.Context, schedule *DaySchedule) error

	// FindByUserAndDate returns nil when no block is stored for the date.
	FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*DaySchedule, error)

	// FindByBlockID returns the day that holds the block, or nil.
	FindByBlockID(ctx context.Context, userID, blockID uuid.UUID) (*DaySchedule, error)
}

// TemplateRepository stores one default template per user.
type TemplateRepository interface {
	// FindDefault returns nil when the user has not saved a template.
	FindDefault(ctx context.Context, userID uuid.UUID) (*Template, error)
	SaveDefault(ctx context.Context, userID uuid.UUID, template *Template) error
}

// RehydrateTemplate recreates a stored template.
func RehydrateTemplate(name, description string, entries []TemplateEntry, isDefault bool) *Template {
	return &Template{
		name:        name,
		description: description,
		entries:     append([]TemplateEntry(nil), entries...),
		isDefault:   isDefault,
	}
}
