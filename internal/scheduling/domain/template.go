package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidTemplateDuration = errors.New("template entry duration must be positive")

// TemplateEntry seeds one block.
type TemplateEntry struct {
	Type            BlockType
	DurationMinutes int
	Label           string
}

// Template is an ordered list of entries that builds a day.
type Template struct {
	name        string
	description string
	entries     []TemplateEntry
	isDefault   bool
}

// NewTemplate validates entries and returns a template.
func NewTemplate(name, description string, entries []TemplateEntry) (*Template, error) {
	t := &Template{
		name:        name,
		description: description,
		entries:     append([]TemplateEntry(nil), entries...),
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// FallbackTemplate is the built-in day used when no template can be fetched:
// four two hour work blocks around two short breaks and lunch.
func FallbackTemplate() *Template {
	return &Template{
		name:        "Standard Workday",
		description: "4 x 2h focus blocks with short breaks and lunch",
		isDefault:   true,
		entries: []TemplateEntry{
			{Type: BlockTypeWork, DurationMinutes: 120, Label: "Morning Focus Block 1"},
			{Type: BlockTypeBreak, DurationMinutes: 15, Label: "Short Break"},
			{Type: BlockTypeWork, DurationMinutes: 120, Label: "Morning Focus Block 2"},
			{Type: BlockTypeLunch, DurationMinutes: 30, Label: "Lunch Break"},
			{Type: BlockTypeWork, DurationMinutes: 120, Label: "Afternoon Focus Block 1"},
			{Type: BlockTypeBreak, DurationMinutes: 15, Label: "Short Break"},
			{Type: BlockTypeWork, DurationMinutes: 120, Label: "Afternoon Focus Block 2"},
		},
	}
}

func (t *Template) Name() string        { return t.name }
func (t *Template) Description() string { return t.description }
func (t *Template) IsDefault() bool     { return t.isDefault }

// Entries returns a copy of the entries.
func (t *Template) Entries() []TemplateEntry {
	return append([]TemplateEntry(nil), t.entries...)
}

// MarkDefault flags the template as the user's default.
func (t *Template) MarkDefault() {
	t.isDefault = true
}

// Validate rejects unknown types and non-positive durations.
func (t *Template) Validate() error {
	for i, e := range t.entries {
		if !e.Type.IsValid() {
			return fmt.Errorf("entry %d: %w: %q", i, ErrInvalidBlockType, e.Type)
		}
		if e.DurationMinutes <= 0 {
			return fmt.Errorf("entry %d (%s): %w", i, e.Label, ErrInvalidTemplateDuration)
		}
	}
	return nil
}

func (t *Template) TotalWorkMinutes() int {
	total := 0
	for _, e := range t.entries {
		if e.Type.IsWork() {
			total += e.DurationMinutes
		}
	}
	return total
}

func (t *Template) TotalBreakMinutes() int {
	total := 0
	for _, e := range t.entries {
		if !e.Type.IsWork() {
			total += e.DurationMinutes
		}
	}
	return total
}
