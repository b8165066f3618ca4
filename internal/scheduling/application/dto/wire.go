package dto

import (
	"time"

	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
)

// BlocksResponse answers GET /schedule/blocks.
type BlocksResponse struct {
	Blocks []BlockRecord `json:"blocks"`
	Date   string        `json:"date"`
}

// SaveBlocksRequest replaces a whole day.
type SaveBlocksRequest struct {
	Date   string        `json:"date"`
	Blocks []BlockRecord `json:"blocks"`
}

type SaveBlocksResponse struct {
	Success     bool `json:"success"`
	BlocksSaved int  `json:"blocks_saved"`
}

// PatchBlockRequest is a coalescing patch: nil fields keep their value.
type PatchBlockRequest struct {
	Status   *string    `json:"status,omitempty"`
	EndTime  *time.Time `json:"end_time,omitempty"`
	XPEarned *int       `json:"xp_earned,omitempty"`
	Notes    *string    `json:"notes,omitempty"`
}

type PatchBlockResponse struct {
	Block   BlockRecord `json:"block"`
	Warning string      `json:"warning,omitempty"`
}

// IncompleteResponse lists yesterday's unfinished work.
type IncompleteResponse struct {
	Date                   string        `json:"date"`
	IncompleteBlocks       []BlockRecord `json:"incomplete_blocks"`
	TotalIncompleteMinutes int           `json:"total_incomplete_minutes"`
	HasIncomplete          bool          `json:"has_incomplete"`
}

type CarryOverRequest struct {
	BlockIDs    []string `json:"block_ids"`
	CarryToDate string   `json:"carry_to_date"`
}

type CarryOverResponse struct {
	Success       bool   `json:"success"`
	BlocksCarried int    `json:"blocks_carried"`
	CarryToDate   string `json:"carry_to_date"`
}

// TemplateBlock is one template entry in the client's camelCase shape.
type TemplateBlock struct {
	Type     string `json:"type"`
	Duration int    `json:"duration"`
	Label    string `json:"label"`
}

type TemplateResponse struct {
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Blocks            []TemplateBlock `json:"blocks"`
	TotalWorkMinutes  int             `json:"totalWorkMinutes"`
	TotalBreakMinutes int             `json:"totalBreakMinutes"`
	IsDefault         bool            `json:"isDefault"`
}

func FromTemplate(t *domain.Template) TemplateResponse {
	entries := t.Entries()
	blocks := make([]TemplateBlock, len(entries))
	for i, e := range entries {
		blocks[i] = TemplateBlock{Type: string(e.Type), Duration: e.DurationMinutes, Label: e.Label}
	}
	return TemplateResponse{
		Name:              t.Name(),
		Description:       t.Description(),
		Blocks:            blocks,
		TotalWorkMinutes:  t.TotalWorkMinutes(),
		TotalBreakMinutes: t.TotalBreakMinutes(),
		IsDefault:         t.IsDefault(),
	}
}

// ToTemplate validates the payload.
func (r TemplateResponse) ToTemplate() (*domain.Template, error) {
	entries, err := TemplateEntries(r.Blocks)
	if err != nil {
		return nil, err
	}
	return domain.NewTemplate(r.Name, r.Description, entries)
}

func TemplateEntries(blocks []TemplateBlock) ([]domain.TemplateEntry, error) {
	entries := make([]domain.TemplateEntry, len(blocks))
	for i, b := range blocks {
		t, err := domain.ParseBlockType(b.Type)
		if err != nil {
			return nil, err
		}
		entries[i] = domain.TemplateEntry{Type: t, DurationMinutes: b.Duration, Label: b.Label}
	}
	return entries, nil
}

// ConfigResponse answers GET /config.
type ConfigResponse struct {
	XPConfig        map[string]int   `json:"xpConfig"`
	DefaultTemplate TemplateResponse `json:"defaultTemplate"`
}

// AwardXPRequest names an action. Amount is informational; the server
// decides the award.
type AwardXPRequest struct {
	Amount     int    `json:"amount,omitempty"`
	Reason     string `json:"reason,omitempty"`
	ActionType string `json:"action_type"`
}

type AwardXPResponse struct {
	Success       bool `json:"success"`
	TotalXP       int  `json:"total_xp"`
	Level         int  `json:"level"`
	XPGained      int  `json:"xp_gained"`
	LeveledUp     bool `json:"leveled_up"`
	PreviousLevel int  `json:"previous_level"`
}

type StreakRequest struct {
	Increment  bool   `json:"increment"`
	ClientDate string `json:"clientDate,omitempty"`
}

type StreakResponse struct {
	Success       bool `json:"success"`
	CurrentStreak int  `json:"current_streak"`
	LongestStreak int  `json:"longest_streak"`
}
