// Package dto holds the JSON shapes exchanged with the schedule API and
// stored in snapshots.
package dto

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/google/uuid"
)

// BlockRecord is one stored block.
type BlockRecord struct {
	ID              string    `json:"id"`
	BlockType       string    `json:"block_type"`
	OrderIndex      int       `json:"order_index"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Label           string    `json:"label"`
	Status          string    `json:"status"`
	ProjectID       *string   `json:"project_id"`
	ProjectName     *string   `json:"project_name"`
	Notes           *string   `json:"notes"`
	XPEarned        int       `json:"xp_earned"`
	FocusScore      int       `json:"focus_score"`
	CarryOver       bool      `json:"carry_over,omitempty"`
}

func FromBlock(b domain.Block) BlockRecord {
	return BlockRecord{
		ID:              b.ID().String(),
		BlockType:       string(b.Type()),
		OrderIndex:      b.OrderIndex(),
		StartTime:       b.StartTime(),
		EndTime:         b.EndTime(),
		DurationMinutes: b.DurationMinutes(),
		Label:           b.Label(),
		Status:          string(b.Status()),
		ProjectID:       optional(b.ProjectID()),
		ProjectName:     optional(b.ProjectName()),
		Notes:           optional(b.Notes()),
		XPEarned:        b.XPEarned(),
		FocusScore:      b.FocusScore(),
		CarryOver:       b.IsCarryOver(),
	}
}

func FromBlocks(blocks []domain.Block) []BlockRecord {
	out := make([]BlockRecord, len(blocks))
	for i, b := range blocks {
		out[i] = FromBlock(b)
	}
	return out
}

// ToBlock validates the record. The duration is recomputed from the span;
// a missing status means pending.
func (r BlockRecord) ToBlock() (domain.Block, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return domain.Block{}, fmt.Errorf("block id %q: %w", r.ID, err)
	}
	blockType, err := domain.ParseBlockType(r.BlockType)
	if err != nil {
		return domain.Block{}, err
	}
	status := domain.StatusPending
	if r.Status != "" {
		if status, err = domain.ParseBlockStatus(r.Status); err != nil {
			return domain.Block{}, err
		}
	}
	if !r.EndTime.After(r.StartTime) {
		return domain.Block{}, fmt.Errorf("block %s: %w", id, domain.ErrNonPositiveDuration)
	}
	return domain.RehydrateBlock(
		id,
		blockType,
		r.OrderIndex,
		r.StartTime,
		r.EndTime,
		r.Label,
		status,
		deref(r.ProjectID),
		deref(r.ProjectName),
		deref(r.Notes),
		r.XPEarned,
		r.FocusScore,
		r.CarryOver,
	), nil
}

func ToBlocks(records []BlockRecord) ([]domain.Block, error) {
	out := make([]domain.Block, 0, len(records))
	for _, r := range records {
		b, err := r.ToBlock()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func optional(s string) *string {
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
