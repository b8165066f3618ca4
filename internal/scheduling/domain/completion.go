package domain

import (
	"errors"

	"github.com/google/uuid"
)

var ErrBlockNotCompletable = errors.New("block has been carried over")

// Milestone is a bonus for reaching a count of completed work blocks in a day.
type Milestone struct {
	Name    string `json:"name"`
	BonusXP int    `json:"bonus_xp"`
}

var (
	MilestoneFirstBlock  = Milestone{Name: "First Block", BonusXP: 50}
	MilestoneHalfDay     = Milestone{Name: "Half Day", BonusXP: 100}
	MilestoneAlmostThere = Milestone{Name: "Almost There", BonusXP: 150}
	MilestonePerfectDay  = Milestone{Name: "Perfect Day", BonusXP: 300}
)

const (
	xpPerWorkSlot   = 25
	workSlotMinutes = 30
	xpPerFocusStep  = 10
	focusStep       = 20
	breakXP         = 10
)

// CompletionResult reports the XP granted by one completion.
type CompletionResult struct {
	Block Block
	// XPEarned includes the milestone bonus.
	XPEarned  int
	Milestone *Milestone
	// AlreadyCompleted is set when the block was completed earlier; no XP
	// is granted twice.
	AlreadyCompleted bool
}

// BaseXP is the XP for completing b before any milestone bonus. A block
// without a preset focus score is scored at MaxFocusScore.
func BaseXP(b Block) int {
	if !b.IsWork() {
		return breakXP
	}
	focus := MaxFocusScore
	if b.focusSet {
		focus = b.focusScore
	}
	return (b.durationMinutes/workSlotMinutes)*xpPerWorkSlot + (focus/focusStep)*xpPerFocusStep
}

// milestoneFor picks the first matching milestone for the count-th completed
// work block out of total.
func milestoneFor(count, total int) *Milestone {
	var m Milestone
	switch count {
	case 1:
		m = MilestoneFirstBlock
	case (total + 1) / 2:
		m = MilestoneHalfDay
	case total - 1:
		m = MilestoneAlmostThere
	case total:
		m = MilestonePerfectDay
	default:
		return nil
	}
	return &m
}

// Complete marks the block completed, sets its XP once and scores it 100.
// Milestones only apply to work blocks and count completed work blocks.
func Complete(blocks []Block, id uuid.UUID) ([]Block, CompletionResult, error) {
	i := indexOf(blocks, id)
	if i < 0 {
		return blocks, CompletionResult{}, ErrBlockNotFound
	}
	b := blocks[i]
	switch b.status {
	case StatusCompleted:
		return blocks, CompletionResult{Block: b, AlreadyCompleted: true}, nil
	case StatusCarriedOver:
		return blocks, CompletionResult{}, ErrBlockNotCompletable
	}

	xp := BaseXP(b)
	var milestone *Milestone
	if b.IsWork() {
		completed, total := 0, 0
		for _, other := range blocks {
			if !other.IsWork() {
				continue
			}
			total++
			if other.IsCompleted() {
				completed++
			}
		}
		milestone = milestoneFor(completed+1, total)
		if milestone != nil {
			xp += milestone.BonusXP
		}
	}

	out := cloneBlocks(blocks)
	out[i] = b.completed(xp)
	return out, CompletionResult{Block: out[i], XPEarned: xp, Milestone: milestone}, nil
}

// Skip marks the block skipped. Skipping twice is a no-op.
func Skip(blocks []Block, id uuid.UUID) ([]Block, error) {
	return setStatus(blocks, id, StatusSkipped)
}

// Start marks the block in progress. Other in-progress blocks are left alone.
func Start(blocks []Block, id uuid.UUID) ([]Block, error) {
	return setStatus(blocks, id, StatusInProgress)
}

func setStatus(blocks []Block, id uuid.UUID, status BlockStatus) ([]Block, error) {
	i := indexOf(blocks, id)
	if i < 0 {
		return blocks, ErrBlockNotFound
	}
	out := cloneBlocks(blocks)
	out[i] = out[i].WithStatus(status)
	return out, nil
}
