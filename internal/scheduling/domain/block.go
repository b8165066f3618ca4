package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrBlockNotFound       = errors.New("block not found")
	ErrNonPositiveDuration = errors.New("block duration must be positive")
	ErrInvalidBlockType    = errors.New("invalid block type")
	ErrInvalidBlockStatus  = errors.New("invalid block status")
)

// BlockType classifies a block. WORK and FLEX count toward work minutes.
type BlockType string

const (
	BlockTypeWork  BlockType = "WORK"
	BlockTypeBreak BlockType = "BREAK"
	BlockTypeLunch BlockType = "LUNCH"
	BlockTypeFlex  BlockType = "FLEX"
)

// IsWork reports whether the block's minutes count as work.
func (t BlockType) IsWork() bool {
	return t == BlockTypeWork || t == BlockTypeFlex
}

func (t BlockType) IsValid() bool {
	switch t {
	case BlockTypeWork, BlockTypeBreak, BlockTypeLunch, BlockTypeFlex:
		return true
	}
	return false
}

func ParseBlockType(s string) (BlockType, error) {
	t := BlockType(s)
	if !t.IsValid() {
		return "", ErrInvalidBlockType
	}
	return t, nil
}

// BlockStatus tracks progress through a block.
type BlockStatus string

const (
	StatusPending     BlockStatus = "pending"
	StatusInProgress  BlockStatus = "in_progress"
	StatusCompleted   BlockStatus = "completed"
	StatusSkipped     BlockStatus = "skipped"
	StatusPartial     BlockStatus = "partial"
	StatusExtended    BlockStatus = "extended"
	StatusCarriedOver BlockStatus = "carried_over"
)

func (s BlockStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusSkipped,
		StatusPartial, StatusExtended, StatusCarriedOver:
		return true
	}
	return false
}

// IsIncomplete reports whether a work block in this status can be carried over.
func (s BlockStatus) IsIncomplete() bool {
	return s == StatusPending || s == StatusSkipped || s == StatusPartial
}

func ParseBlockStatus(s string) (BlockStatus, error) {
	status := BlockStatus(s)
	if !status.IsValid() {
		return "", ErrInvalidBlockStatus
	}
	return status, nil
}

// MaxFocusScore is the score given to a completed block.
const MaxFocusScore = 100

// Block is one typed, time-bounded slot in a day. Blocks are values: every
// mutator returns a modified copy.
type Block struct {
	id              uuid.UUID
	blockType       BlockType
	orderIndex      int
	startTime       time.Time
	endTime         time.Time
	durationMinutes int
	label           string
	status          BlockStatus
	projectID       string
	projectName     string
	notes           string
	xpEarned        int
	focusScore      int
	focusSet        bool
	carryOver       bool
}

// NewBlock creates a pending block of the given length starting at start.
func NewBlock(blockType BlockType, orderIndex int, start time.Time, durationMinutes int, label string) Block {
	return Block{
		id:              uuid.New(),
		blockType:       blockType,
		orderIndex:      orderIndex,
		startTime:       start,
		endTime:         start.Add(minutes(durationMinutes)),
		durationMinutes: durationMinutes,
		label:           label,
		status:          StatusPending,
	}
}

// NewCarryOverBlock creates a pending WORK block holding minutes brought
// forward from an earlier day.
func NewCarryOverBlock(orderIndex int, start time.Time, durationMinutes int, label string) Block {
	b := NewBlock(BlockTypeWork, orderIndex, start, durationMinutes, label)
	b.carryOver = true
	return b
}

// RehydrateBlock recreates a block from persisted state. The duration is
// derived from the times. A stored focus score above zero counts as set.
func RehydrateBlock(
	id uuid.UUID,
	blockType BlockType,
	orderIndex int,
	startTime, endTime time.Time,
	label string,
	status BlockStatus,
	projectID, projectName, notes string,
	xpEarned, focusScore int,
	carryOver bool,
) Block {
	return Block{
		id:              id,
		blockType:       blockType,
		orderIndex:      orderIndex,
		startTime:       startTime,
		endTime:         endTime,
		durationMinutes: minutesBetween(startTime, endTime),
		label:           label,
		status:          status,
		projectID:       projectID,
		projectName:     projectName,
		notes:           notes,
		xpEarned:        xpEarned,
		focusScore:      focusScore,
		focusSet:        focusScore > 0,
		carryOver:       carryOver,
	}
}

// Getters
func (b Block) ID() uuid.UUID           { return b.id }
func (b Block) Type() BlockType         { return b.blockType }
func (b Block) OrderIndex() int         { return b.orderIndex }
func (b Block) StartTime() time.Time    { return b.startTime }
func (b Block) EndTime() time.Time      { return b.endTime }
func (b Block) DurationMinutes() int    { return b.durationMinutes }
func (b Block) Label() string           { return b.label }
func (b Block) Status() BlockStatus     { return b.status }
func (b Block) ProjectID() string       { return b.projectID }
func (b Block) ProjectName() string     { return b.projectName }
func (b Block) Notes() string           { return b.notes }
func (b Block) XPEarned() int           { return b.xpEarned }
func (b Block) FocusScore() int         { return b.focusScore }
func (b Block) IsWork() bool            { return b.blockType.IsWork() }
func (b Block) IsCompleted() bool       { return b.status == StatusCompleted }
func (b Block) IsCarryOver() bool       { return b.carryOver }
func (b Block) Duration() time.Duration { return b.endTime.Sub(b.startTime) }

// Contains reports whether t falls inside the block.
func (b Block) Contains(t time.Time) bool {
	return !t.Before(b.startTime) && t.Before(b.endTime)
}

// WithStatus returns a copy with the given status.
func (b Block) WithStatus(status BlockStatus) Block {
	b.status = status
	return b
}

// WithFocusScore returns a copy with the score clamped to 0..100.
func (b Block) WithFocusScore(score int) Block {
	b.focusScore = max(0, min(MaxFocusScore, score))
	b.focusSet = true
	return b
}

// WithNotes returns a copy with replaced notes.
func (b Block) WithNotes(notes string) Block {
	b.notes = notes
	return b
}

// WithXPEarned returns a copy with xpEarned overwritten. Only the API patch
// path uses it; completion sets XP itself.
func (b Block) WithXPEarned(xp int) Block {
	b.xpEarned = xp
	return b
}

func (b Block) withOrderIndex(i int) Block {
	b.orderIndex = i
	return b
}

// shifted moves both ends by delta, keeping the duration.
func (b Block) shifted(delta time.Duration) Block {
	b.startTime = b.startTime.Add(delta)
	b.endTime = b.endTime.Add(delta)
	return b
}

func (b Block) withSpan(start, end time.Time) Block {
	b.startTime = start
	b.endTime = end
	b.durationMinutes = minutesBetween(start, end)
	return b
}

func (b Block) completed(xp int) Block {
	b.status = StatusCompleted
	b.xpEarned = xp
	b.focusScore = MaxFocusScore
	b.focusSet = true
	return b
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}

func minutesBetween(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}

// cloneBlocks copies the slice so callers can edit without aliasing.
func cloneBlocks(blocks []Block) []Block {
	return append([]Block(nil), blocks...)
}

func indexOf(blocks []Block, id uuid.UUID) int {
	for i, b := range blocks {
		if b.id == id {
			return i
		}
	}
	return -1
}

// FindBlock returns the block with the given id.
func FindBlock(blocks []Block, id uuid.UUID) (Block, error) {
	if i := indexOf(blocks, id); i >= 0 {
		return blocks[i], nil
	}
	return Block{}, ErrBlockNotFound
}
