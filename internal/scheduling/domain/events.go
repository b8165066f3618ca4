package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/workday/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "DaySchedule"

	RoutingKeyBlockStarted      = "scheduling.block.started"
	RoutingKeyBlockCompleted    = "scheduling.block.completed"
	RoutingKeyBlockSkipped      = "scheduling.block.skipped"
	RoutingKeyBlockRescheduled  = "scheduling.block.rescheduled"
	RoutingKeyCarryOverAppended = "scheduling.carryover.appended"
	RoutingKeyBlocksCarriedOver = "scheduling.blocks.carried_over"
	RoutingKeyScheduleReplaced  = "scheduling.schedule.replaced"
)

// BlockStarted is emitted when a block moves to in_progress.
type BlockStarted struct {
	sharedDomain.BaseEvent
	UserID       uuid.UUID `json:"user_id"`
	ScheduleDate string    `json:"schedule_date"`
	BlockID      uuid.UUID `json:"block_id"`
	BlockType    string    `json:"block_type"`
	Label        string    `json:"label"`
}

func NewBlockStarted(s *DaySchedule, b Block) *BlockStarted {
	return &BlockStarted{
		BaseEvent:    sharedDomain.NewBaseEvent(s.ID(), AggregateType, RoutingKeyBlockStarted),
		UserID:       s.userID,
		ScheduleDate: s.DateKey(),
		BlockID:      b.id,
		BlockType:    string(b.blockType),
		Label:        b.label,
	}
}

// BlockCompleted is emitted once per block when it is completed. XPEarned
// includes the milestone bonus.
type BlockCompleted struct {
	sharedDomain.BaseEvent
	UserID          uuid.UUID `json:"user_id"`
	ScheduleDate    string    `json:"schedule_date"`
	BlockID         uuid.UUID `json:"block_id"`
	BlockType       string    `json:"block_type"`
	Label           string    `json:"label"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	XPEarned        int       `json:"xp_earned"`
	Milestone       string    `json:"milestone,omitempty"`
	MilestoneBonus  int       `json:"milestone_bonus,omitempty"`
}

func NewBlockCompleted(s *DaySchedule, b Block, milestone *Milestone) *BlockCompleted {
	e := &BlockCompleted{
		BaseEvent:       sharedDomain.NewBaseEvent(s.ID(), AggregateType, RoutingKeyBlockCompleted),
		UserID:          s.userID,
		ScheduleDate:    s.DateKey(),
		BlockID:         b.id,
		BlockType:       string(b.blockType),
		Label:           b.label,
		StartTime:       b.startTime,
		EndTime:         b.endTime,
		DurationMinutes: b.durationMinutes,
		XPEarned:        b.xpEarned,
	}
	if milestone != nil {
		e.Milestone = milestone.Name
		e.MilestoneBonus = milestone.BonusXP
	}
	return e
}

// IsWork reports whether the completed block counted as work.
func (e *BlockCompleted) IsWork() bool {
	return BlockType(e.BlockType).IsWork()
}

// BlockSkipped is emitted when a block is skipped for the first time.
type BlockSkipped struct {
	sharedDomain.BaseEvent
	UserID       uuid.UUID `json:"user_id"`
	ScheduleDate string    `json:"schedule_date"`
	BlockID      uuid.UUID `json:"block_id"`
	BlockType    string    `json:"block_type"`
}

func NewBlockSkipped(s *DaySchedule, b Block) *BlockSkipped {
	return &BlockSkipped{
		BaseEvent:    sharedDomain.NewBaseEvent(s.ID(), AggregateType, RoutingKeyBlockSkipped),
		UserID:       s.userID,
		ScheduleDate: s.DateKey(),
		BlockID:      b.id,
		BlockType:    string(b.blockType),
	}
}

// BlockRescheduled is emitted when an edit moved blocks in time.
type BlockRescheduled struct {
	sharedDomain.BaseEvent
	UserID       uuid.UUID `json:"user_id"`
	ScheduleDate string    `json:"schedule_date"`
	BlockID      uuid.UUID `json:"block_id"`
	OldStartTime time.Time `json:"old_start_time"`
	OldEndTime   time.Time `json:"old_end_time"`
	NewStartTime time.Time `json:"new_start_time"`
	NewEndTime   time.Time `json:"new_end_time"`
	ShiftMinutes int       `json:"shift_minutes"`
}

func NewBlockRescheduled(s *DaySchedule, before, after Block, shift time.Duration) *BlockRescheduled {
	return &BlockRescheduled{
		BaseEvent:    sharedDomain.NewBaseEvent(s.ID(), AggregateType, RoutingKeyBlockRescheduled),
		UserID:       s.userID,
		ScheduleDate: s.DateKey(),
		BlockID:      after.id,
		OldStartTime: before.startTime,
		OldEndTime:   before.endTime,
		NewStartTime: after.startTime,
		NewEndTime:   after.endTime,
		ShiftMinutes: int(shift / time.Minute),
	}
}

// CarryOverAppended is emitted when yesterday's work is added to the day.
type CarryOverAppended struct {
	sharedDomain.BaseEvent
	UserID       uuid.UUID `json:"user_id"`
	ScheduleDate string    `json:"schedule_date"`
	BlockID      uuid.UUID `json:"block_id"`
	Minutes      int       `json:"minutes"`
}

func NewCarryOverAppended(s *DaySchedule, b Block) *CarryOverAppended {
	return &CarryOverAppended{
		BaseEvent:    sharedDomain.NewBaseEvent(s.ID(), AggregateType, RoutingKeyCarryOverAppended),
		UserID:       s.userID,
		ScheduleDate: s.DateKey(),
		BlockID:      b.id,
		Minutes:      b.durationMinutes,
	}
}

// BlocksCarriedOver is emitted when blocks of this day are moved to another day.
type BlocksCarriedOver struct {
	sharedDomain.BaseEvent
	UserID       uuid.UUID   `json:"user_id"`
	ScheduleDate string      `json:"schedule_date"`
	CarryToDate  string      `json:"carry_to_date"`
	BlockIDs     []uuid.UUID `json:"block_ids"`
	Minutes      int         `json:"minutes"`
}

func NewBlocksCarriedOver(s *DaySchedule, toDate string, blocks []Block) *BlocksCarriedOver {
	ids := make([]uuid.UUID, 0, len(blocks))
	for _, b := range blocks {
		ids = append(ids, b.id)
	}
	return &BlocksCarriedOver{
		BaseEvent:    sharedDomain.NewBaseEvent(s.ID(), AggregateType, RoutingKeyBlocksCarriedOver),
		UserID:       s.userID,
		ScheduleDate: s.DateKey(),
		CarryToDate:  toDate,
		BlockIDs:     ids,
		Minutes:      SumMinutes(blocks),
	}
}

// ScheduleReplaced is emitted when the whole block list is overwritten.
type ScheduleReplaced struct {
	sharedDomain.BaseEvent
	UserID       uuid.UUID `json:"user_id"`
	ScheduleDate string    `json:"schedule_date"`
	BlockCount   int       `json:"block_count"`
	WorkMinutes  int       `json:"work_minutes"`
}

func NewScheduleReplaced(s *DaySchedule) *ScheduleReplaced {
	return &ScheduleReplaced{
		BaseEvent:    sharedDomain.NewBaseEvent(s.ID(), AggregateType, RoutingKeyScheduleReplaced),
		UserID:       s.userID,
		ScheduleDate: s.DateKey(),
		BlockCount:   len(s.blocks),
		WorkMinutes:  TotalWorkMinutes(s.blocks),
	}
}
