package domain

import (
	"errors"
	"time"

	sharedDomain "github.com/felixgeelhaar/workday/internal/shared/domain"
	"github.com/google/uuid"
)

var ErrScheduleNotFound = errors.New("schedule not found")

// DefaultTargetWorkMinutes is an eight hour day.
const DefaultTargetWorkMinutes = 480

// scheduleNamespace derives stable aggregate ids from user and date.
var scheduleNamespace = uuid.MustParse("7b1f6d3e-2c4a-4f0e-9a51-3d2f8c6b9e10")

// ScheduleID is the aggregate id of a user's day.
func ScheduleID(userID uuid.UUID, date time.Time) uuid.UUID {
	return uuid.NewSHA1(scheduleNamespace, []byte(userID.String()+"/"+DateKey(date)))
}

// DaySchedule is one user's ordered, contiguous blocks for one date.
type DaySchedule struct {
	sharedDomain.BaseAggregateRoot
	userID            uuid.UUID
	date              time.Time
	blocks            []Block
	targetWorkMinutes int
}

// NewDaySchedule wraps blocks for userID on date and re-indexes them.
func NewDaySchedule(userID uuid.UUID, date time.Time, blocks []Block, targetWorkMinutes int) *DaySchedule {
	date = StartOfDay(date)
	if targetWorkMinutes <= 0 {
		targetWorkMinutes = DefaultTargetWorkMinutes
	}
	return &DaySchedule{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRootWithID(ScheduleID(userID, date)),
		userID:            userID,
		date:              date,
		blocks:            Reindex(blocks),
		targetWorkMinutes: targetWorkMinutes,
	}
}

// RehydrateDaySchedule recreates a day from storage.
func RehydrateDaySchedule(userID uuid.UUID, date time.Time, blocks []Block, createdAt, updatedAt time.Time) *DaySchedule {
	date = StartOfDay(date)
	return &DaySchedule{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(ScheduleID(userID, date), createdAt, updatedAt), 0),
		userID:            userID,
		date:              date,
		blocks:            cloneBlocks(blocks),
		targetWorkMinutes: DefaultTargetWorkMinutes,
	}
}

// Getters
func (s *DaySchedule) UserID() uuid.UUID      { return s.userID }
func (s *DaySchedule) Date() time.Time        { return s.date }
func (s *DaySchedule) DateKey() string        { return DateKey(s.date) }
func (s *DaySchedule) TargetWorkMinutes() int { return s.targetWorkMinutes }
func (s *DaySchedule) Len() int               { return len(s.blocks) }

// Blocks returns a copy of the block list.
func (s *DaySchedule) Blocks() []Block { return cloneBlocks(s.blocks) }

func (s *DaySchedule) TotalWorkMinutes() int  { return TotalWorkMinutes(s.blocks) }
func (s *DaySchedule) TotalBreakMinutes() int { return TotalBreakMinutes(s.blocks) }
func (s *DaySchedule) CompletedBlocks() int   { return CompletedBlocks(s.blocks) }
func (s *DaySchedule) CarriedMinutes() int    { return CarriedMinutes(s.blocks) }
func (s *DaySchedule) IsComplete() bool       { return IsDayComplete(s.blocks) }

func (s *DaySchedule) Stats(now time.Time) Stats { return ComputeStats(s.blocks, now) }

func (s *DaySchedule) NextBlock() (Block, bool)    { return NextBlock(s.blocks) }
func (s *DaySchedule) CurrentBlock() (Block, bool) { return CurrentBlock(s.blocks) }

func (s *DaySchedule) FindBlock(id uuid.UUID) (Block, error) { return FindBlock(s.blocks, id) }

// SetTargetWorkMinutes changes the overtime reference. Non-positive values are ignored.
func (s *DaySchedule) SetTargetWorkMinutes(minutes int) {
	if minutes > 0 {
		s.targetWorkMinutes = minutes
	}
}

// Start moves a block to in_progress.
func (s *DaySchedule) Start(id uuid.UUID) error {
	blocks, err := Start(s.blocks, id)
	if err != nil {
		return err
	}
	s.replace(blocks)
	b, _ := FindBlock(blocks, id)
	s.AddDomainEvent(NewBlockStarted(s, b))
	return nil
}

// Complete completes a block and records BlockCompleted the first time.
func (s *DaySchedule) Complete(id uuid.UUID) (CompletionResult, error) {
	blocks, result, err := Complete(s.blocks, id)
	if err != nil || result.AlreadyCompleted {
		return result, err
	}
	s.replace(blocks)
	s.AddDomainEvent(NewBlockCompleted(s, result.Block, result.Milestone))
	return result, nil
}

// Skip skips a block. Skipping a skipped block records nothing.
func (s *DaySchedule) Skip(id uuid.UUID) error {
	before, err := FindBlock(s.blocks, id)
	if err != nil {
		return err
	}
	blocks, err := Skip(s.blocks, id)
	if err != nil {
		return err
	}
	s.replace(blocks)
	if before.status != StatusSkipped {
		s.AddDomainEvent(NewBlockSkipped(s, before.WithStatus(StatusSkipped)))
	}
	return nil
}

// Update applies a lenient edit. See UpdateBlock.
func (s *DaySchedule) Update(id uuid.UUID, u BlockUpdate) UpdateOutcome {
	before, _ := FindBlock(s.blocks, id)
	blocks, outcome := UpdateBlock(s.blocks, id, u)
	if !outcome.Found {
		return outcome
	}
	s.afterUpdate(before, blocks, &outcome)
	return outcome
}

// UpdateStrict applies an edit and rejects one that would empty a block.
func (s *DaySchedule) UpdateStrict(id uuid.UUID, u BlockUpdate) (UpdateOutcome, error) {
	before, _ := FindBlock(s.blocks, id)
	blocks, outcome, err := UpdateBlockStrict(s.blocks, id, u)
	if err != nil {
		return outcome, err
	}
	s.afterUpdate(before, blocks, &outcome)
	return outcome, nil
}

func (s *DaySchedule) afterUpdate(before Block, blocks []Block, outcome *UpdateOutcome) {
	s.replace(blocks)
	outcome.Warning = OvertimeWarning(blocks, s.targetWorkMinutes)

	after, _ := FindBlock(blocks, before.id)
	if !after.startTime.Equal(before.startTime) || !after.endTime.Equal(before.endTime) {
		s.AddDomainEvent(NewBlockRescheduled(s, before, after, outcome.Shift))
	}
	if before.status != StatusCompleted && after.status == StatusCompleted {
		s.AddDomainEvent(NewBlockCompleted(s, after, nil))
	}
}

// AppendCarryOver adds a WORK block of minutes at the end of the day and
// returns it. An empty day starts the block at start.
func (s *DaySchedule) AppendCarryOver(minutes int, start TimeOfDay) (Block, bool) {
	if minutes <= 0 {
		return Block{}, false
	}
	blocks := AppendCarryOver(s.blocks, minutes, start.On(s.date))
	s.replace(blocks)
	b := blocks[len(blocks)-1]
	s.AddDomainEvent(NewCarryOverAppended(s, b))
	return b, true
}

// MarkCarriedOver moves the listed blocks to toDate and returns the
// blocks that changed.
func (s *DaySchedule) MarkCarriedOver(ids []uuid.UUID, toDate string) []Block {
	blocks, changed := MarkCarriedOver(s.blocks, ids, toDate)
	if len(changed) == 0 {
		return nil
	}
	s.replace(blocks)
	s.AddDomainEvent(NewBlocksCarriedOver(s, toDate, changed))
	return changed
}

// ReplaceBlocks overwrites the whole day. Blocks that are completed in the
// new list but were not before record BlockCompleted.
func (s *DaySchedule) ReplaceBlocks(blocks []Block) {
	previous := make(map[uuid.UUID]BlockStatus, len(s.blocks))
	for _, b := range s.blocks {
		previous[b.id] = b.status
	}

	s.replace(Reindex(blocks))
	s.AddDomainEvent(NewScheduleReplaced(s))
	for _, b := range s.blocks {
		if b.IsCompleted() && previous[b.id] != StatusCompleted {
			s.AddDomainEvent(NewBlockCompleted(s, b, nil))
		}
	}
}

func (s *DaySchedule) replace(blocks []Block) {
	s.blocks = blocks
	s.Touch()
}
