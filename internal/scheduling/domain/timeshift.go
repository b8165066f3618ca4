package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OvertimeAllowanceMinutes is how far total work may exceed the target
// before an edit produces a warning.
const OvertimeAllowanceMinutes = 60

// BlockUpdate is a partial edit. Nil fields are left alone. At most one
// time field is honoured, in the order EndTime, StartTime, DurationMinutes.
type BlockUpdate struct {
	StartTime       *time.Time
	EndTime         *time.Time
	DurationMinutes *int
	Label           *string
	Status          *BlockStatus
	ProjectID       *string
	ProjectName     *string
	Notes           *string
	FocusScore      *int
	XPEarned        *int
}

func (u BlockUpdate) changesTime() bool {
	return u.StartTime != nil || u.EndTime != nil || u.DurationMinutes != nil
}

// UpdateOutcome describes what an edit did.
type UpdateOutcome struct {
	Found bool
	// TimeIgnored is set when the time edit would have left a block with no
	// duration and was dropped.
	TimeIgnored bool
	// Shift is how far every later block moved.
	Shift   time.Duration
	Warning string
}

// UpdateBlock applies u to the block with id and shifts the blocks after it
// so the day stays contiguous. A time edit that would produce a
// non-positive duration is dropped while the other fields still apply. An
// unknown id returns blocks unchanged with Found false.
func UpdateBlock(blocks []Block, id uuid.UUID, u BlockUpdate) ([]Block, UpdateOutcome) {
	out, outcome, err := applyUpdate(blocks, id, u, false)
	if err != nil {
		return blocks, outcome
	}
	return out, outcome
}

// UpdateBlockStrict is UpdateBlock but rejects a time edit that would
// produce a non-positive duration with ErrNonPositiveDuration, and an
// unknown id with ErrBlockNotFound.
func UpdateBlockStrict(blocks []Block, id uuid.UUID, u BlockUpdate) ([]Block, UpdateOutcome, error) {
	out, outcome, err := applyUpdate(blocks, id, u, true)
	if err != nil {
		return blocks, outcome, err
	}
	return out, outcome, nil
}

func applyUpdate(blocks []Block, id uuid.UUID, u BlockUpdate, strict bool) ([]Block, UpdateOutcome, error) {
	i := indexOf(blocks, id)
	if i < 0 {
		return nil, UpdateOutcome{}, ErrBlockNotFound
	}

	out := cloneBlocks(blocks)
	outcome := UpdateOutcome{Found: true}

	if u.changesTime() {
		shift, ok := retime(out, i, u)
		if !ok {
			if strict {
				return nil, outcome, fmt.Errorf("block %s: %w", id, ErrNonPositiveDuration)
			}
			outcome.TimeIgnored = true
		}
		outcome.Shift = shift
	}

	b := out[i]
	if u.Label != nil {
		b.label = *u.Label
	}
	if u.Status != nil {
		b.status = *u.Status
	}
	if u.ProjectID != nil {
		b.projectID = *u.ProjectID
	}
	if u.ProjectName != nil {
		b.projectName = *u.ProjectName
	}
	if u.Notes != nil {
		b.notes = *u.Notes
	}
	if u.FocusScore != nil {
		b = b.WithFocusScore(*u.FocusScore)
	}
	if u.XPEarned != nil {
		b = b.WithXPEarned(*u.XPEarned)
	}
	out[i] = b
	return out, outcome, nil
}

// retime edits the span of out[i] in place and shifts the tail. It reports
// false, leaving out untouched, when the edit would empty a block.
func retime(out []Block, i int, u BlockUpdate) (time.Duration, bool) {
	cur := out[i]

	switch {
	case u.EndTime != nil:
		end := u.EndTime.Truncate(time.Minute)
		if !end.After(cur.startTime) {
			return 0, false
		}
		delta := end.Sub(cur.endTime)
		out[i] = cur.withSpan(cur.startTime, end)
		shiftTail(out, i, delta)
		return delta, true

	case u.StartTime != nil:
		start := u.StartTime.Truncate(time.Minute)
		if !cur.endTime.After(start) {
			return 0, false
		}
		// The boundary with the previous block moves with the start.
		if i > 0 {
			prev := out[i-1]
			if !start.After(prev.startTime) {
				return 0, false
			}
			out[i-1] = prev.withSpan(prev.startTime, start)
		}
		out[i] = cur.withSpan(start, cur.endTime)
		return 0, true

	default:
		d := *u.DurationMinutes
		if d <= 0 {
			return 0, false
		}
		end := cur.startTime.Add(minutes(d))
		delta := end.Sub(cur.endTime)
		out[i] = cur.withSpan(cur.startTime, end)
		shiftTail(out, i, delta)
		return delta, true
	}
}

func shiftTail(out []Block, i int, delta time.Duration) {
	if delta == 0 {
		return
	}
	for j := i + 1; j < len(out); j++ {
		out[j] = out[j].shifted(delta)
	}
}

// OvertimeWarning describes total work above target plus the allowance,
// or returns "".
func OvertimeWarning(blocks []Block, targetWorkMinutes int) string {
	total := TotalWorkMinutes(blocks)
	if total > targetWorkMinutes+OvertimeAllowanceMinutes {
		return fmt.Sprintf("total work time (%dm) exceeds target (%dm)", total, targetWorkMinutes)
	}
	return ""
}
