package domain

import "time"

// OnTrackTolerancePercent is how far progress may lag the clock and still count as on track.
const OnTrackTolerancePercent = 10.0

// Stats summarises progress through a day.
type Stats struct {
	TotalWorkMinutes     int       `json:"total_work_minutes"`
	CompletedWorkMinutes int       `json:"completed_work_minutes"`
	RemainingWorkMinutes int       `json:"remaining_work_minutes"`
	CompletedBlocks      int       `json:"completed_blocks"`
	TotalBlocks          int       `json:"total_blocks"`
	ProgressPercent      float64   `json:"progress_percent"`
	ExpectedPercent      float64   `json:"expected_percent"`
	IsOnTrack            bool      `json:"is_on_track"`
	EstimatedEndTime     time.Time `json:"estimated_end_time"`
}

// TotalWorkMinutes sums WORK and FLEX blocks.
func TotalWorkMinutes(blocks []Block) int {
	total := 0
	for _, b := range blocks {
		if b.IsWork() {
			total += b.durationMinutes
		}
	}
	return total
}

// TotalBreakMinutes sums BREAK and LUNCH blocks.
func TotalBreakMinutes(blocks []Block) int {
	total := 0
	for _, b := range blocks {
		if !b.IsWork() {
			total += b.durationMinutes
		}
	}
	return total
}

// CompletedBlocks counts completed blocks of any type.
func CompletedBlocks(blocks []Block) int {
	n := 0
	for _, b := range blocks {
		if b.IsCompleted() {
			n++
		}
	}
	return n
}

// IsDayComplete holds when the day has blocks and every WORK block is completed.
func IsDayComplete(blocks []Block) bool {
	if len(blocks) == 0 {
		return false
	}
	for _, b := range blocks {
		if b.blockType == BlockTypeWork && !b.IsCompleted() {
			return false
		}
	}
	return true
}

// CarriedMinutes sums blocks that were added from an earlier day.
func CarriedMinutes(blocks []Block) int {
	total := 0
	for _, b := range blocks {
		if b.IsCarryOver() {
			total += b.durationMinutes
		}
	}
	return total
}

// ComputeStats evaluates progress at now. Expected progress is the elapsed
// share of the day's span.
func ComputeStats(blocks []Block, now time.Time) Stats {
	var s Stats
	if len(blocks) == 0 {
		return s
	}

	for _, b := range blocks {
		if b.IsCompleted() {
			s.CompletedBlocks++
		}
		if !b.IsWork() {
			continue
		}
		s.TotalBlocks++
		s.TotalWorkMinutes += b.durationMinutes
		switch b.status {
		case StatusCompleted:
			s.CompletedWorkMinutes += b.durationMinutes
		case StatusPending:
			s.RemainingWorkMinutes += b.durationMinutes
		}
	}
	if s.TotalWorkMinutes > 0 {
		s.ProgressPercent = float64(s.CompletedWorkMinutes) / float64(s.TotalWorkMinutes) * 100
	}

	first, last := blocks[0], blocks[len(blocks)-1]
	span := last.endTime.Sub(first.startTime)
	if span > 0 {
		elapsed := now.Sub(first.startTime)
		s.ExpectedPercent = max(0, min(100, float64(elapsed)/float64(span)*100))
	}
	s.IsOnTrack = s.ProgressPercent >= s.ExpectedPercent-OnTrackTolerancePercent
	s.EstimatedEndTime = last.endTime
	return s
}

// NextBlock returns the first pending block.
func NextBlock(blocks []Block) (Block, bool) {
	return firstWithStatus(blocks, StatusPending)
}

// CurrentBlock returns the first in-progress block.
func CurrentBlock(blocks []Block) (Block, bool) {
	return firstWithStatus(blocks, StatusInProgress)
}

func firstWithStatus(blocks []Block, status BlockStatus) (Block, bool) {
	for _, b := range blocks {
		if b.status == status {
			return b, true
		}
	}
	return Block{}, false
}

// IncompleteWork returns work blocks that can be carried to another day.
func IncompleteWork(blocks []Block) []Block {
	var out []Block
	for _, b := range blocks {
		if b.IsWork() && b.status.IsIncomplete() {
			out = append(out, b)
		}
	}
	return out
}
