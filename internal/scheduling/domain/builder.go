package domain

import (
	"fmt"
	"time"
)

// CarryOverWorkLabel labels the carry-over block added at build time.
func CarryOverWorkLabel(minutes int) string {
	return fmt.Sprintf("Carry-over Work (+%dm from yesterday)", minutes)
}

// CarryOverLabel labels a carry-over block appended to an existing day.
func CarryOverLabel(minutes int) string {
	return fmt.Sprintf("Carry-over (+%dm from yesterday)", minutes)
}

// Build lays entries out back to back from start on date. When carryMinutes
// is positive a WORK block of that length is appended. Entries must have
// passed Template.Validate.
func Build(date time.Time, start string, entries []TemplateEntry, carryMinutes int) ([]Block, error) {
	tod, err := ParseTimeOfDay(start)
	if err != nil {
		return nil, err
	}

	cursor := tod.On(date)
	blocks := make([]Block, 0, len(entries)+1)
	for i, e := range entries {
		b := NewBlock(e.Type, i, cursor, e.DurationMinutes, e.Label)
		blocks = append(blocks, b)
		cursor = b.EndTime()
	}

	if carryMinutes > 0 {
		blocks = append(blocks, NewCarryOverBlock(len(blocks), cursor, carryMinutes, CarryOverWorkLabel(carryMinutes)))
	}
	return blocks, nil
}

// AppendCarryOver returns blocks plus a pending WORK block of the given
// length starting where the last block ends. An empty day starts the block
// at fallbackStart.
func AppendCarryOver(blocks []Block, carryMinutes int, fallbackStart time.Time) []Block {
	out := cloneBlocks(blocks)
	if carryMinutes <= 0 {
		return out
	}
	start := fallbackStart
	if len(out) > 0 {
		start = out[len(out)-1].EndTime()
	}
	return append(out, NewCarryOverBlock(len(out), start, carryMinutes, CarryOverLabel(carryMinutes)))
}

// Reindex makes every orderIndex equal its position.
func Reindex(blocks []Block) []Block {
	out := cloneBlocks(blocks)
	for i := range out {
		out[i] = out[i].withOrderIndex(i)
	}
	return out
}
