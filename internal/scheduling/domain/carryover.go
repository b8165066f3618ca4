package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// CarriedNote is appended to the notes of a block moved to another day.
func CarriedNote(toDate string) string {
	return fmt.Sprintf(" [Carried to %s]", toDate)
}

// MarkCarriedOver flags the listed blocks as carried to toDate. Unknown ids
// are ignored. It returns the new list and the blocks that changed.
func MarkCarriedOver(blocks []Block, ids []uuid.UUID, toDate string) ([]Block, []Block) {
	wanted := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	out := cloneBlocks(blocks)
	var changed []Block
	for i, b := range out {
		if _, ok := wanted[b.id]; !ok {
			continue
		}
		b.status = StatusCarriedOver
		b.notes += CarriedNote(toDate)
		out[i] = b
		changed = append(changed, b)
	}
	return out, changed
}

// SumMinutes totals the durations of blocks.
func SumMinutes(blocks []Block) int {
	total := 0
	for _, b := range blocks {
		total += b.durationMinutes
	}
	return total
}
