package services

import (
	"sync"

	"github.com/felixgeelhaar/workday/internal/gamification/domain"
	"github.com/google/uuid"
)

// PendingXP is an optimistic award that the server has not confirmed.
type PendingXP struct {
	ID     uuid.UUID `json:"id"`
	Amount int       `json:"amount"`
	Reason string    `json:"reason"`
}

// LedgerState is what a client displays.
type LedgerState struct {
	TotalXP   int         `json:"total_xp"`
	Level     int         `json:"level"`
	Confirmed int         `json:"confirmed_xp"`
	Pending   []PendingXP `json:"pending"`
}

// XPLedger tracks optimistic XP. The displayed total is the last server
// total plus every pending award.
type XPLedger struct {
	mu        sync.Mutex
	confirmed int
	pending   []PendingXP
}

func NewXPLedger(serverTotal int) *XPLedger {
	return &XPLedger{confirmed: serverTotal}
}

// Apply records an optimistic award.
func (l *XPLedger) Apply(amount int, reason string) PendingXP {
	l.mu.Lock()
	defer l.mu.Unlock()

	p := PendingXP{ID: uuid.New(), Amount: amount, Reason: reason}
	l.pending = append(l.pending, p)
	return p
}

// Commit confirms p and adopts the server's total. Unknown entries still
// update the confirmed total.
func (l *XPLedger) Commit(p PendingXP, serverTotal int) LedgerState {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.remove(p.ID)
	l.confirmed = serverTotal
	return l.stateLocked()
}

// Rollback drops p, inverting its delta.
func (l *XPLedger) Rollback(p PendingXP) LedgerState {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.remove(p.ID)
	return l.stateLocked()
}

// Reset replaces the confirmed total and forgets pending entries.
func (l *XPLedger) Reset(serverTotal int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.confirmed = serverTotal
	l.pending = nil
}

func (l *XPLedger) State() LedgerState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stateLocked()
}

func (l *XPLedger) remove(id uuid.UUID) {
	for i, p := range l.pending {
		if p.ID == id {
			l.pending = append(l.pending[:i], l.pending[i+1:]...)
			return
		}
	}
}

func (l *XPLedger) stateLocked() LedgerState {
	total := l.confirmed
	for _, p := range l.pending {
		total += p.Amount
	}
	return LedgerState{
		TotalXP:   total,
		Level:     domain.LevelFor(total),
		Confirmed: l.confirmed,
		Pending:   append([]PendingXP(nil), l.pending...),
	}
}
