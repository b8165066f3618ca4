package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/google/uuid"
)

// IncompleteInfo is yesterday's unfinished work offered for carry-over.
type IncompleteInfo struct {
	Date         string         `json:"date"`
	Blocks       []domain.Block `json:"-"`
	TotalMinutes int            `json:"total_minutes"`
}

// CarryOverCoordinator offers yesterday's unfinished work once per day.
type CarryOverCoordinator struct {
	gateway    ScheduleGateway
	dismissals DismissalStore
	session    *DaySession
	logger     *slog.Logger

	mu   sync.Mutex
	last *IncompleteInfo
}

func NewCarryOverCoordinator(gateway ScheduleGateway, dismissals DismissalStore, session *DaySession, logger *slog.Logger) *CarryOverCoordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &CarryOverCoordinator{
		gateway:    gateway,
		dismissals: dismissals,
		session:    session,
		logger:     logger,
	}
}

// FetchIncomplete returns nil when the prompt was handled today or nothing
// is left over.
func (c *CarryOverCoordinator) FetchIncomplete(ctx context.Context) (*IncompleteInfo, error) {
	today := c.session.Today()
	todayKey := domain.DateKey(today)

	dismissed, err := c.dismissals.Dismissed(ctx, c.session.UserID(), todayKey)
	if err != nil {
		c.logger.Warn("dismissal lookup failed", "date", todayKey, "error", err)
	}
	if dismissed {
		return nil, nil
	}

	blocks, err := c.gateway.FetchIncomplete(ctx, today)
	if err != nil {
		return nil, err
	}
	blocks = domain.IncompleteWork(blocks)
	if len(blocks) == 0 {
		c.remember(nil)
		return nil, nil
	}

	info := &IncompleteInfo{
		Date:         domain.DateKey(today.AddDate(0, 0, -1)),
		Blocks:       blocks,
		TotalMinutes: domain.SumMinutes(blocks),
	}
	c.remember(info)
	return info, nil
}

// Accept carries the listed blocks into today. The remote commit happens
// first; when it fails today is left unchanged and Accept returns false.
// Ids that were not part of the last FetchIncomplete are ignored.
func (c *CarryOverCoordinator) Accept(ctx context.Context, blockIDs []uuid.UUID) bool {
	ids, minutes := c.accepted(blockIDs)
	if minutes == 0 {
		return false
	}

	today := c.session.Today()
	if err := c.gateway.CommitCarryOver(ctx, ids, today); err != nil {
		c.logger.Error("carry-over commit failed", "blocks", len(ids), "error", err)
		return false
	}

	block, ok, err := c.session.AppendCarryOver(ctx, minutes)
	if err != nil || !ok {
		c.logger.Error("carry-over block not added", "minutes", minutes, "error", err)
		return false
	}
	c.logger.Info("carry-over accepted", "block_id", block.ID(), "minutes", minutes)

	c.remember(nil)
	c.markHandled(ctx)
	return true
}

// Dismiss hides the prompt for the rest of today.
func (c *CarryOverCoordinator) Dismiss(ctx context.Context) error {
	c.remember(nil)
	return c.dismissals.Dismiss(ctx, c.session.UserID(), domain.DateKey(c.session.Today()))
}

// accepted keeps the ids found in the last fetch, in fetch order, and sums
// their minutes.
func (c *CarryOverCoordinator) accepted(blockIDs []uuid.UUID) ([]uuid.UUID, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return nil, 0
	}

	wanted := make(map[uuid.UUID]struct{}, len(blockIDs))
	for _, id := range blockIDs {
		wanted[id] = struct{}{}
	}
	var ids []uuid.UUID
	total := 0
	for _, b := range c.last.Blocks {
		if _, ok := wanted[b.ID()]; ok {
			ids = append(ids, b.ID())
			total += b.DurationMinutes()
		}
	}
	return ids, total
}

func (c *CarryOverCoordinator) remember(info *IncompleteInfo) {
	c.mu.Lock()
	c.last = info
	c.mu.Unlock()
}

func (c *CarryOverCoordinator) markHandled(ctx context.Context) {
	if err := c.Dismiss(ctx); err != nil {
		c.logger.Warn("carry-over dismissal not recorded", "error", err)
	}
}
