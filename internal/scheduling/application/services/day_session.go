package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	gamificationServices "github.com/felixgeelhaar/workday/internal/gamification/application/services"
	"github.com/felixgeelhaar/workday/internal/scheduling/application/dto"
	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/syncqueue"
	"github.com/felixgeelhaar/workday/pkg/observability"
	"github.com/google/uuid"
)

var ErrSessionNotOpen = errors.New("day session is not open")

// ActionBlockCompleted is the gamification action sent for every completion.
const ActionBlockCompleted = "BLOCK_COMPLETED"

// Where Open found the day.
const (
	SourceSnapshot = "snapshot"
	SourceRemote   = "remote"
	SourceTemplate = "template"
)

// SessionConfig configures a DaySession.
type SessionConfig struct {
	UserID            uuid.UUID
	StartTime         domain.TimeOfDay
	TargetWorkMinutes int
	Location          *time.Location
	// DrainTimeout bounds Close.
	DrainTimeout time.Duration
	Now          func() time.Time
}

// ScheduleView is a read-only copy of the open day.
type ScheduleView struct {
	Date              string                           `json:"date"`
	Source            string                           `json:"source"`
	Blocks            []domain.Block                   `json:"-"`
	Stats             domain.Stats                     `json:"stats"`
	TotalWorkMinutes  int                              `json:"total_work_minutes"`
	TotalBreakMinutes int                              `json:"total_break_minutes"`
	CarriedMinutes    int                              `json:"carried_minutes"`
	IsComplete        bool                             `json:"is_complete"`
	XP                gamificationServices.LedgerState `json:"xp"`
}

// DaySession owns today's schedule for one user. Every mutation is applied
// locally, written to the snapshot store and queued for the remote side.
// Methods are safe for concurrent use.
type DaySession struct {
	cfg       SessionConfig
	gateway   ScheduleGateway
	xp        XPGateway
	templates *TemplateProvider
	snapshots SnapshotStore
	queue     *syncqueue.Queue
	ledger    *gamificationServices.XPLedger
	logger    *slog.Logger
	metrics   observability.Metrics

	mu       sync.Mutex
	schedule *domain.DaySchedule
	source   string
}

func NewDaySession(
	cfg SessionConfig,
	gateway ScheduleGateway,
	xp XPGateway,
	snapshots SnapshotStore,
	queue *syncqueue.Queue,
	ledger *gamificationServices.XPLedger,
	logger *slog.Logger,
	metrics observability.Metrics,
) *DaySession {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.TargetWorkMinutes <= 0 {
		cfg.TargetWorkMinutes = domain.DefaultTargetWorkMinutes
	}
	if ledger == nil {
		ledger = gamificationServices.NewXPLedger(0)
	}
	return &DaySession{
		cfg:       cfg,
		gateway:   gateway,
		xp:        xp,
		templates: NewTemplateProvider(gateway, logger),
		snapshots: snapshots,
		queue:     queue,
		ledger:    ledger,
		logger:    logger.With("user_id", cfg.UserID),
		metrics:   metrics,
	}
}

func (s *DaySession) UserID() uuid.UUID { return s.cfg.UserID }

// Now returns the current time in the session's location.
func (s *DaySession) Now() time.Time { return s.cfg.Now().In(s.cfg.Location) }

// Today returns local midnight of the current day.
func (s *DaySession) Today() time.Time { return domain.StartOfDay(s.Now()) }

// Open loads today's day: the local snapshot first, then the remote blocks,
// then a fresh build from the template with carriedMinutes appended.
func (s *DaySession) Open(ctx context.Context, carriedMinutes int) (ScheduleView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.Today()
	s.syncLedger(ctx)

	if schedule := s.fromSnapshot(ctx, today); schedule != nil {
		s.adopt(schedule, SourceSnapshot)
		return s.viewLocked(), nil
	}

	if schedule := s.fromRemote(ctx, today); schedule != nil {
		s.adopt(schedule, SourceRemote)
		s.writeSnapshot(ctx)
		return s.viewLocked(), nil
	}

	schedule, err := s.build(ctx, today, carriedMinutes)
	if err != nil {
		return ScheduleView{}, err
	}
	s.adopt(schedule, SourceTemplate)
	s.writeSnapshot(ctx)
	s.enqueueSave()
	return s.viewLocked(), nil
}

// Reset throws today away and rebuilds it from the template. Minutes carried
// in from an earlier day are kept as a fresh carry-over block.
func (s *DaySession) Reset(ctx context.Context) (ScheduleView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	carried := 0
	if s.schedule != nil {
		carried = s.schedule.CarriedMinutes()
	}
	schedule, err := s.build(ctx, s.Today(), carried)
	if err != nil {
		return ScheduleView{}, err
	}
	s.adopt(schedule, SourceTemplate)
	s.writeSnapshot(ctx)
	s.enqueueSave()
	s.logger.Info("day reset", "date", schedule.DateKey(), "blocks", schedule.Len(), "carried_minutes", carried)
	return s.viewLocked(), nil
}

func (s *DaySession) Start(ctx context.Context, id uuid.UUID) error {
	return s.mutate(ctx, func(schedule *domain.DaySchedule) error {
		return schedule.Start(id)
	})
}

// Complete grants XP once per block; completing again returns the stored
// result with AlreadyCompleted set.
func (s *DaySession) Complete(ctx context.Context, id uuid.UUID) (domain.CompletionResult, error) {
	var result domain.CompletionResult
	err := s.mutate(ctx, func(schedule *domain.DaySchedule) error {
		var err error
		result, err = schedule.Complete(id)
		return err
	})
	return result, err
}

func (s *DaySession) Skip(ctx context.Context, id uuid.UUID) error {
	return s.mutate(ctx, func(schedule *domain.DaySchedule) error {
		if err := schedule.Skip(id); err != nil {
			return err
		}
		s.metrics.Counter(observability.MetricBlocksSkipped, 1)
		return nil
	})
}

// Update applies a lenient edit. An unknown block leaves the day alone.
func (s *DaySession) Update(ctx context.Context, id uuid.UUID, u domain.BlockUpdate) (domain.UpdateOutcome, error) {
	var outcome domain.UpdateOutcome
	err := s.mutate(ctx, func(schedule *domain.DaySchedule) error {
		outcome = schedule.Update(id, u)
		if !outcome.Found {
			return fmt.Errorf("block %s: %w", id, domain.ErrBlockNotFound)
		}
		return nil
	})
	return outcome, err
}

// UpdateStrict rejects an edit that would leave a block without duration.
func (s *DaySession) UpdateStrict(ctx context.Context, id uuid.UUID, u domain.BlockUpdate) (domain.UpdateOutcome, error) {
	var outcome domain.UpdateOutcome
	err := s.mutate(ctx, func(schedule *domain.DaySchedule) error {
		var err error
		outcome, err = schedule.UpdateStrict(id, u)
		return err
	})
	return outcome, err
}

// AppendCarryOver adds a carry-over WORK block at the end of today.
func (s *DaySession) AppendCarryOver(ctx context.Context, minutes int) (domain.Block, bool, error) {
	var (
		block domain.Block
		ok    bool
	)
	err := s.mutate(ctx, func(schedule *domain.DaySchedule) error {
		block, ok = schedule.AppendCarryOver(minutes, s.cfg.StartTime)
		return nil
	})
	return block, ok, err
}

func (s *DaySession) Schedule() (ScheduleView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.schedule == nil {
		return ScheduleView{}, ErrSessionNotOpen
	}
	return s.viewLocked(), nil
}

func (s *DaySession) Stats() (domain.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.schedule == nil {
		return domain.Stats{}, ErrSessionNotOpen
	}
	return s.schedule.Stats(s.Now()), nil
}

func (s *DaySession) NextBlock() (domain.Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.schedule == nil {
		return domain.Block{}, false
	}
	return s.schedule.NextBlock()
}

func (s *DaySession) CurrentBlock() (domain.Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.schedule == nil {
		return domain.Block{}, false
	}
	return s.schedule.CurrentBlock()
}

// XP returns the optimistic XP state.
func (s *DaySession) XP() gamificationServices.LedgerState {
	return s.ledger.State()
}

// Close drains the sync queue, giving up after DrainTimeout. Tasks still
// queued at the deadline are reported and lost.
func (s *DaySession) Close(ctx context.Context) error {
	if s.cfg.DrainTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.DrainTimeout)
		defer cancel()
	}
	if err := s.queue.Drain(ctx); err != nil {
		s.logger.Warn("sync queue not drained", "pending", s.queue.Len(), "error", err)
		return err
	}
	return nil
}

func (s *DaySession) mutate(ctx context.Context, fn func(schedule *domain.DaySchedule) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.schedule == nil {
		return ErrSessionNotOpen
	}

	if err := fn(s.schedule); err != nil {
		// Domain operations leave the day untouched on error.
		s.schedule.ClearDomainEvents()
		return err
	}

	events := s.schedule.PullDomainEvents()
	if len(events) == 0 {
		return nil
	}
	s.writeSnapshot(ctx)
	s.enqueueSave()
	for _, event := range events {
		if completed, ok := event.(*domain.BlockCompleted); ok {
			s.dispatchCompletion(completed)
		}
	}
	return nil
}

func (s *DaySession) adopt(schedule *domain.DaySchedule, source string) {
	schedule.SetTargetWorkMinutes(s.cfg.TargetWorkMinutes)
	schedule.ClearDomainEvents()
	s.schedule = schedule
	s.source = source
	s.logger.Debug("day opened", "date", schedule.DateKey(), "source", source, "blocks", schedule.Len())
}

func (s *DaySession) fromSnapshot(ctx context.Context, today time.Time) *domain.DaySchedule {
	snap, err := s.snapshots.Load(ctx, s.cfg.UserID, domain.DateKey(today))
	if err != nil {
		s.logger.Warn("snapshot read failed", "error", err)
		return nil
	}
	if snap == nil || len(snap.Blocks) == 0 {
		return nil
	}
	blocks, err := dto.ToBlocks(snap.Blocks)
	if err != nil {
		s.logger.Warn("snapshot unreadable, ignoring", "date", snap.Date, "error", err)
		return nil
	}
	return domain.RehydrateDaySchedule(s.cfg.UserID, today, blocks, snap.SavedAt, snap.SavedAt)
}

func (s *DaySession) fromRemote(ctx context.Context, today time.Time) *domain.DaySchedule {
	blocks, err := s.gateway.LoadBlocks(ctx, today)
	if err != nil {
		s.logger.Warn("remote load failed", "date", domain.DateKey(today), "error", err)
		return nil
	}
	if len(blocks) == 0 {
		return nil
	}
	now := s.cfg.Now()
	return domain.RehydrateDaySchedule(s.cfg.UserID, today, blocks, now, now)
}

func (s *DaySession) build(ctx context.Context, today time.Time, carriedMinutes int) (*domain.DaySchedule, error) {
	tmpl := s.templates.Template(ctx)
	blocks, err := domain.Build(today, s.cfg.StartTime.String(), tmpl.Entries(), carriedMinutes)
	if err != nil {
		return nil, fmt.Errorf("build %s from %q: %w", domain.DateKey(today), tmpl.Name(), err)
	}
	return domain.NewDaySchedule(s.cfg.UserID, today, blocks, s.cfg.TargetWorkMinutes), nil
}

func (s *DaySession) syncLedger(ctx context.Context) {
	total, err := s.xp.TotalXP(ctx)
	if err != nil {
		s.logger.Warn("xp total unavailable, keeping local ledger", "error", err)
		return
	}
	s.ledger.Reset(total)
}

// writeSnapshot never fails the caller.
func (s *DaySession) writeSnapshot(ctx context.Context) {
	snap := Snapshot{
		UserID:  s.cfg.UserID,
		Date:    s.schedule.DateKey(),
		Blocks:  dto.FromBlocks(s.schedule.Blocks()),
		SavedAt: s.cfg.Now().UTC(),
	}
	if err := s.snapshots.Save(ctx, snap); err != nil {
		s.metrics.Counter(observability.MetricSnapshotFailures, 1)
		s.logger.Warn("snapshot write failed", "date", snap.Date, "error", err)
	}
}

func (s *DaySession) enqueueSave() {
	date := s.schedule.Date()
	blocks := s.schedule.Blocks()
	s.queue.Enqueue(syncqueue.Task{
		Name: "schedule.save",
		Run: func(ctx context.Context) error {
			return s.gateway.SaveBlocks(ctx, date, blocks)
		},
	})
}

// dispatchCompletion shows the XP at once and lets the server confirm it.
// A dropped award rolls the optimistic XP back.
func (s *DaySession) dispatchCompletion(event *domain.BlockCompleted) {
	s.metrics.Counter(observability.MetricBlocksCompleted, 1, observability.T("block_type", event.BlockType))

	reason := "Completed " + event.Label
	if event.Milestone != "" {
		reason = fmt.Sprintf("%s (%s)", reason, event.Milestone)
	}
	pending := s.ledger.Apply(event.XPEarned, reason)
	s.queue.Enqueue(syncqueue.Task{
		Name: "gamification.award_xp",
		Run: func(ctx context.Context) error {
			award, err := s.xp.AwardXP(ctx, event.XPEarned, reason, ActionBlockCompleted)
			if err != nil {
				return err
			}
			state := s.ledger.Commit(pending, award.TotalXP)
			if award.LeveledUp {
				s.logger.Info("level up", "level", award.Level, "total_xp", state.TotalXP)
			}
			return nil
		},
		OnDrop: func(err error) {
			state := s.ledger.Rollback(pending)
			s.logger.Error("xp award dropped, rolled back",
				"block_id", event.BlockID,
				"amount", pending.Amount,
				"total_xp", state.TotalXP,
				"error", err,
			)
		},
	})

	if !event.IsWork() {
		return
	}
	clientDate := s.Now().Format("01-02-2006")
	s.queue.Enqueue(syncqueue.Task{
		Name: "gamification.streak",
		Run: func(ctx context.Context) error {
			return s.xp.UpdateStreak(ctx, clientDate)
		},
	})
}

func (s *DaySession) viewLocked() ScheduleView {
	blocks := s.schedule.Blocks()
	return ScheduleView{
		Date:              s.schedule.DateKey(),
		Source:            s.source,
		Blocks:            blocks,
		Stats:             s.schedule.Stats(s.Now()),
		TotalWorkMinutes:  s.schedule.TotalWorkMinutes(),
		TotalBreakMinutes: s.schedule.TotalBreakMinutes(),
		CarriedMinutes:    s.schedule.CarriedMinutes(),
		IsComplete:        s.schedule.IsComplete(),
		XP:                s.ledger.State(),
	}
}
