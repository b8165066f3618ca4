package subscribers

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/workday/internal/scheduling/application/services"
	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// CalendarMirrorSubscriber pushes a day to the external calendar whenever
// one of its blocks changes.
type CalendarMirrorSubscriber struct {
	mirror       services.CalendarMirror
	scheduleRepo domain.ScheduleRepository
	location     *time.Location
	logger       *slog.Logger
}

func NewCalendarMirrorSubscriber(mirror services.CalendarMirror, scheduleRepo domain.ScheduleRepository, location *time.Location, logger *slog.Logger) *CalendarMirrorSubscriber {
	if logger == nil {
		logger = slog.Default()
	}
	if location == nil {
		location = time.Local
	}
	return &CalendarMirrorSubscriber{
		mirror:       mirror,
		scheduleRepo: scheduleRepo,
		location:     location,
		logger:       logger,
	}
}

// EventTypes returns the event types this subscriber handles.
func (s *CalendarMirrorSubscriber) EventTypes() []string {
	return []string{
		domain.RoutingKeyBlockStarted,
		domain.RoutingKeyBlockCompleted,
		domain.RoutingKeyBlockSkipped,
		domain.RoutingKeyBlockRescheduled,
		domain.RoutingKeyCarryOverAppended,
		domain.RoutingKeyBlocksCarriedOver,
		domain.RoutingKeyScheduleReplaced,
	}
}

type dayRef struct {
	UserID       uuid.UUID `json:"user_id"`
	ScheduleDate string    `json:"schedule_date"`
}

// Handle never fails the delivery: calendar errors are logged, and the next
// change of the day pushes it again.
func (s *CalendarMirrorSubscriber) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	if s.mirror == nil || !s.mirror.Configured() {
		return nil
	}

	var ref dayRef
	if err := event.DecodePayload(&ref); err != nil {
		s.logger.Error("dropping schedule event", "event_id", event.EventID, "error", err)
		return nil
	}
	date, err := domain.ParseDate(ref.ScheduleDate, s.location)
	if err != nil {
		s.logger.Error("dropping schedule event", "event_id", event.EventID, "error", err)
		return nil
	}

	schedule, err := s.scheduleRepo.FindByUserAndDate(ctx, ref.UserID, date)
	if err != nil {
		return err
	}
	var blocks []domain.Block
	if schedule != nil {
		blocks = schedule.Blocks()
	}

	if _, err := s.mirror.Push(ctx, ref.UserID, date, blocks); err != nil {
		s.logger.Error("calendar mirror failed",
			"user_id", ref.UserID,
			"date", ref.ScheduleDate,
			"routing_key", event.RoutingKey,
			"error", err,
		)
	}
	return nil
}
