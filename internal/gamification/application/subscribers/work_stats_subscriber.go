package subscribers

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/workday/internal/gamification/application/commands"
	schedulingDomain "github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/eventbus"
)

// WorkRecorder is satisfied by commands.RecordWorkHandler.
type WorkRecorder interface {
	Handle(ctx context.Context, cmd commands.RecordWorkCommand) (*commands.RecordWorkResult, error)
}

// WorkStatsSubscriber feeds completed work blocks into the gamification
// counters.
type WorkStatsSubscriber struct {
	recorder WorkRecorder
	logger   *slog.Logger
}

func NewWorkStatsSubscriber(recorder WorkRecorder, logger *slog.Logger) *WorkStatsSubscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkStatsSubscriber{recorder: recorder, logger: logger}
}

// EventTypes returns the event types this subscriber handles.
func (s *WorkStatsSubscriber) EventTypes() []string {
	return []string{schedulingDomain.RoutingKeyBlockCompleted}
}

// Handle ignores break and lunch blocks. A malformed payload is logged and
// dropped so it is not redelivered forever.
func (s *WorkStatsSubscriber) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	var payload schedulingDomain.BlockCompleted
	if err := event.DecodePayload(&payload); err != nil {
		s.logger.Error("dropping block completed event",
			"event_id", event.EventID,
			"error", err,
		)
		return nil
	}
	if !payload.IsWork() {
		return nil
	}

	result, err := s.recorder.Handle(ctx, commands.RecordWorkCommand{
		UserID:  payload.UserID,
		Minutes: payload.DurationMinutes,
		Start:   payload.StartTime,
		End:     payload.EndTime,
	})
	if err != nil {
		return err
	}

	for _, a := range result.Unlocked {
		s.logger.Info("achievement unlocked",
			"user_id", payload.UserID,
			"achievement_id", a.ID,
			"xp_reward", a.XPReward,
		)
	}
	s.logger.Debug("work recorded",
		"user_id", payload.UserID,
		"block_id", payload.BlockID,
		"total_work_minutes", result.TotalWorkMinutes,
		"total_sessions", result.TotalSessions,
	)
	return nil
}
