package eventbus

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// LocalBus is the Publisher for local mode. Publish decodes the envelope and
// dispatches it to registered consumers before returning. Consumer errors
// are logged and never fail the publish, so the outbox does not retry them.
type LocalBus struct {
	mu       sync.Mutex
	registry *Registry
	logger   *slog.Logger
}

func NewLocalBus(logger *slog.Logger) *LocalBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalBus{registry: NewRegistry(logger), logger: logger}
}

// Subscribe registers consumer on the bus.
func (b *LocalBus) Subscribe(consumer EventConsumer) {
	b.registry.Register(consumer)
}

// Registry exposes the consumer registry.
func (b *LocalBus) Registry() *Registry { return b.registry }

func (b *LocalBus) Publish(ctx context.Context, routingKey string, body []byte) error {
	event, err := Decode(body, routingKey)
	if err != nil {
		b.logger.Error("unreadable event skipped", "routing_key", routingKey, "error", err)
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	start := time.Now()
	if err := b.registry.Dispatch(ctx, event); err != nil {
		b.logger.Warn("local dispatch failed",
			"routing_key", routingKey,
			"event_id", event.EventID,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return nil
	}
	b.logger.Debug("event dispatched",
		"routing_key", routingKey,
		"event_id", event.EventID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Close is a no-op.
func (b *LocalBus) Close() error { return nil }
