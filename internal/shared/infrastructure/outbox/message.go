package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/workday/internal/shared/domain"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// Message is one stored event waiting to be published. Body holds the
// encoded eventbus envelope exactly as it goes on the wire.
type Message struct {
	ID               int64
	EventID          uuid.UUID
	AggregateType    string
	AggregateID      uuid.UUID
	RoutingKey       string
	Body             json.RawMessage
	CreatedAt        time.Time
	PublishedAt      *time.Time
	NextRetryAt      *time.Time
	RetryCount       int
	LastError        *string
	DeadLetteredAt   *time.Time
	DeadLetterReason *string
}

// NewMessage encodes event for the outbox.
func NewMessage(event domain.DomainEvent) (*Message, error) {
	envelope, err := eventbus.Envelope(event)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return &Message{
		EventID:       event.EventID(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		RoutingKey:    event.RoutingKey(),
		Body:          body,
		CreatedAt:     event.OccurredAt(),
	}, nil
}

// NewMessages encodes a batch, stopping at the first failure.
func NewMessages(events []domain.DomainEvent) ([]*Message, error) {
	msgs := make([]*Message, 0, len(events))
	for _, event := range events {
		msg, err := NewMessage(event)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// CanRetry reports whether a failure of the current attempt leaves room for another.
func (m *Message) CanRetry(maxRetries int) bool { return m.RetryCount+1 < maxRetries }
