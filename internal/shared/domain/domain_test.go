package domain_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/workday/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleAggregate struct {
	domain.BaseAggregateRoot
}

type sampleEvent struct {
	domain.BaseEvent
	Note string `json:"note"`
}

func newSampleEvent(aggregateID uuid.UUID) *sampleEvent {
	return &sampleEvent{
		BaseEvent: domain.NewBaseEvent(aggregateID, "Sample", "sample.thing.happened"),
		Note:      "hello",
	}
}

func TestBaseEntity(t *testing.T) {
	t.Run("new entity gets id and equal timestamps", func(t *testing.T) {
		entity := domain.NewBaseEntity()
		assert.NotEqual(t, uuid.Nil, entity.ID())
		assert.Equal(t, entity.CreatedAt(), entity.UpdatedAt())
	})

	t.Run("touch moves updated at forward", func(t *testing.T) {
		entity := domain.NewBaseEntity()
		before := entity.UpdatedAt()
		time.Sleep(time.Millisecond)
		entity.Touch()
		assert.True(t, entity.UpdatedAt().After(before))
	})

	t.Run("same identity compares ids", func(t *testing.T) {
		id := uuid.New()
		a := domain.NewBaseEntityWithID(id)
		b := domain.NewBaseEntityWithID(id)
		c := domain.NewBaseEntity()
		assert.True(t, a.SameIdentity(b))
		assert.False(t, a.SameIdentity(c))
		assert.False(t, a.SameIdentity(nil))
	})
}

func TestBaseAggregateRoot_Events(t *testing.T) {
	agg := &sampleAggregate{BaseAggregateRoot: domain.NewBaseAggregateRoot()}
	agg.AddDomainEvent(newSampleEvent(agg.ID()))
	agg.AddDomainEvent(newSampleEvent(agg.ID()))

	require.Len(t, agg.DomainEvents(), 2)

	pulled := agg.PullDomainEvents()
	assert.Len(t, pulled, 2)
	assert.Empty(t, agg.DomainEvents())

	agg.AddDomainEvent(newSampleEvent(agg.ID()))
	agg.ClearDomainEvents()
	assert.Empty(t, agg.DomainEvents())
}

func TestBaseAggregateRoot_Version(t *testing.T) {
	agg := domain.RehydrateBaseAggregateRoot(domain.NewBaseEntity(), 4)
	agg.IncrementVersion()
	assert.Equal(t, 5, agg.Version())
}

func TestBaseEvent(t *testing.T) {
	aggregateID := uuid.New()
	event := newSampleEvent(aggregateID)

	assert.NotEqual(t, uuid.Nil, event.EventID())
	assert.Equal(t, aggregateID, event.AggregateID())
	assert.Equal(t, "Sample", event.AggregateType())
	assert.Equal(t, "sample.thing.happened", event.RoutingKey())

	meta := domain.EventMetadata{CorrelationID: uuid.New(), CausationID: uuid.New(), UserID: uuid.New()}
	event.SetMetadata(meta)
	assert.Equal(t, meta, event.Metadata())
}
