package outbox_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepository struct {
	mu        sync.Mutex
	messages  []*outbox.Message
	published []int64
	failed    []int64
	dead      []int64
}

func (r *memoryRepository) SaveBatch(_ context.Context, msgs []*outbox.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, msg := range msgs {
		msg.ID = int64(len(r.messages) + 1)
		r.messages = append(r.messages, msg)
	}
	return nil
}

func (r *memoryRepository) GetUnpublished(_ context.Context, limit int) ([]*outbox.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var due []*outbox.Message
	for _, msg := range r.messages {
		if msg.PublishedAt != nil || msg.DeadLetteredAt != nil {
			continue
		}
		if msg.NextRetryAt != nil && msg.NextRetryAt.After(time.Now()) {
			continue
		}
		due = append(due, msg)
		if len(due) == limit {
			break
		}
	}
	return due, nil
}

func (r *memoryRepository) find(id int64) *outbox.Message {
	for _, msg := range r.messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

func (r *memoryRepository) MarkPublished(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.find(id).PublishedAt = &now
	r.published = append(r.published, id)
	return nil
}

func (r *memoryRepository) MarkFailed(_ context.Context, id int64, reason string, next time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg := r.find(id)
	msg.RetryCount++
	msg.LastError = &reason
	msg.NextRetryAt = &next
	r.failed = append(r.failed, id)
	return nil
}

func (r *memoryRepository) MarkDead(_ context.Context, id int64, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	msg := r.find(id)
	msg.DeadLetteredAt = &now
	msg.DeadLetterReason = &reason
	r.dead = append(r.dead, id)
	return nil
}

func (r *memoryRepository) CountPending(context.Context) (int64, error) { return 0, nil }

func (r *memoryRepository) DeleteOld(context.Context, time.Time) (int64, error) { return 0, nil }

type fakePublisher struct {
	mu      sync.Mutex
	keys    []string
	failFor map[string]bool
}

func (p *fakePublisher) Publish(_ context.Context, routingKey string, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failFor[routingKey] {
		return errors.New("broker unavailable")
	}
	p.keys = append(p.keys, routingKey)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.keys)
}

func message(routingKey string) *outbox.Message {
	return &outbox.Message{
		EventID:       uuid.New(),
		AggregateType: "Schedule",
		AggregateID:   uuid.New(),
		RoutingKey:    routingKey,
		Body:          []byte(`{}`),
		CreatedAt:     time.Now().Add(-time.Second),
	}
}

func TestProcessor_ProcessOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes due messages in order", func(t *testing.T) {
		repo := &memoryRepository{}
		pub := &fakePublisher{}
		require.NoError(t, repo.SaveBatch(ctx, []*outbox.Message{message("a"), message("b")}))

		p := outbox.NewProcessor(repo, pub, outbox.DefaultProcessorConfig(), nil)
		require.NoError(t, p.ProcessOnce(ctx))

		assert.Equal(t, []string{"a", "b"}, pub.keys)
		assert.Equal(t, []int64{1, 2}, repo.published)
		stats := p.Stats()
		assert.Equal(t, uint64(2), stats.Published)
		assert.NotNil(t, stats.LastProcessedAt)
		assert.Greater(t, stats.LagSeconds, 0.0)
	})

	t.Run("schedules a retry on failure", func(t *testing.T) {
		repo := &memoryRepository{}
		pub := &fakePublisher{failFor: map[string]bool{"bad": true}}
		require.NoError(t, repo.SaveBatch(ctx, []*outbox.Message{message("good"), message("bad")}))

		p := outbox.NewProcessor(repo, pub, outbox.DefaultProcessorConfig(), nil)
		require.NoError(t, p.ProcessOnce(ctx))

		assert.Equal(t, []int64{1}, repo.published)
		assert.Equal(t, []int64{2}, repo.failed)
		assert.Equal(t, 1, repo.messages[1].RetryCount)
		require.NotNil(t, repo.messages[1].NextRetryAt)
		assert.True(t, repo.messages[1].NextRetryAt.After(time.Now()))
		assert.Equal(t, uint64(1), p.Stats().Failed)
		assert.Equal(t, "broker unavailable", p.Stats().LastError)
	})

	t.Run("dead letters at the retry cap", func(t *testing.T) {
		repo := &memoryRepository{}
		pub := &fakePublisher{failFor: map[string]bool{"bad": true}}
		require.NoError(t, repo.SaveBatch(ctx, []*outbox.Message{message("bad")}))

		cfg := outbox.DefaultProcessorConfig()
		cfg.MaxRetries = 1
		p := outbox.NewProcessor(repo, pub, cfg, nil)
		require.NoError(t, p.ProcessOnce(ctx))

		assert.Empty(t, repo.failed)
		assert.Equal(t, []int64{1}, repo.dead)
		assert.Equal(t, uint64(1), p.Stats().DeadLettered)
	})
}

func TestProcessor_Backoff(t *testing.T) {
	p := outbox.NewProcessor(&memoryRepository{}, &fakePublisher{}, outbox.ProcessorConfig{
		RetryBackoffBase: time.Second,
		RetryBackoffMax:  5 * time.Second,
	}, nil)

	assert.Equal(t, time.Second, p.Backoff(1))
	assert.Equal(t, 2*time.Second, p.Backoff(2))
	assert.Equal(t, 4*time.Second, p.Backoff(3))
	assert.Equal(t, 5*time.Second, p.Backoff(4))
}

func TestProcessor_StartStop(t *testing.T) {
	repo := &memoryRepository{}
	pub := &fakePublisher{}
	p := outbox.NewProcessor(repo, pub, outbox.ProcessorConfig{
		PollInterval: 5 * time.Millisecond,
		BatchSize:    10,
		MaxRetries:   3,
	}, nil)

	p.Start(context.Background())
	p.Start(context.Background())
	assert.True(t, p.IsRunning())

	require.NoError(t, repo.SaveBatch(context.Background(), []*outbox.Message{message("late")}))
	assert.Eventually(t, func() bool { return pub.count() == 1 }, time.Second, 5*time.Millisecond)

	p.Stop()
	p.Stop()
	assert.False(t, p.Stats().Running)
}

func TestMessage_CanRetry(t *testing.T) {
	msg := &outbox.Message{RetryCount: 3}

	assert.True(t, msg.CanRetry(5))
	assert.False(t, msg.CanRetry(4))
	assert.False(t, msg.CanRetry(0))
}
