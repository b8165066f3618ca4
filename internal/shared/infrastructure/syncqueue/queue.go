// Package syncqueue runs best-effort remote writes in the background.
//
// Tasks run one at a time in FIFO order. A failed task waits
// RetryDelay*attempt, goes back to the tail, and is dropped after
// MaxRetries retries.
package syncqueue

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/workday/pkg/observability"
)

// Task is one remote write.
type Task struct {
	// Name identifies the task in logs and metrics.
	Name string
	Run  func(ctx context.Context) error
	// OnDrop, when set, runs once after the final failed attempt.
	OnDrop func(err error)

	retries int
}

// Config tunes retry behaviour.
type Config struct {
	MaxRetries int
	RetryDelay time.Duration
	// Sleep waits between a failure and the re-enqueue. Tests replace it.
	Sleep func(ctx context.Context, d time.Duration) error
}

func DefaultConfig() Config {
	return Config{MaxRetries: 3, RetryDelay: 2 * time.Second}
}

// Stats counts task outcomes since the queue was created.
type Stats struct {
	Pending   int    `json:"pending"`
	Enqueued  uint64 `json:"enqueued"`
	Succeeded uint64 `json:"succeeded"`
	Retried   uint64 `json:"retried"`
	Dropped   uint64 `json:"dropped"`
}

// Queue is safe for concurrent use.
type Queue struct {
	cfg     Config
	logger  *slog.Logger
	metrics observability.Metrics

	mu         sync.Mutex
	tasks      []*Task
	processing bool
	stats      Stats

	wake    chan struct{}
	cancel  context.CancelFunc
	running sync.WaitGroup
}

func New(cfg Config, logger *slog.Logger, metrics observability.Metrics) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Sleep == nil {
		cfg.Sleep = sleep
	}
	return &Queue{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		wake:    make(chan struct{}, 1),
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Enqueue appends task and nudges the background worker if one is running.
func (q *Queue) Enqueue(task Task) {
	t := task
	t.retries = 0
	q.mu.Lock()
	q.tasks = append(q.tasks, &t)
	q.stats.Enqueued++
	q.mu.Unlock()

	q.metrics.Counter("syncqueue.enqueued", 1, observability.T("task", task.Name))
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Len returns the number of tasks waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Clear discards every waiting task without running OnDrop.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = nil
}

func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	s := q.stats
	s.Pending = len(q.tasks)
	return s
}

// Process runs tasks until the queue is empty or ctx ends. Only one caller
// processes at a time; a concurrent call returns immediately.
func (q *Queue) Process(ctx context.Context) error {
	q.mu.Lock()
	if q.processing {
		q.mu.Unlock()
		return nil
	}
	q.processing = true
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.processing = false
		q.mu.Unlock()
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		task := q.pop()
		if task == nil {
			return nil
		}
		if err := q.attempt(ctx, task); err != nil {
			return err
		}
	}
}

func (q *Queue) pop() *Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 {
		return nil
	}
	task := q.tasks[0]
	q.tasks[0] = nil
	q.tasks = q.tasks[1:]
	return task
}

func (q *Queue) push(task *Task) {
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()
}

// attempt returns an error only when ctx ended while waiting to retry; the
// task is back on the queue in that case.
func (q *Queue) attempt(ctx context.Context, task *Task) error {
	err := task.Run(ctx)
	if err == nil {
		q.mu.Lock()
		q.stats.Succeeded++
		q.mu.Unlock()
		q.metrics.Counter("syncqueue.succeeded", 1, observability.T("task", task.Name))
		return nil
	}

	if task.retries >= q.cfg.MaxRetries {
		q.mu.Lock()
		q.stats.Dropped++
		q.mu.Unlock()
		q.metrics.Counter("syncqueue.dropped", 1, observability.T("task", task.Name))
		q.logger.Error("sync task dropped",
			"task", task.Name,
			"retries", task.retries,
			"error", err,
		)
		if task.OnDrop != nil {
			task.OnDrop(err)
		}
		return nil
	}

	task.retries++
	q.mu.Lock()
	q.stats.Retried++
	q.mu.Unlock()
	delay := q.cfg.RetryDelay * time.Duration(task.retries)
	q.logger.Warn("sync task failed, retrying",
		"task", task.Name,
		"retry", task.retries,
		"delay", delay,
		"error", err,
	)

	if err := q.cfg.Sleep(ctx, delay); err != nil {
		q.push(task)
		return err
	}
	q.push(task)
	return nil
}

// Start processes in the background whenever tasks arrive.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	if q.cancel != nil {
		q.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	q.cancel = cancel
	q.mu.Unlock()

	q.running.Add(1)
	go func() {
		defer q.running.Done()
		for {
			if err := q.Process(runCtx); err != nil {
				return
			}
			select {
			case <-runCtx.Done():
				return
			case <-q.wake:
			}
		}
	}()
}

// Stop ends the background worker, interrupting any retry wait. Waiting
// tasks stay queued for Drain.
func (q *Queue) Stop() {
	q.mu.Lock()
	cancel := q.cancel
	q.cancel = nil
	q.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	q.running.Wait()
}

// Drain blocks until the queue is empty and idle, or ctx ends.
func (q *Queue) Drain(ctx context.Context) error {
	for {
		if err := q.Process(ctx); err != nil {
			return err
		}
		q.mu.Lock()
		idle := !q.processing && len(q.tasks) == 0
		q.mu.Unlock()
		if idle {
			return nil
		}
		if err := sleep(ctx, 10*time.Millisecond); err != nil {
			return err
		}
	}
}
