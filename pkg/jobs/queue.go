package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrQueueFull is returned by TryEnqueue when the buffer has no free slot.
	ErrQueueFull = errors.New("queue full")
	// ErrQueueClosed is returned once the queue no longer accepts jobs.
	ErrQueueClosed = errors.New("queue closed")
)

// Job represents a queued background task.
type Job struct {
	ID       string
	Type     string
	Payload  interface{}
	Enqueued time.Time
}

// Handler processes a job.
type Handler func(context.Context, Job) error

// QueueConfig configures worker pool behaviour.
type QueueConfig struct {
	Workers    int
	BufferSize int
	Logger     *zap.Logger
}

// Queue is an in-memory job dispatcher backed by goroutines. Every job it
// accepts is handled, including jobs accepted just before shutdown.
type Queue struct {
	name    string
	handler Handler

	workers int
	logger  *zap.Logger

	jobs    chan Job
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
	closed  bool
}

// NewQueue builds a new queue with the provided handler.
func NewQueue(name string, handler Handler, cfg QueueConfig) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 4
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Queue{
		name:    name,
		handler: handler,
		workers: cfg.Workers,
		logger:  cfg.Logger,
		jobs:    make(chan Job, cfg.BufferSize),
	}
}

// Start begins worker consumption. Cancelling ctx closes the queue the same
// way Stop does.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	q.closed = false
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	q.started = true
	q.logger.Info("queue started", zap.String("queue", q.name), zap.Int("workers", q.workers))
}

// Stop closes the queue and waits for the workers. Jobs still buffered are
// processed before the workers return.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.cancel()
	q.started = false
	q.mu.Unlock()
	q.wg.Wait()
	q.logger.Info("queue stopped", zap.String("queue", q.name))
}

// TryEnqueue pushes a job without blocking.
func (q *Queue) TryEnqueue(job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.started || q.closed {
		return fmt.Errorf("queue %s: %w", q.name, ErrQueueClosed)
	}
	select {
	case q.jobs <- stamp(job):
		return nil
	default:
		return fmt.Errorf("queue %s: %w", q.name, ErrQueueFull)
	}
}

// Len reports how many jobs are waiting.
func (q *Queue) Len() int {
	return len(q.jobs)
}

func stamp(job Job) Job {
	if job.Enqueued.IsZero() {
		job.Enqueued = time.Now().UTC()
	}
	return job
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			// Refuse new jobs before draining so nothing lands in the
			// buffer after the last read.
			q.mu.Lock()
			q.closed = true
			q.mu.Unlock()
			q.drain()
			return
		case job := <-q.jobs:
			q.run(job)
		}
	}
}

func (q *Queue) drain() {
	for {
		select {
		case job := <-q.jobs:
			q.run(job)
		default:
			return
		}
	}
}

func (q *Queue) run(job Job) {
	if err := q.handler(q.ctx, job); err != nil {
		q.logger.Error("job failed", zap.String("queue", q.name), zap.String("job_id", job.ID), zap.String("type", job.Type), zap.Error(err))
	}
}
