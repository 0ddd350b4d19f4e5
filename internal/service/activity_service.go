package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/spark-api/internal/models"
	"github.com/noah-isme/spark-api/pkg/jobs"
)

const activityJobType = "points_activity"

// ActivityConfig sizes the notifier.
type ActivityConfig struct {
	Workers    int
	BufferSize int
	History    int
}

// ActivityService fans points changes out to background workers and keeps
// a bounded in-memory history. Publishing never blocks.
type ActivityService struct {
	queue   *jobs.Queue
	metrics *MetricsService
	logger  *zap.Logger

	mu      sync.Mutex
	history []models.ActivityEvent
	next    int
	full    bool
}

// NewActivityService builds the notifier. Call Start before publishing.
func NewActivityService(cfg ActivityConfig, metrics *MetricsService, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.History <= 0 {
		cfg.History = 50
	}
	s := &ActivityService{
		metrics: metrics,
		logger:  logger,
		history: make([]models.ActivityEvent, cfg.History),
	}
	s.queue = jobs.NewQueue("activity", s.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		Logger:     logger,
	})
	return s
}

// Start launches the workers.
func (s *ActivityService) Start(ctx context.Context) { s.queue.Start(ctx) }

// Stop drains buffered events and waits for the workers.
func (s *ActivityService) Stop() { s.queue.Stop() }

// Publish hands the event to the workers. When the buffer is full the event
// is dropped and counted.
func (s *ActivityService) Publish(event models.ActivityEvent) {
	err := s.queue.TryEnqueue(jobs.Job{ID: uuid.NewString(), Type: activityJobType, Payload: event})
	if err == nil {
		return
	}
	s.metrics.RecordActivityDropped()
	if errors.Is(err, jobs.ErrQueueFull) {
		s.logger.Warn("activity buffer full, event dropped", zap.String("kind", string(event.Kind)), zap.Int("amount", event.Amount))
		return
	}
	s.logger.Warn("activity notifier unavailable", zap.Error(err))
}

// Recent returns up to limit events, newest first. limit <= 0 returns all.
func (s *ActivityService) Recent(limit int) []models.ActivityEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	size := s.next
	if s.full {
		size = len(s.history)
	}
	if limit <= 0 || limit > size {
		limit = size
	}
	out := make([]models.ActivityEvent, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (s.next - i + len(s.history)) % len(s.history)
		out = append(out, s.history[idx])
	}
	return out
}

func (s *ActivityService) handle(_ context.Context, job jobs.Job) error {
	event, ok := job.Payload.(models.ActivityEvent)
	if !ok {
		return fmt.Errorf("unexpected activity payload %T", job.Payload)
	}

	s.mu.Lock()
	s.history[s.next] = event
	s.next = (s.next + 1) % len(s.history)
	if s.next == 0 {
		s.full = true
	}
	s.mu.Unlock()

	s.metrics.RecordPoints(string(event.Kind), event.Amount)
	s.logger.Info("points activity",
		zap.String("kind", string(event.Kind)),
		zap.String("reason", event.Reason),
		zap.Int("amount", event.Amount),
		zap.String("user_id", event.UserID),
		zap.Time("at", event.At),
	)
	return nil
}
