// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	jobqueue "github.com/samvat/rectify/internal/adapters/mq/queue"
	workerpool "github.com/samvat/rectify/internal/adapters/mq/worker"
	repository "github.com/samvat/rectify/internal/adapters/repository"
	"github.com/samvat/rectify/internal/domain/dedupe"
	ephemeris "github.com/samvat/rectify/internal/domain/ephemeris"
	"github.com/samvat/rectify/internal/domain/model"
	rectification "github.com/samvat/rectify/internal/domain/rectification"
	significance "github.com/samvat/rectify/internal/domain/significance"
	"github.com/samvat/rectify/pkg/logger"
	"github.com/samvat/rectify/pkg/metrics"
)

// Service implements the API dependencies for the rectification system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   *repository.InMemoryStore
	deduper dedupe.Deduper
	queue   jobqueue.Queue
	ranker  *rectification.Ranker
	pool    *workerpool.Pool
	source  ephemeris.Source

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	storeSize   int
	window      time.Duration
	step        time.Duration

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithStoreSize bounds the result store.
func WithStoreSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.storeSize = size
		}
	}
}

// WithWindow sets the half-width of the candidate search window.
func WithWindow(w time.Duration) Option {
	return func(s *Service) {
		if w > 0 {
			s.window = w
		}
	}
}

// WithStep sets the candidate search granularity.
func WithStep(step time.Duration) Option {
	return func(s *Service) {
		if step > 0 {
			s.step = step
		}
	}
}

// WithSource sets the planetary position source.
func WithSource(src ephemeris.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		queueSize:   10000,
		dedupeSize:  50000,
		storeSize:   100000,
		window:      2 * time.Hour,
		step:        15 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting rectification service...")

	s.store = repository.NewInMemoryStore(
		repository.WithCapacity(s.storeSize),
	)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
	)
	if s.source == nil {
		s.source = ephemeris.NewMeanMotion()
	}
	s.ranker = rectification.New(
		rectification.WithSource(s.source),
		rectification.WithWindow(s.window),
		rectification.WithStep(s.step),
	)

	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.ranker, s.store)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "rectification service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.String("window", s.window.String()),
		logger.String("step", s.step.String()),
	)
	return nil
}

// Stop gracefully shuts down the service, draining in-flight jobs.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping rectification service...")

	if s.pool != nil {
		// Shutdown closes the queue first so workers drain what is left.
		_ = s.pool.Shutdown(ctx)
	}

	s.started = false
	s.logger.Info(ctx, "rectification service stopped")
}

// SeenAndRecord atomically checks if a request id was seen and records it
// if not. Returns true if the request was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	return s.deduper.SeenAndRecord(ctx, id)
}

// Unrecord removes a request ID from the seen list, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// Enqueue records the job as pending and submits it for asynchronous
// processing. Returns false on backpressure.
func (s *Service) Enqueue(ctx context.Context, j model.Job) bool {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return false
	}

	for _, ev := range j.Events {
		if !significance.Known(ev.Category) {
			// Scoring falls back to house 1 for unknown categories,
			// which weakens the verdict.
			s.logger.Warn(ctx, "unknown event category",
				logger.String("request_id", j.RequestID),
				logger.String("category", string(ev.Category)),
			)
		}
	}

	pending := repository.Record{
		ID:          j.RequestID,
		Status:      repository.StatusPending,
		SubmittedAt: j.Submitted,
	}
	if err := s.store.Put(ctx, pending); err != nil {
		s.logger.Error(ctx, "recording pending request failed",
			logger.String("request_id", j.RequestID),
			logger.Error(err),
		)
		return false
	}

	if ok := s.queue.Enqueue(ctx, j); !ok {
		return false
	}
	metrics.UpdateQueueSize(s.queue.Len(ctx))
	return true
}

// Lookup returns the stored outcome for a request ID.
func (s *Service) Lookup(ctx context.Context, id string) (repository.Record, error) {
	return s.store.Get(ctx, id)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":      s.started,
		"worker_count": s.workerCount,
		"queue_size":   s.queueSize,
		"dedupe_size":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queue_length"] = queueLen
		stats["results"] = s.store.Count(ctx)
		stats["seen_requests"] = s.deduper.Size()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateStoreSize(s.store.Count(ctx))
	}
	return stats
}
