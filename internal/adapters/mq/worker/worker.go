// Package worker runs rectification jobs off the queue and records the
// outcomes.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/samvat/rectify/internal/adapters/repository"
	ephemeris "github.com/samvat/rectify/internal/domain/ephemeris"
	"github.com/samvat/rectify/internal/domain/model"
	rectification "github.com/samvat/rectify/internal/domain/rectification"
	"github.com/samvat/rectify/pkg/logger"
	"github.com/samvat/rectify/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Job abstracts what workers read off the queue.
type Job = model.Job

// Ranker runs the rectification search for one job.
type Ranker interface {
	Rank(ctx context.Context, approx time.Time, loc ephemeris.Location, events []rectification.Event) (rectification.Result, error)
}

// Recorder persists job outcomes.
type Recorder interface {
	Put(ctx context.Context, rec repository.Record) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes jobs and records outcomes using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing rectification jobs.
type InMemoryWorker struct {
	queue  Queue
	ranker Ranker
	store  Recorder
	name   string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, ranker Ranker, store Recorder, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		ranker:   ranker,
		store:    store,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing job", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob runs the ranking search for one job and records the outcome.
func (w *InMemoryWorker) processJob(ctx context.Context, job Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	rankStart := time.Now()
	res, err := w.ranker.Rank(ctx, job.Approx, job.Location, job.Events)
	metrics.RecordScoringLatency(float64(time.Since(rankStart).Milliseconds()))

	rec := repository.Record{
		ID:          job.RequestID,
		SubmittedAt: job.Submitted,
	}
	if err != nil {
		rec.Status = repository.StatusFailed
		rec.Error = err.Error()
		metrics.RecordRectificationFailed()
		metrics.RecordWorkerError()
		w.logger.Error(ctx, "ranking failed",
			logger.String("request_id", job.RequestID),
			logger.Error(err),
		)
	} else {
		rec.Status = repository.StatusCompleted
		rec.CompletedAt = time.Now().UTC()
		rec.Result = res
		metrics.RecordRectificationCompleted()
		for range res.Candidates {
			metrics.RecordCandidateScored()
		}
		for i := 0; i < len(job.Events); i++ {
			metrics.RecordEventScored()
		}
	}

	if perr := w.store.Put(ctx, rec); perr != nil {
		metrics.RecordWorkerError()
		w.logger.Error(ctx, "storing outcome failed",
			logger.String("request_id", job.RequestID),
			logger.Error(perr),
		)
		return fmt.Errorf("store outcome for %s: %w", job.RequestID, perr)
	}
	return err
}

// Pool manages multiple workers over a shared queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, ranker Ranker, store Recorder) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   queue,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		p.workers[i] = NewInMemoryWorker(
			queue,
			ranker,
			store,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	metrics.UpdateWorkerActiveCount(len(p.workers))
}

// Stop gracefully stops all workers without touching the queue.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		ctx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
		_ = w.Shutdown(ctx)
		cancel()
	}
	metrics.UpdateWorkerActiveCount(0)
}

// Shutdown closes the queue and waits for the workers to drain.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	metrics.UpdateWorkerActiveCount(0)
	return nil
}
