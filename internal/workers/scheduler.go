package workers

import (
	"context"
	"sync"
	"time"

	"mindshare/internal/metrics"
	"mindshare/pkg/errors"
	"mindshare/pkg/logger"
)

// healthRecorder is implemented by workers that track their own run history
type healthRecorder interface {
	RecordRun(duration time.Duration)
	RecordError(err error, duration time.Duration)
}

// failureReporter is the slice of the event publisher the scheduler uses
// to surface worker failures to downstream consumers
type failureReporter interface {
	PublishWorkerFailed(ctx context.Context, workerName string, failure error, failCount int, lastSuccess *time.Time) error
}

// Scheduler manages and coordinates multiple workers
type Scheduler struct {
	workers  []Worker
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.RWMutex
	log      *logger.Logger
	reporter failureReporter
	started  bool
}

// NewScheduler creates a new worker scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{
		workers: make([]Worker, 0),
		log:     logger.Get(),
		started: false,
	}
}

// SetFailureReporter attaches an event publisher notified on every failed
// worker pass. Must be called before Start.
func (s *Scheduler) SetFailureReporter(r failureReporter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		s.log.Warn("Cannot set failure reporter after scheduler has started")
		return
	}
	s.reporter = r
}

// RegisterWorker adds a worker to the scheduler
func (s *Scheduler) RegisterWorker(w Worker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		s.log.Warn("Cannot register worker after scheduler has started", "worker", w.Name())
		return
	}

	s.workers = append(s.workers, w)
	s.log.Info("Worker registered", "worker", w.Name(), "interval", w.Interval())
}

// Start begins running all registered workers
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.Wrapf(errors.ErrInternal, "scheduler already started")
	}

	s.started = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.log.Info("Starting worker scheduler", "workers", len(s.workers))

	for _, worker := range s.workers {
		if !worker.Enabled() {
			s.log.Info("Skipping disabled worker", "worker", worker.Name())
			continue
		}

		s.wg.Add(1)
		go s.runWorker(worker)
	}

	s.log.Info("All workers started")
	return nil
}

// Stop gracefully shuts down all workers. The timeout covers a full
// collection cycle so an in-flight Twitter search can finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return errors.Wrapf(errors.ErrInternal, "scheduler not started")
	}

	s.cancel()
	s.mu.Unlock()

	s.log.Info("Stopping worker scheduler...")

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	var shutdownErr error
	select {
	case <-done:
		s.log.Info("All workers stopped gracefully")
	case <-time.After(30 * time.Second):
		s.log.Warn("Worker shutdown timed out after 30 seconds")
		shutdownErr = errors.Wrapf(errors.ErrInternal, "shutdown timeout after 30 seconds")
	}

	s.mu.Lock()
	s.started = false
	s.mu.Unlock()

	return shutdownErr
}

// runWorker executes a single worker in a loop
func (s *Scheduler) runWorker(worker Worker) {
	defer s.wg.Done()

	s.log.Info("Worker started", "worker", worker.Name())

	ticker := time.NewTicker(worker.Interval())
	defer ticker.Stop()

	// Run immediately on start
	s.executeWorker(worker)

	for {
		select {
		case <-s.ctx.Done():
			s.log.Info("Worker stopping due to context cancellation", "worker", worker.Name())
			return

		case <-ticker.C:
			s.executeWorker(worker)
		}
	}
}

// executeWorker runs a single iteration of the worker with error handling
func (s *Scheduler) executeWorker(worker Worker) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Worker panicked",
				"worker", worker.Name(),
				"panic", r,
			)
		}
	}()

	err := worker.Run(s.ctx)
	duration := time.Since(start)

	metrics.RecordWorkerExecution(worker.Name(), duration, err)

	if recorder, ok := worker.(healthRecorder); ok {
		if err != nil {
			recorder.RecordError(err, duration)
		} else {
			recorder.RecordRun(duration)
		}
	}

	if err != nil {
		s.log.Error("Worker execution failed",
			"worker", worker.Name(),
			"error", err,
			"duration", duration,
		)
		s.reportFailure(worker, err)
	} else {
		s.log.Debug("Worker execution completed",
			"worker", worker.Name(),
			"duration", duration,
		)
	}
}

// reportFailure publishes a worker failure event carrying the current
// failure streak, so consumers can distinguish a blip from an outage
func (s *Scheduler) reportFailure(worker Worker, failure error) {
	if s.reporter == nil {
		return
	}

	failCount := 1
	var lastSuccess *time.Time
	if hw, ok := worker.(WorkerWithHealth); ok {
		health := hw.Health()
		failCount = int(health.ConsecutiveErrors)
		if !health.LastSuccess.IsZero() {
			ls := health.LastSuccess
			lastSuccess = &ls
		}
	}

	if err := s.reporter.PublishWorkerFailed(s.ctx, worker.Name(), failure, failCount, lastSuccess); err != nil {
		s.log.Warn("Failed to publish worker failure event", "worker", worker.Name(), "error", err)
	}
}

// GetWorkers returns a list of all registered workers (for debugging/monitoring)
func (s *Scheduler) GetWorkers() []Worker {
	s.mu.RLock()
	defer s.mu.RUnlock()

	workers := make([]Worker, len(s.workers))
	copy(workers, s.workers)
	return workers
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}
