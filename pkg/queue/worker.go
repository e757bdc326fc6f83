package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rangka/lumen/pkg/logger"
)

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithQueues sets the queues the worker reserves from, in no particular order.
func WithQueues(queues ...string) WorkerOption {
	return func(w *Worker) {
		if len(queues) > 0 {
			w.queues = queues
		}
	}
}

// WithPollInterval sets how often an idle worker polls storage.
func WithPollInterval(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithLease sets how long a reservation lasts and bounds each handler call.
func WithLease(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.lease = d
		}
	}
}

// WithConcurrency sets how many jobs run at the same time.
func WithConcurrency(n int) WorkerOption {
	return func(w *Worker) {
		if n > 0 {
			w.concurrency = n
		}
	}
}

// WithBackoff sets the release delay for a failed attempt.
func WithBackoff(fn func(attempt int) time.Duration) WorkerOption {
	return func(w *Worker) {
		if fn != nil {
			w.backoff = fn
		}
	}
}

// WithLogger sets the worker's logger.
func WithLogger(l *slog.Logger) WorkerOption {
	return func(w *Worker) {
		if l != nil {
			w.log = l
		}
	}
}

// Worker reserves jobs and runs their handlers.
type Worker struct {
	storage      Storage
	queues       []string
	pollInterval time.Duration
	lease        time.Duration
	concurrency  int
	backoff      func(attempt int) time.Duration
	log          *slog.Logger

	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewWorker creates a worker reading from DefaultQueue.
func NewWorker(storage Storage, opts ...WorkerOption) (*Worker, error) {
	if storage == nil {
		return nil, ErrNilStorage
	}
	w := &Worker{
		storage:      storage,
		queues:       []string{DefaultQueue},
		pollInterval: time.Second,
		lease:        5 * time.Minute,
		concurrency:  1,
		backoff:      func(attempt int) time.Duration { return time.Duration(attempt) * 30 * time.Second },
		log:          logger.Discard(),
		handlers:     make(map[string]Handler),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Register adds handlers, replacing any with the same name.
func (w *Worker) Register(handlers ...Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, h := range handlers {
		if h != nil {
			w.handlers[h.Name()] = h
		}
	}
}

// HasHandlers reports whether any handler is registered.
func (w *Worker) HasHandlers() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.handlers) > 0
}

// Run processes jobs until ctx is cancelled and waits for running jobs before
// returning. It returns nil on cancellation.
func (w *Worker) Run(ctx context.Context) error {
	if !w.HasHandlers() {
		return ErrNoHandlers
	}

	w.log.InfoContext(ctx, "queue worker started",
		slog.Any("queues", w.queues),
		slog.Int("concurrency", w.concurrency),
		logger.Component("queue"),
	)

	sem := make(chan struct{}, w.concurrency)
	var wg sync.WaitGroup
	defer wg.Wait()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("queue worker stopping", logger.Component("queue"))
			return nil
		case sem <- struct{}{}:
		}

		job, err := w.storage.Reserve(ctx, w.queues, w.lease)
		if err != nil {
			<-sem
			if !errors.Is(err, ErrNoJob) {
				w.log.ErrorContext(ctx, "queue reserve failed", logger.Error(err), logger.Component("queue"))
			}
			select {
			case <-ctx.Done():
			case <-ticker.C:
			}
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			// running jobs finish even when the worker is stopping
			if err := w.run(context.WithoutCancel(ctx), job); err != nil && !errors.Is(err, ErrHandlerNotFound) {
				w.log.Error("queue storage update failed", logger.Job(job.Name, job.ID.String()), logger.Error(err), logger.Component("queue"))
			}
		}()
	}
}

// Process reserves and runs one job. It reports whether a job was reserved.
func (w *Worker) Process(ctx context.Context) (bool, error) {
	job, err := w.storage.Reserve(ctx, w.queues, w.lease)
	if errors.Is(err, ErrNoJob) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, w.run(ctx, job)
}

func (w *Worker) run(ctx context.Context, job *Job) error {
	w.mu.RLock()
	h, ok := w.handlers[job.Name]
	w.mu.RUnlock()

	if !ok {
		reason := ErrHandlerNotFound.Error() + ": " + job.Name
		w.log.ErrorContext(ctx, "no handler for job", logger.Job(job.Name, job.ID.String()), logger.Component("queue"))
		if err := w.storage.Bury(ctx, job.ID, reason); err != nil {
			return err
		}
		return ErrHandlerNotFound
	}

	start := time.Now()
	execErr := w.call(ctx, h, job)
	attrs := []any{
		logger.Job(job.Name, job.ID.String()),
		logger.Attempt(job.Attempts),
		logger.Duration(time.Since(start)),
		logger.Component("queue"),
	}

	if execErr == nil {
		w.log.InfoContext(ctx, "job processed", attrs...)
		return w.storage.Complete(ctx, job.ID)
	}

	w.log.ErrorContext(ctx, "job failed", append(attrs, logger.Error(execErr))...)
	if job.Exhausted() {
		return w.storage.Bury(ctx, job.ID, execErr.Error())
	}
	return w.storage.Release(ctx, job.ID, execErr.Error(), w.backoff(job.Attempts))
}

func (w *Worker) call(ctx context.Context, h Handler, job *Job) (err error) {
	ctx, cancel := context.WithTimeout(ctx, w.lease)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("queue: handler panicked: %v", rec)
		}
	}()
	return h.Handle(ctx, job.Payload)
}
