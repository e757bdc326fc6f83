package queue

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rangka/lumen/pkg/logger"
)

// Scheduler runs work on cron expressions. Expressions use the standard five
// fields, or six with a leading seconds field when WithSeconds is set.
type Scheduler struct {
	cron       *cron.Cron
	dispatcher *Dispatcher
	log        *slog.Logger
	ctx        context.Context
	cancel     context.CancelFunc
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*schedulerConfig)

type schedulerConfig struct {
	location *time.Location
	seconds  bool
	log      *slog.Logger
}

// WithLocation evaluates expressions in loc. The default is UTC.
func WithLocation(loc *time.Location) SchedulerOption {
	return func(c *schedulerConfig) {
		if loc != nil {
			c.location = loc
		}
	}
}

// WithSeconds enables the six-field format.
func WithSeconds() SchedulerOption {
	return func(c *schedulerConfig) { c.seconds = true }
}

// WithSchedulerLogger sets the logger.
func WithSchedulerLogger(l *slog.Logger) SchedulerOption {
	return func(c *schedulerConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// NewScheduler creates a scheduler. dispatcher may be nil when only Call is used.
func NewScheduler(dispatcher *Dispatcher, opts ...SchedulerOption) *Scheduler {
	cfg := &schedulerConfig{location: time.UTC, log: logger.Discard()}
	for _, opt := range opts {
		opt(cfg)
	}

	cl := cronLogger{log: cfg.log}
	cronOpts := []cron.Option{
		cron.WithLocation(cfg.location),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	}
	if cfg.seconds {
		cronOpts = append(cronOpts, cron.WithSeconds())
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:       cron.New(cronOpts...),
		dispatcher: dispatcher,
		log:        cfg.log,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Call runs fn on spec.
func (s *Scheduler) Call(spec, name string, fn func(ctx context.Context) error) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		if err := fn(s.ctx); err != nil {
			s.log.Error("scheduled task failed",
				slog.String("task", name),
				logger.Error(err),
				logger.Duration(time.Since(start)),
				logger.Component("scheduler"),
			)
			return
		}
		s.log.Debug("scheduled task finished",
			slog.String("task", name),
			logger.Duration(time.Since(start)),
			logger.Component("scheduler"),
		)
	})
	if err != nil {
		return 0, errors.Join(ErrInvalidSchedule, err)
	}
	return id, nil
}

// Job pushes payload through the dispatcher on spec.
func (s *Scheduler) Job(spec string, payload any, opts ...PushOption) (cron.EntryID, error) {
	if s.dispatcher == nil {
		return 0, ErrNilStorage
	}
	if payload == nil {
		return 0, ErrNilPayload
	}
	return s.Call(spec, JobName(payload), func(ctx context.Context) error {
		_, err := s.dispatcher.Push(ctx, payload, opts...)
		return err
	})
}

// Entries returns the number of scheduled entries.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// Next returns the next activation time of entry id.
func (s *Scheduler) Next(id cron.EntryID) time.Time {
	return s.cron.Entry(id).Next
}

// Run starts the scheduler and blocks until ctx is cancelled, then waits for
// running tasks.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	<-ctx.Done()
	s.cancel()
	<-s.cron.Stop().Done()
	return nil
}

type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(msg, append(keysAndValues, logger.Component("scheduler"))...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, append(keysAndValues, logger.Error(err), logger.Component("scheduler"))...)
}
