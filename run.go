package lumen

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rangka/lumen/pkg/httpserver"
	"github.com/rangka/lumen/pkg/logger"
	"github.com/rangka/lumen/pkg/queue"
)

// RunOption configures Run.
type RunOption func(*runConfig)

type runConfig struct {
	listener  net.Listener
	serveHTTP bool
	worker    bool
	scheduler bool
	server    []httpserver.Option
	signals   bool
}

// WithListener serves on ln instead of HTTP_ADDR.
func WithListener(ln net.Listener) RunOption {
	return func(c *runConfig) { c.listener = ln }
}

// WithoutHTTP skips the HTTP server, e.g. for a worker-only process.
func WithoutHTTP() RunOption {
	return func(c *runConfig) { c.serveHTTP = false }
}

// WithoutWorker skips the queue worker even when handlers are registered.
func WithoutWorker() RunOption {
	return func(c *runConfig) { c.worker = false }
}

// WithoutScheduler skips the cron scheduler even when entries are scheduled.
func WithoutScheduler() RunOption {
	return func(c *runConfig) { c.scheduler = false }
}

// WithServerOptions passes options to the HTTP server.
func WithServerOptions(opts ...httpserver.Option) RunOption {
	return func(c *runConfig) { c.server = append(c.server, opts...) }
}

// WithoutSignals disables stopping on SIGINT and SIGTERM.
func WithoutSignals() RunOption {
	return func(c *runConfig) { c.signals = false }
}

// Run boots the application and serves HTTP, processes queued jobs and runs
// scheduled tasks until ctx is cancelled or SIGINT/SIGTERM arrives. The worker
// only runs when job handlers are registered and the scheduler only when it
// has entries. The first component to fail stops the others.
func (a *Application) Run(ctx context.Context, opts ...RunOption) error {
	rc := &runConfig{serveHTTP: true, worker: true, scheduler: true, signals: true}
	for _, opt := range opts {
		opt(rc)
	}

	if err := a.Boot(); err != nil {
		return err
	}
	if err := a.router.Compile(); err != nil {
		return err
	}

	if rc.signals {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
	}

	log := a.Logger()
	g, ctx := errgroup.WithContext(ctx)
	started := 0

	if rc.serveHTTP {
		started++
		srv := httpserver.NewFromConfig(a.cfg.HTTP, append([]httpserver.Option{httpserver.WithLogger(log)}, rc.server...)...)
		g.Go(func() error {
			if rc.listener != nil {
				return srv.Serve(ctx, rc.listener, a)
			}
			return srv.Run(ctx, a)
		})
	}

	if err := a.initQueue(); err != nil {
		return err
	}

	if w := a.Worker(); rc.worker && w.HasHandlers() {
		started++
		g.Go(func() error {
			if err := w.Run(ctx); err != nil && !errors.Is(err, queue.ErrNoHandlers) {
				return err
			}
			return nil
		})
	}

	if s := a.Scheduler(); rc.scheduler && s.Entries() > 0 {
		started++
		g.Go(func() error { return s.Run(ctx) })
	}

	if started == 0 {
		return ErrNothingToRun
	}

	log.InfoContext(ctx, "application started",
		logger.Component("app"),
	)
	err := g.Wait()
	if errors.Is(err, http.ErrServerClosed) || errors.Is(err, context.Canceled) {
		err = nil
	}
	log.Info("application stopped", logger.Error(err), logger.Component("app"))
	return err
}
