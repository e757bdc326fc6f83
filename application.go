package lumen

import (
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/rangka/lumen/container"
	"github.com/rangka/lumen/handler"
	"github.com/rangka/lumen/middleware"
	"github.com/rangka/lumen/pkg/config"
	"github.com/rangka/lumen/pkg/logger"
	"github.com/rangka/lumen/pkg/queue"
	"github.com/rangka/lumen/pkg/requestid"
	"github.com/rangka/lumen/router"
)

// Option configures an Application.
type Option func(*Application)

// WithConfig uses cfg instead of reading the environment.
func WithConfig(cfg Config) Option {
	return func(a *Application) {
		a.cfg = cfg
		a.cfgSet = true
	}
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(l *slog.Logger) Option {
	return func(a *Application) {
		if l != nil {
			a.baseLogger = l
		}
	}
}

// WithoutMiddleware disables global and route middleware, including terminate hooks.
func WithoutMiddleware() Option {
	return func(a *Application) {
		a.forceNoMiddleware = true
	}
}

// WithExceptionHandler replaces the default exception handler.
func WithExceptionHandler(eh handler.ExceptionHandler) Option {
	return func(a *Application) {
		a.exceptions = eh
	}
}

// Application ties the router, the middleware pipeline and the service container together.
type Application struct {
	cfg               Config
	cfgSet            bool
	forceNoMiddleware bool

	container  *container.Container
	config     *config.Repository
	router     *router.Router
	routeMW    *middleware.Registry
	global     []middleware.Entry
	dispatcher router.Dispatcher
	exceptions handler.ExceptionHandler

	logMu          sync.Mutex
	baseLogger     *slog.Logger
	logCustomizers []func(*slog.Logger) *slog.Logger

	queueStorage queue.Storage
	workerOpts   []queue.WorkerOption
	queueOnce    sync.Once
	worker       *queue.Worker
	queueErr     error
	scheduler    *queue.Scheduler

	providerMu sync.Mutex
	providers  map[reflect.Type]ServiceProvider
	order      []ServiceProvider
	booted     bool
	bootOnce   sync.Once
	bootErr    error
}

// New creates an application. Without WithConfig the configuration is read from
// the environment. YAML files in APP_CONFIG_PATH are loaded into the config
// repository under their base names ("auth.yaml" becomes "auth.*").
func New(opts ...Option) (*Application, error) {
	a := &Application{
		container: container.New(),
		config:    config.NewRepository(nil),
		routeMW:   middleware.NewRegistry(),
		providers: make(map[reflect.Type]ServiceProvider),
	}
	for _, opt := range opts {
		opt(a)
	}
	if !a.cfgSet {
		cfg, err := LoadConfig()
		if err != nil {
			return nil, err
		}
		a.cfg = cfg
	}
	if a.forceNoMiddleware {
		a.cfg.DisableMiddleware = true
	}
	if a.cfg.Env == "" {
		a.cfg.Env = DefaultEnvironment
	}

	if a.cfg.ConfigPath != "" {
		if err := a.loadConfigDir(a.cfg.ConfigPath); err != nil {
			return nil, err
		}
	}

	a.router = router.New(
		router.WithMiddleware(a.routeMW),
		router.WithExceptionHandler(exceptionProxy{a}),
	)
	a.dispatcher = a.router
	if a.queueStorage == nil {
		a.queueStorage = queue.NewMemoryStorage()
	}

	a.registerCoreBindings()
	if err := a.registerCoreMiddleware(); err != nil {
		return nil, err
	}
	return a, nil
}

// MustNew is New that panics on error.
func MustNew(opts ...Option) *Application {
	a, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return a
}

func (a *Application) loadConfigDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		if err := a.Configure(strings.TrimSuffix(e.Name(), ext)); err != nil {
			return err
		}
	}
	return nil
}

// Configure loads "<APP_CONFIG_PATH>/<name>.yaml" (or .yml) into the config
// repository under name.
func (a *Application) Configure(name string) error {
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(a.cfg.ConfigPath, name+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return a.config.LoadFile(name, path)
	}
	return ErrInvalidConfigFile
}

// Container returns the service container.
func (a *Application) Container() *container.Container { return a.container }

// Config returns the runtime config repository.
func (a *Application) Config() *config.Repository { return a.config }

// Settings returns the environment configuration.
func (a *Application) Settings() Config { return a.cfg }

// Router returns the route table.
func (a *Application) Router() *router.Router { return a.router }

// Logger returns the application logger with every ConfigureLoggerUsing
// customization applied.
func (a *Application) Logger() *slog.Logger {
	l, err := container.Resolve[*slog.Logger](a.container, container.Log)
	if err != nil {
		return logger.Discard()
	}
	return l
}

// ConfigureLoggerUsing registers fn to customize the application logger. The
// logger is rebuilt on next use.
func (a *Application) ConfigureLoggerUsing(fn func(*slog.Logger) *slog.Logger) {
	if fn == nil {
		return
	}
	a.logMu.Lock()
	a.logCustomizers = append(a.logCustomizers, fn)
	a.logMu.Unlock()
	a.container.Forget(container.Log)
}

func (a *Application) buildLogger() *slog.Logger {
	a.logMu.Lock()
	defer a.logMu.Unlock()

	l := a.baseLogger
	if l == nil {
		l = logger.New(
			logger.WithEnvironment(a.cfg.Env, a.cfg.Name),
			logger.WithContextExtractors(requestid.LoggerExtractor()),
			logger.WithOutput(os.Stderr),
		)
	}
	for _, fn := range a.logCustomizers {
		if next := fn(l); next != nil {
			l = next
		}
	}
	return l
}
