package lumen

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/rangka/lumen/container"
	"github.com/rangka/lumen/pkg/auth"
	"github.com/rangka/lumen/pkg/cache"
	"github.com/rangka/lumen/pkg/encrypter"
	"github.com/rangka/lumen/pkg/events"
	"github.com/rangka/lumen/pkg/jwt"
	"github.com/rangka/lumen/pkg/logger"
	"github.com/rangka/lumen/pkg/metrics"
	"github.com/rangka/lumen/pkg/queue"
	"github.com/rangka/lumen/pkg/redis"
	"github.com/rangka/lumen/pkg/session"
	"github.com/rangka/lumen/pkg/throttle"
	"github.com/rangka/lumen/pkg/validation"
	"github.com/rangka/lumen/router"
)

// Config repository keys read by the core bindings.
const (
	KeyAuthDefaultGuard = "auth.defaults.guard"
	KeyAuthGuards       = "auth.guards"
	KeyCacheDriver      = "cache.default"
	KeyCacheTTL         = "cache.ttl"
	KeyCachePrefix      = "cache.prefix"
	KeyCacheCapacity    = "cache.capacity"
	KeySessionDriver    = "session.driver"
	KeySessionCookie    = "session.cookie"
	KeySessionLifetime  = "session.lifetime"
	KeySessionSecure    = "session.secure"
	KeySessionEncrypt   = "session.encrypt"
	KeySessionPrefix    = "session.prefix"
	KeyQueueDefault     = "queue.default"
	KeyQueueTries       = "queue.tries"
	KeyQueueConcurrency = "queue.concurrency"
	KeyHashRounds       = "hashing.rounds"
	KeyJWTTTL           = "jwt.ttl"
	KeyMetricsNamespace = "metrics.namespace"
	KeyMetricsRuntime   = "metrics.runtime"
	KeyThrottleDriver   = "throttle.driver"
	KeyThrottlePrefix   = "throttle.prefix"
)

const (
	driverMemory = "memory"
	driverRedis  = "redis"
	driverJWT    = "jwt"
)

func (a *Application) registerCoreBindings() {
	c := a.container

	c.Instance(container.Config, a.config)
	c.Instance(container.Router, a.router)
	_ = c.Bind(container.Log, func(container.Resolver) (any, error) {
		return a.buildLogger(), nil
	})
	_ = c.Bind(container.URL, func(container.Resolver) (any, error) {
		return router.NewURLGenerator(a.router, a.cfg.URL), nil
	})
	_ = c.Bind(container.Encrypter, func(container.Resolver) (any, error) {
		return encrypter.New(a.cfg.Key)
	})
	_ = c.Bind(container.Hash, func(container.Resolver) (any, error) {
		return auth.NewBcryptHasher(a.config.Int(KeyHashRounds, 0)), nil
	})
	_ = c.Bind(container.JWT, func(container.Resolver) (any, error) {
		issuer := a.cfg.URL
		if issuer == "" {
			issuer = a.cfg.Name
		}
		return jwt.NewFromString(a.cfg.Key,
			jwt.WithIssuer(issuer),
			jwt.WithTTL(a.config.Duration(KeyJWTTTL, jwt.DefaultTTL)),
		)
	})
	_ = c.Bind(container.Auth, a.makeAuth)
	_ = c.Bind(container.Redis, func(container.Resolver) (any, error) {
		return redis.Connect(context.Background(), a.cfg.Redis)
	})
	_ = c.Bind(container.Cache, a.makeCache)
	_ = c.Bind(container.Session, a.makeSession)
	_ = c.Bind(container.Queue, func(container.Resolver) (any, error) {
		return queue.NewDispatcher(a.queueStorage,
			queue.OnQueue(a.config.String(KeyQueueDefault, queue.DefaultQueue)),
			queue.WithMaxAttempts(a.config.Int(KeyQueueTries, queue.DefaultMaxAttempts)),
		)
	})
	_ = c.Bind(container.Validator, func(container.Resolver) (any, error) {
		return validation.Default(), nil
	})
	_ = c.Bind(container.Throttle, a.makeThrottle)
	_ = c.Bind(container.Events, func(r container.Resolver) (any, error) {
		log, err := container.Resolve[*slog.Logger](r, container.Log)
		if err != nil {
			return nil, err
		}
		return events.New(events.WithLogger(log)), nil
	})
	_ = c.Bind(container.Metrics, func(container.Resolver) (any, error) {
		opts := []metrics.Option{metrics.WithNamespace(a.config.String(KeyMetricsNamespace, "lumen"))}
		if a.config.Bool(KeyMetricsRuntime, false) {
			opts = append(opts, metrics.WithRuntimeMetrics())
		}
		if a.cfg.Name != "" {
			opts = append(opts, metrics.WithConstLabels(map[string]string{"app": a.cfg.Name}))
		}
		return metrics.New(opts...), nil
	})
}

// makeAuth builds the guard manager. Guards configured with driver "jwt" are
// registered automatically; other drivers are expected to be added with
// ViaRequest or Extend.
func (a *Application) makeAuth(r container.Resolver) (any, error) {
	m := auth.NewManager(a.config.String(KeyAuthDefaultGuard, "api"))

	guards, _ := a.config.Get(KeyAuthGuards, nil).(map[string]any)
	for name, raw := range guards {
		settings, _ := raw.(map[string]any)
		if driver, _ := settings["driver"].(string); driver != driverJWT {
			continue
		}
		svc, err := container.Resolve[*jwt.Service](r, container.JWT)
		if err != nil {
			return nil, err
		}
		if err := m.Extend(name, auth.NewJWTGuard(svc)); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (a *Application) makeCache(r container.Resolver) (any, error) {
	ttl := a.config.Duration(KeyCacheTTL, time.Hour)

	switch driver := a.config.String(KeyCacheDriver, driverMemory); driver {
	case driverMemory:
		return cache.NewRepository(cache.NewMemoryStore(a.config.Int(KeyCacheCapacity, cache.DefaultMemoryCapacity)), ttl), nil
	case driverRedis:
		client, err := container.Resolve[goredis.UniversalClient](r, container.Redis)
		if err != nil {
			return nil, err
		}
		return cache.NewRepository(cache.NewRedisStore(client, a.config.String(KeyCachePrefix, "lumen_cache:")), ttl), nil
	default:
		return nil, fmt.Errorf("%w: cache %q", ErrUnknownDriver, driver)
	}
}

func (a *Application) makeSession(r container.Resolver) (any, error) {
	var store session.Store
	switch driver := a.config.String(KeySessionDriver, driverMemory); driver {
	case driverMemory:
		store = session.NewMemoryStore()
	case driverRedis:
		client, err := container.Resolve[goredis.UniversalClient](r, container.Redis)
		if err != nil {
			return nil, err
		}
		store = session.NewRedisStore(client, a.config.String(KeySessionPrefix, "lumen_session:"))
	default:
		return nil, fmt.Errorf("%w: session %q", ErrUnknownDriver, driver)
	}

	transport := session.NewCookieTransport(
		a.config.String(KeySessionCookie, "lumen_session"),
		a.config.Bool(KeySessionSecure, false),
	)
	if a.cfg.Key != "" && a.config.Bool(KeySessionEncrypt, true) {
		enc, err := container.Resolve[*encrypter.Encrypter](r, container.Encrypter)
		if err != nil {
			return nil, err
		}
		transport.Cipher = enc
	}

	return session.NewManager(
		session.WithStore(store),
		session.WithTransport(transport),
		session.WithTTL(a.config.Duration(KeySessionLifetime, session.DefaultTTL)),
	), nil
}

// makeThrottle picks the rate limit store. It follows the cache driver
// unless throttle.driver is set.
func (a *Application) makeThrottle(r container.Resolver) (any, error) {
	switch driver := a.config.String(KeyThrottleDriver, a.config.String(KeyCacheDriver, driverMemory)); driver {
	case driverMemory:
		return throttle.NewMemoryStore(), nil
	case driverRedis:
		client, err := container.Resolve[goredis.UniversalClient](r, container.Redis)
		if err != nil {
			return nil, err
		}
		return throttle.NewRedisStore(client, a.config.String(KeyThrottlePrefix, "lumen_throttle:")), nil
	default:
		return nil, fmt.Errorf("%w: throttle %q", ErrUnknownDriver, driver)
	}
}

// Events returns the event dispatcher.
func (a *Application) Events() (*events.Dispatcher, error) {
	return container.Resolve[*events.Dispatcher](a.container, container.Events)
}

// Auth returns the guard manager.
func (a *Application) Auth() (*auth.Manager, error) {
	return container.Resolve[*auth.Manager](a.container, container.Auth)
}

// Cache returns the cache repository.
func (a *Application) Cache() (*cache.Repository, error) {
	return container.Resolve[*cache.Repository](a.container, container.Cache)
}

// Session returns the session manager.
func (a *Application) Session() (*session.Manager, error) {
	return container.Resolve[*session.Manager](a.container, container.Session)
}

// Queue returns the job dispatcher.
func (a *Application) Queue() (*queue.Dispatcher, error) {
	return container.Resolve[*queue.Dispatcher](a.container, container.Queue)
}

// JWT returns the token service. It fails when APP_KEY is empty.
func (a *Application) JWT() (*jwt.Service, error) {
	return container.Resolve[*jwt.Service](a.container, container.JWT)
}

// Encrypter returns the APP_KEY encrypter.
func (a *Application) Encrypter() (*encrypter.Encrypter, error) {
	return container.Resolve[*encrypter.Encrypter](a.container, container.Encrypter)
}

// Hash returns the password hasher.
func (a *Application) Hash() (auth.Hasher, error) {
	return container.Resolve[auth.Hasher](a.container, container.Hash)
}

// Validator returns the validator.
func (a *Application) Validator() (*validation.Validator, error) {
	return container.Resolve[*validation.Validator](a.container, container.Validator)
}

// Metrics returns the Prometheus collector.
func (a *Application) Metrics() (*metrics.Collector, error) {
	return container.Resolve[*metrics.Collector](a.container, container.Metrics)
}

// URLs returns the URL generator.
func (a *Application) URLs() *router.URLGenerator {
	g, err := container.Resolve[*router.URLGenerator](a.container, container.URL)
	if err != nil {
		return router.NewURLGenerator(a.router, a.cfg.URL)
	}
	return g
}

// Worker returns the queue worker, creating it on first use. Handlers are
// registered on it with Register. It is nil when the worker could not be
// built; Run returns that error.
func (a *Application) Worker() *queue.Worker {
	_ = a.initQueue()
	return a.worker
}

// Scheduler returns the cron scheduler, creating it on first use.
func (a *Application) Scheduler() *queue.Scheduler {
	_ = a.initQueue()
	return a.scheduler
}

// WithWorkerOptions adds options applied when the queue worker is created.
func WithWorkerOptions(opts ...queue.WorkerOption) Option {
	return func(a *Application) {
		a.workerOpts = append(a.workerOpts, opts...)
	}
}

// WithQueueStorage replaces the in-memory job storage.
func WithQueueStorage(s queue.Storage) Option {
	return func(a *Application) {
		if s != nil {
			a.queueStorage = s
		}
	}
}

// initQueue builds the worker and scheduler once. The error is memoized and
// returned by Run.
func (a *Application) initQueue() error {
	a.queueOnce.Do(func() {
		log := a.Logger()
		opts := append([]queue.WorkerOption{
			queue.WithLogger(log),
			queue.WithConcurrency(a.config.Int(KeyQueueConcurrency, 1)),
			queue.WithQueues(a.config.String(KeyQueueDefault, queue.DefaultQueue)),
		}, a.workerOpts...)

		a.worker, a.queueErr = queue.NewWorker(a.queueStorage, opts...)
		if a.queueErr != nil {
			log.Error("queue worker unavailable", logger.Error(a.queueErr), logger.Component("queue"))
		}
		d, err := a.Queue()
		if err != nil {
			log.Error("queue dispatcher unavailable", logger.Error(err), logger.Component("queue"))
		}
		a.scheduler = queue.NewScheduler(d, queue.WithSchedulerLogger(log))
	})
	return a.queueErr
}
