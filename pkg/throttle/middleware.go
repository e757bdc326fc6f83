package throttle

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rangka/lumen/handler"
	"github.com/rangka/lumen/middleware"
)

// Defaults used when "throttle" has no parameters.
const (
	DefaultAttempts = 60
	DefaultDecay    = time.Minute
)

// Option configures Middleware.
type Option func(*throttler)

// WithKeyFunc replaces Signature.
func WithKeyFunc(fn KeyFunc) Option {
	return func(t *throttler) {
		if fn != nil {
			t.key = fn
		}
	}
}

// WithPrefix namespaces bucket keys.
func WithPrefix(prefix string) Option {
	return func(t *throttler) { t.prefix = prefix }
}

type throttler struct {
	store  Store
	key    KeyFunc
	prefix string

	mu       sync.Mutex
	limiters map[Config]*Limiter
}

// Middleware returns the "throttle" route middleware. Parameters are
// "attempts,minutes" and default to 60 attempts per minute. Store failures
// let the request through.
func Middleware(store Store, opts ...Option) middleware.Middleware {
	t := &throttler{store: store, key: Signature, limiters: make(map[Config]*Limiter)}
	for _, opt := range opts {
		opt(t)
	}
	return middleware.Func(t.handle)
}

func (t *throttler) handle(ctx handler.Context, next middleware.Next, params ...string) *handler.Response {
	cfg, err := parseParams(params)
	if err != nil {
		return handler.TextWithStatus(http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
	limiter, err := t.limiter(cfg)
	if err != nil {
		return handler.TextWithStatus(http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}

	key := t.key(ctx)
	if key == "" {
		return next(ctx)
	}
	// Distinct limits on the same client keep distinct buckets.
	key = fmt.Sprintf("%s%s:%d:%d", t.prefix, key, cfg.Capacity, cfg.RefillInterval/time.Second)

	res, err := limiter.Allow(ctx.Request().Context(), key)
	if err != nil {
		return next(ctx)
	}

	if !res.Allowed() {
		resp := handler.TextWithStatus("Too Many Attempts.", http.StatusTooManyRequests)
		retry := max(int(res.RetryAfter().Round(time.Second)/time.Second), 1)
		resp.Header().Set("Retry-After", strconv.Itoa(retry))
		resp.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
		setLimitHeaders(resp, res)
		return resp
	}

	resp := next(ctx)
	setLimitHeaders(resp, res)
	return resp
}

func setLimitHeaders(resp *handler.Response, res Result) {
	resp.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
	resp.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(res.Remaining, 0)))
}

func (t *throttler) limiter(cfg Config) (*Limiter, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if l, ok := t.limiters[cfg]; ok {
		return l, nil
	}
	l, err := NewLimiter(t.store, cfg)
	if err != nil {
		return nil, err
	}
	t.limiters[cfg] = l
	return l, nil
}

func parseParams(params []string) (Config, error) {
	attempts, decay := DefaultAttempts, DefaultDecay
	if len(params) > 0 && params[0] != "" {
		n, err := strconv.Atoi(params[0])
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("%w: attempts %q", ErrInvalidParameters, params[0])
		}
		attempts = n
	}
	if len(params) > 1 && params[1] != "" {
		minutes, err := strconv.ParseFloat(params[1], 64)
		if err != nil || minutes <= 0 {
			return Config{}, fmt.Errorf("%w: decay %q", ErrInvalidParameters, params[1])
		}
		decay = time.Duration(minutes * float64(time.Minute))
	}
	return PerWindow(attempts, decay), nil
}
