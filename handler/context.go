package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rangka/lumen/container"
)

// RouteInfo describes the route matched for the current request.
type RouteInfo struct {
	Method     string
	Pattern    string
	Name       string
	Uses       string
	Middleware []string
}

// UserResolver returns the authenticated user for a request, or nil.
type UserResolver func(r *http.Request) any

// Context carries the request-scoped state handed to actions and middleware.
// It embeds the request's context.Context.
type Context interface {
	context.Context
	Request() *http.Request
	// SetRequest replaces the request, e.g. after a middleware attached values
	// to its context.
	SetRequest(r *http.Request)
	Route() RouteInfo
	Params() Params
	Param(name string) string
	// User resolves the authenticated user through the configured resolver.
	// It returns nil when there is none.
	User() any
	// Services returns the application container.
	Services() *container.Container
}

// ContextOption configures a Context created by NewContext.
type ContextOption func(*httpContext)

// WithUserResolver sets the resolver used by Context.User.
func WithUserResolver(fn UserResolver) ContextOption {
	return func(c *httpContext) {
		c.user = fn
	}
}

// WithServices attaches the application container.
func WithServices(s *container.Container) ContextOption {
	return func(c *httpContext) {
		c.services = s
	}
}

// NewContext creates a Context for r. The context is stored in the request's
// context.Context so plain net/http code can recover it with FromRequest.
func NewContext(r *http.Request, opts ...ContextOption) Context {
	c := &httpContext{}
	for _, opt := range opts {
		opt(c)
	}
	c.SetRequest(r)
	return c
}

// BindRoute sets the matched route and its parameters on ctx.
// It is a no-op for Context implementations not created by NewContext.
func BindRoute(ctx Context, route RouteInfo, params Params) {
	if c, ok := ctx.(*httpContext); ok {
		c.route = route
		c.params = params
	}
}

type httpContext struct {
	r        *http.Request
	route    RouteInfo
	params   Params
	user     UserResolver
	services *container.Container
}

func (c *httpContext) Request() *http.Request {
	return c.r
}

func (c *httpContext) SetRequest(r *http.Request) {
	if r == nil {
		return
	}
	if existing, ok := r.Context().Value(contextKey).(Context); ok && existing == Context(c) {
		c.r = r
		return
	}
	c.r = r.WithContext(context.WithValue(r.Context(), contextKey, Context(c)))
}

func (c *httpContext) Route() RouteInfo {
	return c.route
}

func (c *httpContext) Params() Params {
	return c.params
}

func (c *httpContext) Param(name string) string {
	return c.params.Get(name, "")
}

func (c *httpContext) User() any {
	if c.user == nil {
		return nil
	}
	return c.user(c.r)
}

func (c *httpContext) Services() *container.Container {
	return c.services
}

// Delegate context.Context methods to the request's context
func (c *httpContext) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

func (c *httpContext) Done() <-chan struct{} {
	return c.r.Context().Done()
}

func (c *httpContext) Err() error {
	return c.r.Context().Err()
}

func (c *httpContext) Value(key any) any {
	return c.r.Context().Value(key)
}

var contextKey = NewContextKey("handler.context")

// FromRequest returns the Context attached to r by NewContext.
func FromRequest(r *http.Request) (Context, bool) {
	ctx, ok := r.Context().Value(contextKey).(Context)
	return ctx, ok
}

// ContextKey provides type-safe context keys to prevent key collisions.
// Should be created as package-level variables for consistent access.
type ContextKey struct{ name string }

// String returns a string representation of the context key for debugging.
func (c *ContextKey) String() string {
	return c.name
}

// NewContextKey creates a new context key.
// The name should be unique within your application.
func NewContextKey(name string) *ContextKey {
	return &ContextKey{name}
}

// ContextValue retrieves a typed value from the context.
// Returns the zero value of T if the key is not present or has a different type.
func ContextValue[T any](ctx context.Context, key any) T {
	val, _ := ctx.Value(key).(T)
	return val
}

// ContextValueOK retrieves a typed value from the context with an ok bool.
func ContextValueOK[T any](ctx context.Context, key any) (T, bool) {
	val, ok := ctx.Value(key).(T)
	return val, ok
}
