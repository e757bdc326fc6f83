package lumen

import (
	"errors"
	"net/http"
	"sync"

	"github.com/rangka/lumen/container"
	"github.com/rangka/lumen/handler"
	"github.com/rangka/lumen/middleware"
	"github.com/rangka/lumen/pkg/auth"
	"github.com/rangka/lumen/pkg/jwt"
	"github.com/rangka/lumen/pkg/logger"
	"github.com/rangka/lumen/pkg/requestid"
	"github.com/rangka/lumen/pkg/session"
	"github.com/rangka/lumen/pkg/throttle"
	"github.com/rangka/lumen/router"
)

// Built-in route middleware names.
const (
	MiddlewareAuth      = "auth"
	MiddlewareSession   = "session"
	MiddlewareJWT       = "jwt"
	MiddlewareRequestID = "requestid"
	MiddlewareMetrics   = "metrics"
	MiddlewareThrottle  = "throttle"
)

// Middleware appends global middleware. Entries use the route middleware
// syntax ("name:p1,p2", "a|b") and resolve through the route middleware map
// on every request.
func (a *Application) Middleware(specs ...string) {
	a.global = append(a.global, middleware.ParseAll(specs...)...)
}

// RouteMiddleware registers named middleware, replacing existing names.
func (a *Application) RouteMiddleware(items map[string]middleware.Middleware) error {
	for name, mw := range items {
		if err := a.routeMW.Register(name, mw); err != nil {
			return err
		}
	}
	return nil
}

// Use registers mw under name and appends it to the global middleware.
func (a *Application) Use(name string, mw middleware.Middleware, params ...string) error {
	if err := a.routeMW.Register(name, mw); err != nil {
		return err
	}
	a.global = append(a.global, middleware.Entry{Name: name, Params: params})
	return nil
}

// SetDispatcher replaces the router as the request dispatcher.
func (a *Application) SetDispatcher(d router.Dispatcher) {
	if d != nil {
		a.dispatcher = d
	}
}

// SetExceptionHandler replaces the exception handler.
func (a *Application) SetExceptionHandler(eh handler.ExceptionHandler) {
	a.exceptions = eh
}

// Handle runs r through the global middleware and the dispatcher and returns
// the buffered response. Terminable middleware runs before Handle returns.
func (a *Application) Handle(r *http.Request) *handler.Response {
	ctx := handler.NewContext(r,
		handler.WithUserResolver(a.resolveUser),
		handler.WithServices(a.container),
	)
	trace := middleware.Attach(ctx, a.cfg.DisableMiddleware)

	eh := exceptionProxy{a}
	if err := a.Boot(); err != nil {
		return middleware.NewPipeline(eh).Fail(ctx, err)
	}

	var stages []middleware.Stage
	if !trace.Disabled() {
		var err error
		if stages, err = a.routeMW.Resolve(a.global); err != nil {
			return middleware.NewPipeline(eh).Fail(ctx, err)
		}
	}

	resp := middleware.NewPipeline(eh, stages...).Then(ctx, a.dispatcher.Dispatch)
	trace.Terminate(ctx, resp, func(err error) { eh.Report(ctx, err) })
	a.requestHandled(ctx, resp)
	return resp
}

// RequestHandled is dispatched after every request handled by the application.
type RequestHandled struct {
	Context  handler.Context
	Response *handler.Response
}

// EventName implements events.Named.
func (RequestHandled) EventName() string { return "lumen.request_handled" }

func (a *Application) requestHandled(ctx handler.Context, resp *handler.Response) {
	d, err := a.Events()
	if err != nil || !d.HasListeners(RequestHandled{}.EventName()) {
		return
	}
	if err := d.Dispatch(ctx.Request().Context(), RequestHandled{Context: ctx, Response: resp}); err != nil {
		eh := exceptionProxy{a}
		eh.Report(ctx, err)
	}
}

// ServeHTTP implements http.Handler.
func (a *Application) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := a.Handle(r)
	if err := resp.Render(w, r); err != nil {
		a.Logger().ErrorContext(r.Context(), "write response",
			logger.Error(err),
			logger.RequestID(requestid.FromContext(r.Context())),
			logger.Component("http"),
		)
	}
}

func (a *Application) resolveUser(r *http.Request) any {
	m, err := a.Auth()
	if err != nil {
		return nil
	}
	return m.Resolver()(r)
}

func (a *Application) exceptionHandler() handler.ExceptionHandler {
	if a.exceptions != nil {
		return a.exceptions
	}
	return handler.NewExceptionHandler(a.Logger(), a.cfg.Debug)
}

// exceptionProxy defers to the application's current exception handler, so
// the router keeps working when the handler or the logger is replaced.
type exceptionProxy struct {
	a *Application
}

func (p exceptionProxy) Report(ctx handler.Context, err error) {
	p.a.exceptionHandler().Report(ctx, err)
}

func (p exceptionProxy) Render(ctx handler.Context, err error) *handler.Response {
	return p.a.exceptionHandler().Render(ctx, err)
}

func (a *Application) registerCoreMiddleware() error {
	return a.RouteMiddleware(map[string]middleware.Middleware{
		MiddlewareRequestID: middleware.FromHTTP(requestid.Middleware),
		MiddlewareAuth: a.lazy(func() (middleware.Middleware, error) {
			m, err := a.Auth()
			if err != nil {
				return nil, err
			}
			return auth.Authenticate(m), nil
		}),
		MiddlewareSession: a.lazy(func() (middleware.Middleware, error) {
			m, err := a.Session()
			if err != nil {
				return nil, err
			}
			return session.Middleware(m), nil
		}),
		MiddlewareJWT: a.lazy(func() (middleware.Middleware, error) {
			svc, err := container.Resolve[*jwt.Service](a.container, container.JWT)
			if err != nil {
				return nil, err
			}
			return middleware.FromHTTP(jwt.Middleware(svc)), nil
		}),
		MiddlewareThrottle: a.lazy(func() (middleware.Middleware, error) {
			store, err := container.Resolve[throttle.Store](a.container, container.Throttle)
			if err != nil {
				return nil, err
			}
			return throttle.Middleware(store), nil
		}),
		MiddlewareMetrics: a.lazy(func() (middleware.Middleware, error) {
			c, err := a.Metrics()
			if err != nil {
				return nil, err
			}
			return c.Middleware(), nil
		}),
	})
}

// lazyMiddleware builds its middleware on first use. Failed builds are retried
// on the next request.
type lazyMiddleware struct {
	a     *Application
	build func() (middleware.Middleware, error)

	mu sync.Mutex
	mw middleware.Middleware
}

func (a *Application) lazy(build func() (middleware.Middleware, error)) middleware.Middleware {
	return &lazyMiddleware{a: a, build: build}
}

func (l *lazyMiddleware) Handle(ctx handler.Context, next middleware.Next, params ...string) *handler.Response {
	l.mu.Lock()
	if l.mw == nil {
		mw, err := l.build()
		if err != nil {
			l.mu.Unlock()
			return middleware.NewPipeline(exceptionProxy{l.a}).Fail(ctx, errors.Join(ErrMiddlewareResolved, err))
		}
		l.mw = mw
	}
	mw := l.mw
	l.mu.Unlock()
	return mw.Handle(ctx, next, params...)
}
