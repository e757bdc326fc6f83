package router

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/rangka/lumen/handler"
	"github.com/rangka/lumen/middleware"
)

// Dispatcher turns a request into a response. The Router is the default
// implementation; applications can install their own.
type Dispatcher interface {
	Dispatch(ctx handler.Context) *handler.Response
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx handler.Context) *handler.Response

// Dispatch calls f.
func (f DispatcherFunc) Dispatch(ctx handler.Context) *handler.Response {
	return f(ctx)
}

var resultKey = handler.NewContextKey("router.result")

type dispatchResult struct {
	resp *handler.Response
}

// compiled is a route with its action and controller middleware resolved.
type compiled struct {
	route      Route
	action     Action
	middleware []middleware.Entry
	err        error
}

// Compile freezes the router and builds the matcher. It runs once; later calls
// return the first result. Dispatch calls it implicitly.
func (r *Router) Compile() error {
	r.compileOnce.Do(func() {
		r.frozen = true
		r.mux, r.compileErr = r.buildMux()
	})
	return r.compileErr
}

func (r *Router) buildMux() (mux *chi.Mux, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			mux, err = nil, fmt.Errorf("%w: %v", ErrInvalidPattern, rec)
		}
	}()

	mux = chi.NewMux()
	mux.NotFound(func(w http.ResponseWriter, req *http.Request) {
		setResult(req, r.fail(req, handler.ErrNotFound))
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		setResult(req, r.fail(req, handler.MethodNotAllowedError{Allowed: r.allowedMethods(mux, req.URL.Path)}))
	})

	hasHead := make(map[string]bool)
	for _, key := range r.order {
		if rt := r.routes[key]; rt.Method == http.MethodHead {
			hasHead[rt.URI] = true
		}
	}

	for _, key := range r.order {
		c := r.compileRoute(r.routes[key])
		registerMethod(c.route.Method)
		h := r.routeHandler(c)
		pattern := matcherPattern(c.route.URI)
		mux.MethodFunc(c.route.Method, pattern, h)
		if c.route.Method == http.MethodGet && !hasHead[c.route.URI] {
			mux.MethodFunc(http.MethodHead, pattern, h)
		}
	}
	return mux, nil
}

func (r *Router) compileRoute(rt Route) *compiled {
	c := &compiled{route: rt, action: rt.action, middleware: middleware.ParseAll(rt.Middleware...)}
	if c.action != nil {
		return c
	}
	action, declared, err := r.actions.Resolve(rt.Uses)
	if err != nil {
		c.err = err
		return c
	}
	c.action = action
	c.middleware = append(c.middleware, middleware.ParseAll(declared...)...)
	return c
}

var standardMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch,
	http.MethodDelete, http.MethodConnect, http.MethodOptions, http.MethodTrace,
}

func registerMethod(method string) {
	if !slices.Contains(standardMethods, method) {
		chi.RegisterMethod(method)
	}
}

func (r *Router) routeHandler(c *compiled) http.HandlerFunc {
	info := handler.RouteInfo{
		Method:     c.route.Method,
		Pattern:    c.route.URI,
		Name:       c.route.Name,
		Uses:       c.route.Uses,
		Middleware: c.route.Middleware,
	}

	return func(w http.ResponseWriter, req *http.Request) {
		ctx, ok := handler.FromRequest(req)
		if !ok {
			ctx = handler.NewContext(req)
		}
		ctx.SetRequest(req)
		handler.BindRoute(ctx, info, urlParams(req))

		if c.err != nil {
			setResult(req, r.fail(req, c.err))
			return
		}

		stages, err := r.middleware.Resolve(c.middleware)
		if err != nil {
			setResult(req, r.fail(req, err))
			return
		}

		pipeline := middleware.NewPipeline(r.exceptions, stages...)
		setResult(req, pipeline.Then(ctx, func(ctx handler.Context) *handler.Response {
			resp, err := handler.Normalize(ctx.Request(), c.action(ctx, ctx.Params()))
			if err != nil {
				return pipeline.Fail(ctx, err)
			}
			return resp
		}))
	}
}

func urlParams(req *http.Request) handler.Params {
	rctx := chi.RouteContext(req.Context())
	if rctx == nil {
		return nil
	}
	params := make(handler.Params, 0, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		params = append(params, handler.Param{Key: key, Value: rctx.URLParams.Values[i]})
	}
	return params
}

func (r *Router) allowedMethods(mux *chi.Mux, path string) []string {
	var allowed []string
	for _, method := range r.Methods() {
		if mux.Match(chi.NewRouteContext(), method, path) {
			allowed = append(allowed, method)
		}
	}
	return allowed
}

func (r *Router) fail(req *http.Request, err error) *handler.Response {
	ctx, ok := handler.FromRequest(req)
	if !ok {
		ctx = handler.NewContext(req)
	}
	r.exceptions.Report(ctx, err)
	return r.exceptions.Render(ctx, err)
}

func setResult(req *http.Request, resp *handler.Response) {
	if res, ok := req.Context().Value(resultKey).(*dispatchResult); ok {
		res.resp = resp
	}
}

// Dispatch matches the request of ctx and runs the route's middleware and action.
// No path match gives a 404 response, a path match with the wrong method a 405.
func (r *Router) Dispatch(ctx handler.Context) *handler.Response {
	original := ctx.Request()
	defer ctx.SetRequest(original)

	if err := r.Compile(); err != nil {
		return r.fail(original, err)
	}

	res := &dispatchResult{}
	reqCtx := context.WithValue(original.Context(), resultKey, res)
	reqCtx = context.WithValue(reqCtx, chi.RouteCtxKey, chi.NewRouteContext())
	req := original.WithContext(reqCtx)
	ctx.SetRequest(req)

	r.mux.ServeHTTP(discardWriter{header: make(http.Header)}, ctx.Request())
	if res.resp == nil {
		return r.fail(original, handler.ErrNilResponse)
	}
	return res.resp
}

// discardWriter satisfies chi; handlers report through dispatchResult instead.
type discardWriter struct {
	header http.Header
}

func (d discardWriter) Header() http.Header         { return d.header }
func (d discardWriter) Write(p []byte) (int, error) { return len(p), nil }
func (d discardWriter) WriteHeader(int)             {}
