package router

import (
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/rangka/lumen/handler"
	"github.com/rangka/lumen/middleware"
)

// Router stores routes and named routes and dispatches requests to them.
// Registration must be complete before the first dispatch.
type Router struct {
	groups []GroupAttrs
	routes map[string]Route
	order  []string
	named  map[string]string

	actions    *Registry
	middleware *middleware.Registry
	exceptions handler.ExceptionHandler

	compileOnce sync.Once
	mux         *chi.Mux
	compileErr  error
	frozen      bool
}

// Option configures a Router.
type Option func(*Router)

// WithActions sets the registry used to resolve string actions.
func WithActions(reg *Registry) Option {
	return func(r *Router) {
		if reg != nil {
			r.actions = reg
		}
	}
}

// WithMiddleware sets the registry used to resolve route middleware names.
func WithMiddleware(reg *middleware.Registry) Option {
	return func(r *Router) {
		if reg != nil {
			r.middleware = reg
		}
	}
}

// WithExceptionHandler sets the handler used for errors raised while dispatching.
func WithExceptionHandler(eh handler.ExceptionHandler) Option {
	return func(r *Router) {
		if eh != nil {
			r.exceptions = eh
		}
	}
}

// New creates an empty router.
func New(opts ...Option) *Router {
	r := &Router{
		routes:     make(map[string]Route),
		named:      make(map[string]string),
		actions:    NewRegistry(),
		middleware: middleware.NewRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.exceptions == nil {
		r.exceptions = handler.NewExceptionHandler(nil, false)
	}
	return r
}

// Actions returns the action registry.
func (r *Router) Actions() *Registry {
	return r.actions
}

// Group registers routes inside fn with attrs merged onto the enclosing group.
// The group is popped even if fn panics.
func (r *Router) Group(attrs GroupAttrs, fn func(r *Router)) {
	r.pushGroup(attrs)
	defer r.popGroup()
	if fn != nil {
		fn(r)
	}
}

func (r *Router) pushGroup(attrs GroupAttrs) {
	r.groups = append(r.groups, r.currentGroup().merge(attrs))
}

func (r *Router) popGroup() {
	if len(r.groups) > 0 {
		r.groups = r.groups[:len(r.groups)-1]
	}
}

func (r *Router) currentGroup() GroupAttrs {
	if len(r.groups) == 0 {
		return GroupAttrs{}
	}
	return r.groups[len(r.groups)-1]
}

// HasGroupStack reports whether a group is currently open.
func (r *Router) HasGroupStack() bool {
	return len(r.groups) > 0
}

// Get registers a GET route.
func (r *Router) Get(uri string, action any) { r.AddRoute([]string{http.MethodGet}, uri, action) }

// Post registers a POST route.
func (r *Router) Post(uri string, action any) { r.AddRoute([]string{http.MethodPost}, uri, action) }

// Put registers a PUT route.
func (r *Router) Put(uri string, action any) { r.AddRoute([]string{http.MethodPut}, uri, action) }

// Patch registers a PATCH route.
func (r *Router) Patch(uri string, action any) { r.AddRoute([]string{http.MethodPatch}, uri, action) }

// Delete registers a DELETE route.
func (r *Router) Delete(uri string, action any) { r.AddRoute([]string{http.MethodDelete}, uri, action) }

// Options registers an OPTIONS route.
func (r *Router) Options(uri string, action any) {
	r.AddRoute([]string{http.MethodOptions}, uri, action)
}

// AddRoute registers action for every method in methods.
//
// action is one of:
//   - Action or func(handler.Context, handler.Params) any
//   - func(handler.Context) any, func() any, http.Handler
//   - string: "Controller@method" or an invokable name
//   - Attrs carrying a name, middleware and one of the above in Uses
//
// It panics on an unsupported action or when the router is frozen.
func (r *Router) AddRoute(methods []string, uri string, action any) {
	if r.frozen {
		panic(ErrRouterFrozen)
	}

	attrs, ok := action.(Attrs)
	if !ok {
		attrs = Attrs{Uses: action}
	}

	group := r.currentGroup()
	route := Route{
		URI:        normalizeURI(group.Prefix, uri, group.Suffix),
		Namespace:  group.Namespace,
		Name:       joinName(group.As, attrs.As),
		Middleware: concatMiddleware(group.Middleware, attrs.Middleware),
	}

	switch uses := attrs.Uses.(type) {
	case string:
		if uses == "" {
			panic(fmt.Errorf("%w: empty action string for %s", ErrInvalidAction, route.URI))
		}
		route.Uses = qualify(group.Namespace, uses)
	default:
		fn, ok := toAction(uses)
		if !ok {
			panic(fmt.Errorf("%w: %T for %s", ErrInvalidAction, attrs.Uses, route.URI))
		}
		route.action = fn
	}

	if route.Name != "" {
		r.named[route.Name] = route.URI
	}

	for _, method := range methods {
		rt := route.clone()
		rt.Method = strings.ToUpper(method)
		key := rt.Key()
		if _, exists := r.routes[key]; !exists {
			r.order = append(r.order, key)
		}
		r.routes[key] = rt
	}
}

// qualify prefixes a string action with the group namespace unless it is
// already absolute (leading backslash).
func qualify(namespace, uses string) string {
	if namespace == "" || strings.HasPrefix(uses, `\`) {
		return strings.TrimLeft(uses, `\`)
	}
	return namespace + `\` + uses
}

// Routes returns a copy of the route table keyed by METHOD+URI.
func (r *Router) Routes() map[string]Route {
	out := make(map[string]Route, len(r.routes))
	for k, v := range r.routes {
		out[k] = v.clone()
	}
	return out
}

// Route returns the route registered under key.
func (r *Router) Route(key string) (Route, bool) {
	rt, ok := r.routes[key]
	if !ok {
		return Route{}, false
	}
	return rt.clone(), true
}

// NamedRoutes returns a copy of the name to URI index.
func (r *Router) NamedRoutes() map[string]string {
	return maps.Clone(r.named)
}

// HasRoute reports whether a route named name exists.
func (r *Router) HasRoute(name string) bool {
	_, ok := r.named[name]
	return ok
}

// Methods returns the distinct methods in the table, sorted.
func (r *Router) Methods() []string {
	seen := make(map[string]struct{})
	for _, rt := range r.routes {
		seen[rt.Method] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}
