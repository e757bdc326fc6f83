package router

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/rangka/lumen/handler"
)

// Action is a route handler. Path parameters arrive in placeholder order.
type Action func(ctx handler.Context, params handler.Params) any

// Controller groups named actions, the counterpart of a "Controller@method" string.
type Controller interface {
	Actions() map[string]Action
}

// MiddlewareDeclarer is implemented by controllers that declare their own route
// middleware. It runs inside the route and group middleware.
type MiddlewareDeclarer interface {
	Middleware() []string
}

// Registry maps action strings to callables. Strings are resolved once, when the
// router compiles its routes.
type Registry struct {
	mu          sync.RWMutex
	controllers map[string]Controller
	invokables  map[string]Action
}

// NewRegistry creates an empty action registry.
func NewRegistry() *Registry {
	return &Registry{
		controllers: make(map[string]Controller),
		invokables:  make(map[string]Action),
	}
}

// Controller registers c under its fully qualified name, e.g. `App\Http\UserController`.
func (r *Registry) Controller(name string, c Controller) {
	r.mu.Lock()
	r.controllers[strings.TrimLeft(name, `\`)] = c
	r.mu.Unlock()
}

// Invokable registers a single-action handler under name.
func (r *Registry) Invokable(name string, a Action) {
	r.mu.Lock()
	r.invokables[strings.TrimLeft(name, `\`)] = a
	r.mu.Unlock()
}

// Resolve returns the action for uses ("Class@method" or an invokable name)
// and the middleware declared by its controller, if any.
func (r *Registry) Resolve(uses string) (Action, []string, error) {
	uses = strings.TrimLeft(uses, `\`)

	r.mu.RLock()
	defer r.mu.RUnlock()

	class, method, hasMethod := strings.Cut(uses, "@")
	if !hasMethod {
		if a, ok := r.invokables[uses]; ok {
			return a, nil, nil
		}
		if c, ok := r.controllers[uses]; ok {
			if a, ok := c.Actions()["__invoke"]; ok {
				return a, declaredMiddleware(c), nil
			}
		}
		return nil, nil, fmt.Errorf("%w: %s", ErrActionNotFound, uses)
	}

	c, ok := r.controllers[class]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrActionNotFound, uses)
	}
	a, ok := c.Actions()[method]
	if !ok || a == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrActionNotFound, uses)
	}
	return a, declaredMiddleware(c), nil
}

func declaredMiddleware(c Controller) []string {
	if d, ok := c.(MiddlewareDeclarer); ok {
		return d.Middleware()
	}
	return nil
}

// toAction converts the supported function shapes to Action.
func toAction(v any) (Action, bool) {
	switch fn := v.(type) {
	case Action:
		return fn, fn != nil
	case func(handler.Context, handler.Params) any:
		return fn, fn != nil
	case func(handler.Context) any:
		if fn == nil {
			return nil, false
		}
		return func(ctx handler.Context, _ handler.Params) any { return fn(ctx) }, true
	case func() any:
		if fn == nil {
			return nil, false
		}
		return func(handler.Context, handler.Params) any { return fn() }, true
	case http.Handler:
		if fn == nil {
			return nil, false
		}
		return func(ctx handler.Context, _ handler.Params) any {
			return httpRenderer{h: fn}
		}, true
	default:
		return nil, false
	}
}

// httpRenderer runs a plain http.Handler as a handler.Renderer.
type httpRenderer struct {
	h http.Handler
}

func (hr httpRenderer) Render(w http.ResponseWriter, r *http.Request) error {
	hr.h.ServeHTTP(w, r)
	return nil
}
