package router

import "slices"

// Route is a registered (method, pattern, action, middleware) tuple.
// It is not modified after registration.
type Route struct {
	Method     string
	URI        string
	Name       string
	Namespace  string
	Uses       string
	Middleware []string

	action Action
}

// Key returns the table key, METHOD followed by the URI ("GET/hello/world").
func (r Route) Key() string {
	return r.Method + r.URI
}

func (r Route) clone() Route {
	r.Middleware = slices.Clone(r.Middleware)
	return r
}
