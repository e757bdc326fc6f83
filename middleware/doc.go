// Package middleware implements the middleware pipeline that wraps route actions.
//
// A middleware receives the request Context and a Next continuation. It can
// short-circuit by returning its own response, or call next and post-process the
// result. Middleware is referenced by name in route and group definitions, with
// optional colon-separated parameters:
//
//	reg := middleware.NewRegistry()
//	reg.Register("throttle", throttle)
//	stages, err := reg.Resolve(middleware.ParseAll("auth|throttle:60,1"))
//
// Middleware that also implements Terminable gets a final call with the complete
// response once the whole chain has finished.
package middleware
