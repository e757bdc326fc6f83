package router

import "errors"

var (
	// ErrRouterFrozen is raised when registering routes after the first dispatch.
	ErrRouterFrozen = errors.New("router: routes are frozen after the first dispatch")

	// ErrInvalidAction is raised when a route action has an unsupported type.
	ErrInvalidAction = errors.New("router: invalid action")

	// ErrActionNotFound is returned when a "Controller@method" or invokable name is not registered.
	ErrActionNotFound = errors.New("router: action not found")

	// ErrRouteNotFound is returned by URL when no route has the given name.
	ErrRouteNotFound = errors.New("router: route not found")

	// ErrMissingRouteParameter is returned by URL when a placeholder has no value.
	ErrMissingRouteParameter = errors.New("router: missing route parameter")

	// ErrInvalidPattern is returned when a pattern has unbalanced placeholders or is rejected by the matcher.
	ErrInvalidPattern = errors.New("router: invalid route pattern")
)
