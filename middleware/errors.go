package middleware

import "errors"

var (
	// ErrUnknownMiddleware is returned when a route references an unregistered name.
	ErrUnknownMiddleware = errors.New("middleware: unknown middleware")

	// ErrNilMiddleware is returned when registering a nil middleware.
	ErrNilMiddleware = errors.New("middleware: nil middleware")

	// ErrEmptyName is returned when registering a middleware without a name.
	ErrEmptyName = errors.New("middleware: empty name")
)
