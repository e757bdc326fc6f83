package handler

import "errors"

var (
	// ErrNilResponse indicates a middleware returned nil instead of a Response.
	ErrNilResponse = errors.New("handler: middleware returned nil response")

	// ErrPanic wraps a value recovered from a panicking action or middleware.
	ErrPanic = errors.New("handler: panic recovered")

	// ErrUnsupportedValue is returned when an action result cannot be turned into a response.
	ErrUnsupportedValue = errors.New("handler: unsupported action result")
)
