package events

import "errors"

var (
	// ErrStopPropagation stops later listeners from running. Dispatch returns nil.
	ErrStopPropagation = errors.New("events: stop propagation")

	// ErrListenerFailed wraps the error of the listener that aborted a dispatch.
	ErrListenerFailed = errors.New("events: listener failed")

	// ErrNilEvent is returned when dispatching a nil event.
	ErrNilEvent = errors.New("events: nil event")
)
