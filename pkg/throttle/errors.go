package throttle

import "errors"

var (
	// ErrInvalidConfig is returned for non-positive capacities, rates or intervals.
	ErrInvalidConfig = errors.New("throttle: invalid configuration")

	// ErrInvalidTokenCount is returned when fewer than one token is requested.
	ErrInvalidTokenCount = errors.New("throttle: invalid token count")

	// ErrInvalidParameters is returned for malformed "throttle:attempts,minutes" parameters.
	ErrInvalidParameters = errors.New("throttle: invalid middleware parameters")

	// ErrStore wraps storage backend failures.
	ErrStore = errors.New("throttle: store failure")
)
