package queue

import "errors"

var (
	ErrNilStorage      = errors.New("queue: nil storage")
	ErrNilPayload      = errors.New("queue: nil payload")
	ErrPayloadMarshal  = errors.New("queue: failed to marshal payload")
	ErrEmptyJobName    = errors.New("queue: empty job name")
	ErrNoJob           = errors.New("queue: no job available")
	ErrJobNotFound     = errors.New("queue: job not found")
	ErrJobNotReserved  = errors.New("queue: job is not reserved")
	ErrDuplicateJob    = errors.New("queue: job already exists")
	ErrHandlerNotFound = errors.New("queue: no handler registered for job")
	ErrNoHandlers      = errors.New("queue: no handlers registered")
	ErrInvalidSchedule = errors.New("queue: invalid cron expression")
)
