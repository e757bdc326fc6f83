package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxAttempts bounds retries when neither the dispatcher nor the push sets a limit.
const DefaultMaxAttempts = 3

// PushOption configures a single push.
type PushOption func(*Job)

// OnQueue sends the job to queue.
func OnQueue(queue string) PushOption {
	return func(j *Job) {
		if queue != "" {
			j.Queue = queue
		}
	}
}

// WithMaxAttempts overrides the attempt limit.
func WithMaxAttempts(n int) PushOption {
	return func(j *Job) {
		if n > 0 {
			j.MaxAttempts = n
		}
	}
}

// WithName overrides the job name derived from the payload type.
func WithName(name string) PushOption {
	return func(j *Job) {
		if name != "" {
			j.Name = name
		}
	}
}

// Dispatcher pushes jobs into a Storage.
type Dispatcher struct {
	storage     Storage
	queue       string
	maxAttempts int
	now         func() time.Time
}

// NewDispatcher creates a dispatcher pushing to DefaultQueue.
func NewDispatcher(storage Storage, opts ...PushOption) (*Dispatcher, error) {
	if storage == nil {
		return nil, ErrNilStorage
	}
	defaults := Job{Queue: DefaultQueue, MaxAttempts: DefaultMaxAttempts}
	for _, opt := range opts {
		opt(&defaults)
	}
	return &Dispatcher{storage: storage, queue: defaults.Queue, maxAttempts: defaults.MaxAttempts, now: time.Now}, nil
}

// Push queues payload for immediate processing.
func (d *Dispatcher) Push(ctx context.Context, payload any, opts ...PushOption) (uuid.UUID, error) {
	return d.Later(ctx, 0, payload, opts...)
}

// Later queues payload to become available after delay.
func (d *Dispatcher) Later(ctx context.Context, delay time.Duration, payload any, opts ...PushOption) (uuid.UUID, error) {
	if payload == nil {
		return uuid.Nil, ErrNilPayload
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return uuid.Nil, errors.Join(ErrPayloadMarshal, err)
	}

	now := d.now()
	job := &Job{
		ID:          uuid.New(),
		Queue:       d.queue,
		Name:        JobName(payload),
		Payload:     raw,
		Status:      StatusPending,
		MaxAttempts: d.maxAttempts,
		AvailableAt: now.Add(max(delay, 0)),
		CreatedAt:   now,
	}
	for _, opt := range opts {
		opt(job)
	}
	if job.Name == "" {
		return uuid.Nil, ErrEmptyJobName
	}

	if err := d.storage.Push(ctx, job); err != nil {
		return uuid.Nil, err
	}
	return job.ID, nil
}
