package queue

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DefaultQueue is used when no queue is named.
const DefaultQueue = "default"

// Status is the lifecycle state of a Job.
type Status string

const (
	StatusPending  Status = "pending"
	StatusReserved Status = "reserved"
	StatusDone     Status = "done"
	StatusFailed   Status = "failed"
)

// Job is a unit of background work.
type Job struct {
	ID            uuid.UUID       `json:"id"`
	Queue         string          `json:"queue"`
	Name          string          `json:"name"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	Status        Status          `json:"status"`
	Attempts      int             `json:"attempts"`
	MaxAttempts   int             `json:"max_attempts"`
	AvailableAt   time.Time       `json:"available_at"`
	ReservedUntil time.Time       `json:"reserved_until,omitzero"`
	Error         string          `json:"error,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Exhausted reports whether the job has no attempts left.
func (j Job) Exhausted() bool {
	return j.MaxAttempts > 0 && j.Attempts >= j.MaxAttempts
}
