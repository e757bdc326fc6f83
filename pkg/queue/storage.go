package queue

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Storage persists jobs.
type Storage interface {
	Push(ctx context.Context, job *Job) error
	// Reserve returns the oldest available job of the given queues and leases
	// it for lease. It returns ErrNoJob when nothing is available.
	Reserve(ctx context.Context, queues []string, lease time.Duration) (*Job, error)
	Complete(ctx context.Context, id uuid.UUID) error
	// Release makes a reserved job available again after delay.
	Release(ctx context.Context, id uuid.UUID, reason string, delay time.Duration) error
	// Bury moves a reserved job to the failed list.
	Bury(ctx context.Context, id uuid.UUID, reason string) error
}

// MemoryStorage is an in-process Storage.
type MemoryStorage struct {
	mu     sync.Mutex
	jobs   map[uuid.UUID]*Job
	failed []Job
	now    func() time.Time
}

// NewMemoryStorage creates an empty storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{jobs: make(map[uuid.UUID]*Job), now: time.Now}
}

func (m *MemoryStorage) Push(_ context.Context, job *Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.jobs[job.ID]; ok {
		return ErrDuplicateJob
	}
	stored := *job
	m.jobs[job.ID] = &stored
	return nil
}

func (m *MemoryStorage) Reserve(_ context.Context, queues []string, lease time.Duration) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var next *Job
	for _, job := range m.jobs {
		if job.Status == StatusReserved && !now.Before(job.ReservedUntil) {
			job.Status = StatusPending
			job.ReservedUntil = time.Time{}
		}
		if job.Status != StatusPending || job.AvailableAt.After(now) {
			continue
		}
		if len(queues) > 0 && !slices.Contains(queues, job.Queue) {
			continue
		}
		if next == nil || job.AvailableAt.Before(next.AvailableAt) ||
			(job.AvailableAt.Equal(next.AvailableAt) && job.CreatedAt.Before(next.CreatedAt)) {
			next = job
		}
	}
	if next == nil {
		return nil, ErrNoJob
	}

	next.Status = StatusReserved
	next.Attempts++
	next.ReservedUntil = now.Add(lease)
	reserved := *next
	return &reserved, nil
}

func (m *MemoryStorage) Complete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, err := m.reserved(id)
	if err != nil {
		return err
	}
	job.Status = StatusDone
	delete(m.jobs, id)
	return nil
}

func (m *MemoryStorage) Release(_ context.Context, id uuid.UUID, reason string, delay time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, err := m.reserved(id)
	if err != nil {
		return err
	}
	job.Status = StatusPending
	job.Error = reason
	job.ReservedUntil = time.Time{}
	job.AvailableAt = m.now().Add(delay)
	return nil
}

func (m *MemoryStorage) Bury(_ context.Context, id uuid.UUID, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, err := m.reserved(id)
	if err != nil {
		return err
	}
	job.Status = StatusFailed
	job.Error = reason
	job.ReservedUntil = time.Time{}
	m.failed = append(m.failed, *job)
	delete(m.jobs, id)
	return nil
}

// Size returns the number of pending or reserved jobs on queue.
func (m *MemoryStorage) Size(queue string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, job := range m.jobs {
		if job.Queue == queue {
			n++
		}
	}
	return n
}

// Failed returns a copy of the buried jobs.
func (m *MemoryStorage) Failed() []Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.failed)
}

// must hold m.mu
func (m *MemoryStorage) reserved(id uuid.UUID) (*Job, error) {
	job, ok := m.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	if job.Status != StatusReserved {
		return nil, ErrJobNotReserved
	}
	return job, nil
}
