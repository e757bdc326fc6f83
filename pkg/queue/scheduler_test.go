package queue_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rangka/lumen/pkg/queue"
)

func TestSchedulerCall(t *testing.T) {
	t.Parallel()

	s := queue.NewScheduler(nil, queue.WithSeconds())

	var runs atomic.Int32
	id, err := s.Call("* * * * * *", "tick", func(context.Context) error {
		runs.Add(1)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Entries())

	_, err = s.Call("@every 1s", "fails", func(context.Context) error {
		return errors.New("ignored")
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	assert.Eventually(t, func() bool { return !s.Next(id).IsZero() }, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestSchedulerInvalidSpec(t *testing.T) {
	t.Parallel()

	s := queue.NewScheduler(nil)
	_, err := s.Call("every tuesday", "bad", func(context.Context) error { return nil })
	require.ErrorIs(t, err, queue.ErrInvalidSchedule)
	assert.Equal(t, 0, s.Entries())
}

func TestSchedulerJob(t *testing.T) {
	t.Parallel()

	storage := queue.NewMemoryStorage()
	d, err := queue.NewDispatcher(storage)
	require.NoError(t, err)

	t.Run("requires dispatcher", func(t *testing.T) {
		_, err := queue.NewScheduler(nil).Job("@hourly", sendWelcome{})
		require.ErrorIs(t, err, queue.ErrNilStorage)
	})

	t.Run("pushes on schedule", func(t *testing.T) {
		s := queue.NewScheduler(d, queue.WithSeconds(), queue.WithLocation(time.Local))
		_, err := s.Job("* * * * * *", sendWelcome{Email: "c@example.com"}, queue.OnQueue("digest"))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- s.Run(ctx) }()

		assert.Eventually(t, func() bool { return storage.Size("digest") > 0 }, 3*time.Second, 50*time.Millisecond)
		cancel()
		require.NoError(t, <-done)
	})
}
