package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rangka/lumen/pkg/events"
)

type userRegistered struct {
	Email string
}

type orderShipped struct {
	ID int
}

func (orderShipped) EventName() string { return "orders.shipped" }

func TestName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "events_test.userRegistered", events.Name(userRegistered{}))
	assert.Equal(t, "*events_test.userRegistered", events.Name(&userRegistered{}))
	assert.Equal(t, "orders.shipped", events.Name(orderShipped{}))
}

func TestDispatchRunsListenersInOrder(t *testing.T) {
	t.Parallel()

	d := events.New()
	var calls []string
	events.Listen(d, func(_ context.Context, e userRegistered) error {
		calls = append(calls, "first:"+e.Email)
		return nil
	})
	d.Listen(events.Name(userRegistered{}), func(_ context.Context, e any) error {
		calls = append(calls, "second")
		return nil
	})
	d.Listen("events_test.*", func(context.Context, any) error {
		calls = append(calls, "wildcard")
		return nil
	})

	assert.True(t, d.HasListeners(events.Name(userRegistered{})))
	require.NoError(t, d.Dispatch(context.Background(), userRegistered{Email: "taylor@example.com"}))
	assert.Equal(t, []string{"first:taylor@example.com", "second", "wildcard"}, calls)
}

func TestDispatchStopsPropagation(t *testing.T) {
	t.Parallel()

	d := events.New()
	var reached bool
	d.Listen("orders.shipped", func(context.Context, any) error { return events.ErrStopPropagation })
	d.Listen("orders.shipped", func(context.Context, any) error {
		reached = true
		return nil
	})

	require.NoError(t, d.Dispatch(context.Background(), orderShipped{ID: 1}))
	assert.False(t, reached)
}

func TestDispatchListenerFailure(t *testing.T) {
	t.Parallel()

	d := events.New()
	boom := errors.New("boom")
	d.Listen("orders.*", func(context.Context, any) error { return boom })

	err := d.Dispatch(context.Background(), orderShipped{ID: 1})
	require.ErrorIs(t, err, events.ErrListenerFailed)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "orders.shipped")

	require.ErrorIs(t, d.Dispatch(context.Background(), nil), events.ErrNilEvent)
}

func TestForget(t *testing.T) {
	t.Parallel()

	d := events.New()
	d.Listen("orders.shipped", func(context.Context, any) error { return nil })
	d.Listen("orders.*", func(context.Context, any) error { return nil })

	d.Forget("orders.shipped")
	assert.True(t, d.HasListeners("orders.shipped"))
	d.Forget("orders.*")
	assert.False(t, d.HasListeners("orders.shipped"))
}

func TestSubscribe(t *testing.T) {
	t.Parallel()

	d := events.New(events.WithBufferSize(1))
	ctx, cancel := context.WithCancel(context.Background())
	sub := d.Subscribe(ctx)

	require.NoError(t, d.Dispatch(context.Background(), orderShipped{ID: 1}))
	// Buffer is full; the second event is dropped instead of blocking.
	require.NoError(t, d.Dispatch(context.Background(), orderShipped{ID: 2}))

	env := <-sub.Events()
	assert.Equal(t, "orders.shipped", env.Name)
	assert.Equal(t, orderShipped{ID: 1}, env.Event)

	cancel()
	assert.Eventually(t, func() bool {
		_, open := <-sub.Events()
		return !open
	}, time.Second, 5*time.Millisecond)
}

func TestClose(t *testing.T) {
	t.Parallel()

	d := events.New()
	sub := d.Subscribe(context.Background())
	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())
	_, open := <-sub.Events()
	assert.False(t, open)

	other := d.Subscribe(context.Background())
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
	_, open = <-other.Events()
	assert.False(t, open)

	late := d.Subscribe(context.Background())
	_, open = <-late.Events()
	assert.False(t, open)
}

func TestCloseReleasesContextWatcher(t *testing.T) {
	t.Parallel()

	d := events.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := d.Subscribe(ctx)
	require.NoError(t, sub.Close())
	_, open := <-sub.Events()
	assert.False(t, open)

	watched := d.Subscribe(ctx)
	closed := make(chan struct{})
	go func() {
		_ = d.Close()
		close(closed)
	}()

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("dispatcher close blocked on a context watcher")
	}
	_, open = <-watched.Events()
	assert.False(t, open)
}
