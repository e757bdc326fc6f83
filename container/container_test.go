package container_test

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rangka/lumen/container"
)

type cacheService struct{ name string }

func TestContainer_LazySingleton(t *testing.T) {
	t.Parallel()

	c := container.New()
	var calls atomic.Int32
	require.NoError(t, c.Bind(container.Cache, func(container.Resolver) (any, error) {
		calls.Add(1)
		return &cacheService{name: "memory"}, nil
	}))

	assert.True(t, c.Bound(container.Cache))
	assert.False(t, c.Resolved(container.Cache))
	assert.Equal(t, int32(0), calls.Load(), "factory must not run before first resolution")

	var wg sync.WaitGroup
	results := make([]*cacheService, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = container.MustResolve[*cacheService](c, container.Cache)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, c.Resolved(container.Cache))
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestContainer_NestedResolution(t *testing.T) {
	t.Parallel()

	c := container.New()
	c.Instance(container.Config, map[string]string{"cache.driver": "redis"})
	require.NoError(t, c.Bind(container.Cache, func(r container.Resolver) (any, error) {
		cfg, err := container.Resolve[map[string]string](r, container.Config)
		if err != nil {
			return nil, err
		}
		return &cacheService{name: cfg["cache.driver"]}, nil
	}))

	svc, err := container.Resolve[*cacheService](c, container.Cache)
	require.NoError(t, err)
	assert.Equal(t, "redis", svc.name)
}

func TestContainer_Errors(t *testing.T) {
	t.Parallel()

	t.Run("not bound", func(t *testing.T) {
		t.Parallel()
		_, err := container.Resolve[string](container.New(), container.Session)
		require.ErrorIs(t, err, container.ErrNotBound)
	})

	t.Run("type mismatch", func(t *testing.T) {
		t.Parallel()
		c := container.New()
		c.Instance(container.Log, 42)
		_, err := container.Resolve[string](c, container.Log)
		require.ErrorIs(t, err, container.ErrTypeMismatch)
	})

	t.Run("nil factory", func(t *testing.T) {
		t.Parallel()
		require.ErrorIs(t, container.New().Bind(container.Hash, nil), container.ErrNilFactory)
	})

	t.Run("factory failure is memoized", func(t *testing.T) {
		t.Parallel()
		c := container.New()
		boom := errors.New("boom")
		var calls int
		require.NoError(t, c.Bind(container.Queue, func(container.Resolver) (any, error) {
			calls++
			return nil, boom
		}))

		_, err := container.Resolve[any](c, container.Queue)
		require.ErrorIs(t, err, container.ErrFactoryFailed)
		require.ErrorIs(t, err, boom)
		_, _ = container.Resolve[any](c, container.Queue)
		assert.Equal(t, 1, calls)

		c.Forget(container.Queue)
		_, _ = container.Resolve[any](c, container.Queue)
		assert.Equal(t, 2, calls)
	})

	t.Run("circular dependency", func(t *testing.T) {
		t.Parallel()
		c := container.New()
		require.NoError(t, c.Bind(container.Auth, func(r container.Resolver) (any, error) {
			_, err := container.Resolve[any](r, container.Session)
			return "auth", err
		}))
		require.NoError(t, c.Bind(container.Session, func(r container.Resolver) (any, error) {
			_, err := container.Resolve[any](r, container.Auth)
			return "session", err
		}))

		_, err := container.Resolve[any](c, container.Auth)
		require.ErrorIs(t, err, container.ErrCircularDependency)
	})

	t.Run("must resolve panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() {
			container.MustResolve[string](container.New(), container.URL)
		})
	})
}

func TestServiceID_String(t *testing.T) {
	t.Parallel()

	for _, id := range []container.ServiceID{container.Auth, container.Cache, container.Validator} {
		parsed, ok := container.ParseServiceID(id.String())
		require.True(t, ok, fmt.Sprintf("parse %s", id))
		assert.Equal(t, id, parsed)
	}
	assert.Equal(t, "unknown", container.ServiceID(200).String())
}
