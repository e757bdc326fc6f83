package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rangka/lumen/pkg/config"
)

func TestRepository(t *testing.T) {
	t.Parallel()

	repo := config.NewRepository(map[string]any{
		"app": map[string]any{"name": "lumen", "debug": "true"},
	})

	assert.True(t, repo.Has("app.name"))
	assert.False(t, repo.Has("app.missing"))
	assert.False(t, repo.Has(""))
	assert.Equal(t, "lumen", repo.String("app.name", ""))
	assert.True(t, repo.Bool("app.debug", false))
	assert.Equal(t, "fallback", repo.String("app.locale", "fallback"))

	require.NoError(t, repo.Set("auth.defaults.guard", "api"))
	assert.Equal(t, "api", repo.Get("auth.defaults.guard", nil))

	require.NoError(t, repo.Set("auth", map[string]any{"guards": map[string]any{"api": map[string]any{"driver": "jwt"}}}))
	assert.Equal(t, "api", repo.String("auth.defaults.guard", ""), "maps merge into existing keys")
	assert.Equal(t, "jwt", repo.String("auth.guards.api.driver", ""))

	require.ErrorIs(t, repo.Set("a..b", 1), config.ErrInvalidKey)

	all := repo.All()
	all["app"].(map[string]any)["name"] = "mutated"
	assert.Equal(t, "lumen", repo.String("app.name", ""), "All returns a copy")
}

func TestRepositoryTypedGetters(t *testing.T) {
	t.Parallel()

	repo := config.NewRepository(map[string]any{
		"queue": map[string]any{"workers": 4, "retry": "30s", "ttl": 60, "size": "12"},
	})

	assert.Equal(t, 4, repo.Int("queue.workers", 1))
	assert.Equal(t, 12, repo.Int("queue.size", 1))
	assert.Equal(t, 1, repo.Int("queue.retry", 1))
	assert.Equal(t, 30*time.Second, repo.Duration("queue.retry", 0))
	assert.Equal(t, time.Minute, repo.Duration("queue.ttl", 0))
	assert.Equal(t, time.Hour, repo.Duration("queue.missing", time.Hour))
}

func TestRepositoryLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cache.yaml")
	doc := "default: redis\nstores:\n  redis:\n    prefix: lumen\n    ttl: 10m\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	repo := config.NewRepository(nil)
	require.NoError(t, repo.LoadFile("cache", path))
	assert.Equal(t, "redis", repo.String("cache.default", ""))
	assert.Equal(t, "lumen", repo.String("cache.stores.redis.prefix", ""))
	assert.Equal(t, 10*time.Minute, repo.Duration("cache.stores.redis.ttl", 0))

	require.ErrorIs(t, repo.LoadFile("x", filepath.Join(t.TempDir(), "nope.yaml")), config.ErrLoadingFile)
	require.ErrorIs(t, repo.LoadYAML("x", []byte("a: [")), config.ErrLoadingFile)
}
