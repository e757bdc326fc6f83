package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rangka/lumen/pkg/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json defaults", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithAttr(slog.String("app", "lumen")))
		log.Debug("hidden")
		assert.Zero(t, buf.Len())

		log.Info("hello", logger.Component("router"))
		m := decode(t, &buf)
		assert.Equal(t, "hello", m["msg"])
		assert.Equal(t, "lumen", m["app"])
		assert.Equal(t, "router", m["component"])
	})

	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithFormat(logger.FormatText), logger.WithLevel(slog.LevelDebug))
		log.Debug("visible")
		assert.Contains(t, buf.String(), "msg=visible")
	})

	t.Run("invalid format panics", func(t *testing.T) {
		assert.Panics(t, func() { logger.New(logger.WithFormat("xml")) })
	})
}

func TestWithEnvironment(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithEnvironment("local", "lumen"), logger.WithOutput(&buf))
	log.Debug("boot")
	assert.Contains(t, buf.String(), "app=lumen")
	assert.Contains(t, buf.String(), "env=local")

	buf.Reset()
	log = logger.New(logger.WithEnvironment("production", "lumen"), logger.WithOutput(&buf))
	log.Debug("hidden")
	assert.Zero(t, buf.Len())
	log.Info("shown")
	assert.Equal(t, "production", decode(t, &buf)["env"])
}

type ctxKey struct{}

func TestContextExtractors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithContextValue("tenant", ctxKey{}),
		logger.WithContextExtractors(nil, func(ctx context.Context) (slog.Attr, bool) {
			return slog.String("static", "yes"), true
		}),
	).With("k", "v")

	ctx := context.WithValue(context.Background(), ctxKey{}, "acme")
	log.InfoContext(ctx, "scoped")
	m := decode(t, &buf)
	assert.Equal(t, "acme", m["tenant"])
	assert.Equal(t, "yes", m["static"])
	assert.Equal(t, "v", m["k"])

	buf.Reset()
	log.Info("unscoped")
	_, ok := decode(t, &buf)["tenant"]
	assert.False(t, ok)
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
	assert.Equal(t, "error", logger.Error(errors.New("x")).Key)
	assert.True(t, logger.Errors(nil, nil).Equal(slog.Attr{}))
	assert.Len(t, logger.Errors(nil, errors.New("a"), errors.New("b")).Value.Group(), 2)
	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
	assert.Equal(t, "abc", logger.RequestID("abc").Value.String())
	assert.True(t, logger.UserID(nil).Equal(slog.Attr{}))
	assert.Equal(t, int64(422), logger.StatusCode(422).Value.Int64())
	assert.Equal(t, time.Second, logger.Duration(time.Second).Value.Duration())

	route := logger.Route("GET", "/users/{id}")
	require.Equal(t, "route", route.Key)
	assert.Equal(t, "GET", route.Value.Group()[0].Value.String())
	assert.Equal(t, "/users/{id}", route.Value.Group()[1].Value.String())
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, logger.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logger.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, logger.ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel("nope"))
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	assert.False(t, logger.Discard().Enabled(context.Background(), slog.LevelError))
}
