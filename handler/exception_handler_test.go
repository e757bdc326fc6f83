package handler_test

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rangka/lumen/handler"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		level  slog.Level
	}{
		{"plain error", errors.New("boom"), http.StatusInternalServerError, slog.LevelError},
		{"not found", handler.ErrNotFound, http.StatusNotFound, slog.LevelWarn},
		{"wrapped http error", fmt.Errorf("lookup: %w", handler.ErrForbidden), http.StatusForbidden, slog.LevelWarn},
		{"validation", handler.ValidationError{"name": {"required"}}, http.StatusUnprocessableEntity, slog.LevelWarn},
		{"method not allowed", handler.MethodNotAllowedError{Allowed: []string{"POST"}}, http.StatusMethodNotAllowed, slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			info := handler.Classify(tt.err)
			assert.Equal(t, tt.status, info.StatusCode)
			assert.Equal(t, tt.level, info.LogLevel)
		})
	}
}

func TestExceptionHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	h := handler.NewExceptionHandler(log, false)
	ctx := handler.NewContext(httptest.NewRequest(http.MethodGet, "/users", nil))

	t.Run("validation renders json", func(t *testing.T) {
		resp := h.Render(ctx, handler.ValidationError{"name": {"The name field is required."}})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode())
		assert.JSONEq(t, `{"message":"The given data was invalid.","errors":{"name":["The name field is required."]}}`, resp.Content())
	})

	t.Run("server error hides message", func(t *testing.T) {
		resp := h.Render(ctx, errors.New("db password wrong"))
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode())
		assert.Equal(t, "Internal Server Error", resp.Content())
	})

	t.Run("http errors render readable messages", func(t *testing.T) {
		resp := h.Render(ctx, handler.ErrNotFound)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode())
		assert.Equal(t, "Not Found", resp.Content())

		resp = h.Render(ctx, handler.MethodNotAllowedError{Allowed: []string{"GET"}})
		assert.Equal(t, "Method Not Allowed", resp.Content())

		resp = h.Render(ctx, handler.NewHTTPError(http.StatusForbidden, "insufficient_permissions"))
		assert.Equal(t, "Insufficient permissions", resp.Content())
	})

	t.Run("method not allowed sets allow header", func(t *testing.T) {
		resp := h.Render(ctx, handler.MethodNotAllowedError{Allowed: []string{"GET", "POST"}})
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode())
		assert.Equal(t, "GET, POST", resp.Header().Get("Allow"))
	})

	t.Run("report logs", func(t *testing.T) {
		h.Report(ctx, errors.New("boom"))
		require.Contains(t, buf.String(), `"error":"boom"`)
		assert.Contains(t, buf.String(), `"path":"/users"`)
		assert.Contains(t, buf.String(), `"component":"exception_handler"`)
	})
}

func TestExceptionHandler_Debug(t *testing.T) {
	t.Parallel()

	h := handler.NewExceptionHandler(nil, true)
	ctx := handler.NewContext(httptest.NewRequest(http.MethodGet, "/", nil))
	resp := h.Render(ctx, errors.New("app exception"))
	assert.Equal(t, "app exception", resp.Content())
}
