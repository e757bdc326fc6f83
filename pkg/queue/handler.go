package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Handler processes jobs pushed under Name.
type Handler interface {
	Name() string
	Handle(ctx context.Context, payload json.RawMessage) error
}

// NewHandler creates a Handler for payloads of type T. The job name is T's
// qualified type name, the same name Dispatcher.Push uses.
func NewHandler[T any](fn func(ctx context.Context, payload T) error) Handler {
	var zero T
	return &typedHandler[T]{name: JobName(zero), fn: fn}
}

// HandlerFunc creates a Handler with an explicit name that ignores the payload.
func HandlerFunc(name string, fn func(ctx context.Context) error) Handler {
	return &namedHandler{name: name, fn: fn}
}

// JobName returns the job name used for payload v.
func JobName(v any) string {
	if n, ok := v.(interface{ JobName() string }); ok {
		return n.JobName()
	}
	return strings.TrimLeft(fmt.Sprintf("%T", v), "*")
}

type typedHandler[T any] struct {
	name string
	fn   func(ctx context.Context, payload T) error
}

func (h *typedHandler[T]) Name() string { return h.name }

func (h *typedHandler[T]) Handle(ctx context.Context, payload json.RawMessage) error {
	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		return fmt.Errorf("queue: decode %s payload: %w", h.name, err)
	}
	return h.fn(ctx, v)
}

type namedHandler struct {
	name string
	fn   func(ctx context.Context) error
}

func (h *namedHandler) Name() string { return h.name }

func (h *namedHandler) Handle(ctx context.Context, _ json.RawMessage) error {
	return h.fn(ctx)
}
