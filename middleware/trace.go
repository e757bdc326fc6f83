package middleware

import (
	"context"
	"fmt"

	"github.com/rangka/lumen/handler"
)

var traceKey = handler.NewContextKey("middleware.trace")

// Trace is the per-request record of executed middleware. It also carries the
// switch that disables middleware for the request.
type Trace struct {
	disabled bool
	stages   []Stage
}

// Attach creates a Trace and stores it in the request of ctx.
func Attach(ctx handler.Context, disabled bool) *Trace {
	t := &Trace{disabled: disabled}
	r := ctx.Request()
	ctx.SetRequest(r.WithContext(context.WithValue(r.Context(), traceKey, t)))
	return t
}

// TraceFrom returns the Trace of ctx or nil. A nil Trace is valid and inert.
func TraceFrom(ctx context.Context) *Trace {
	t, _ := ctx.Value(traceKey).(*Trace)
	return t
}

// Disabled reports whether middleware is switched off for the request.
func (t *Trace) Disabled() bool {
	return t != nil && t.disabled
}

// Stages returns the executed stages in order.
func (t *Trace) Stages() []Stage {
	if t == nil {
		return nil
	}
	return t.stages
}

func (t *Trace) record(stages []Stage) {
	if t == nil {
		return
	}
	t.stages = append(t.stages, stages...)
}

// Terminate calls every executed Terminable middleware in execution order.
// A panicking hook is reported through onPanic and does not stop the others.
func (t *Trace) Terminate(ctx handler.Context, resp *handler.Response, onPanic func(error)) {
	if t == nil || t.disabled {
		return
	}
	for _, st := range t.stages {
		term, ok := st.Middleware.(Terminable)
		if !ok {
			continue
		}
		func() {
			defer func() {
				if rec := recover(); rec != nil && onPanic != nil {
					onPanic(fmt.Errorf("%w: terminate %s: %v", handler.ErrPanic, st.Name, rec))
				}
			}()
			term.Terminate(ctx, resp)
		}()
	}
}
