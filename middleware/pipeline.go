package middleware

import (
	"fmt"

	"github.com/rangka/lumen/handler"
)

// Stage is a resolved middleware with its parameters.
type Stage struct {
	Entry
	Middleware Middleware
}

// Pipeline runs an ordered list of stages around a destination.
// Panics and nil responses anywhere in the chain are converted to error
// responses through the exception handler, so outer middleware always receives
// a *handler.Response.
type Pipeline struct {
	stages []Stage
	errors handler.ExceptionHandler
}

// NewPipeline creates a pipeline. A nil exception handler falls back to the
// default one with the default logger.
func NewPipeline(eh handler.ExceptionHandler, stages ...Stage) *Pipeline {
	if eh == nil {
		eh = handler.NewExceptionHandler(nil, false)
	}
	return &Pipeline{stages: stages, errors: eh}
}

// Stages returns the stages in execution order.
func (p *Pipeline) Stages() []Stage {
	return p.stages
}

// Then sends ctx through the stages and finally to destination.
// When the request carries a Trace, executed stages are recorded on it; a
// disabled Trace skips the stages entirely.
func (p *Pipeline) Then(ctx handler.Context, destination Next) *handler.Response {
	trace := TraceFrom(ctx)
	if trace.Disabled() || len(p.stages) == 0 {
		return p.guard(destination)(ctx)
	}
	trace.record(p.stages)

	next := p.guard(destination)
	for i := len(p.stages) - 1; i >= 0; i-- {
		stage, inner := p.stages[i], next
		next = p.guard(func(ctx handler.Context) *handler.Response {
			return stage.Middleware.Handle(ctx, inner, stage.Params...)
		})
	}
	return next(ctx)
}

// Fail reports err and renders it.
func (p *Pipeline) Fail(ctx handler.Context, err error) *handler.Response {
	p.errors.Report(ctx, err)
	return p.errors.Render(ctx, err)
}

func (p *Pipeline) guard(next Next) Next {
	return func(ctx handler.Context) (resp *handler.Response) {
		defer func() {
			if rec := recover(); rec != nil {
				err, ok := rec.(error)
				if ok {
					err = fmt.Errorf("%w: %w", handler.ErrPanic, err)
				} else {
					err = fmt.Errorf("%w: %v", handler.ErrPanic, rec)
				}
				resp = p.Fail(ctx, err)
			}
		}()

		if resp = next(ctx); resp == nil {
			resp = p.Fail(ctx, handler.ErrNilResponse)
		}
		return resp
	}
}
