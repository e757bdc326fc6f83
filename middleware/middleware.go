package middleware

import "github.com/rangka/lumen/handler"

// Next invokes the rest of the chain.
type Next func(ctx handler.Context) *handler.Response

// Middleware wraps a Next continuation. Parameters declared as "name:a,b" are
// passed in order after next.
type Middleware interface {
	Handle(ctx handler.Context, next Next, params ...string) *handler.Response
}

// Func adapts a function to Middleware.
type Func func(ctx handler.Context, next Next, params ...string) *handler.Response

// Handle calls f.
func (f Func) Handle(ctx handler.Context, next Next, params ...string) *handler.Response {
	return f(ctx, next, params...)
}

// Terminable is implemented by middleware that wants to act once the response
// is complete. The return value of the chain is already fixed at that point;
// Terminate may still modify resp in place.
type Terminable interface {
	Terminate(ctx handler.Context, resp *handler.Response)
}
