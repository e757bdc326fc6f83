package session

import (
	"context"
	"net/http"

	"github.com/rangka/lumen/handler"
	"github.com/rangka/lumen/middleware"
)

type contextKey struct{}

// WithContext stores s in ctx.
func WithContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session started by Middleware.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}

// Middleware returns the "session" route middleware.
func Middleware(m *Manager) middleware.Middleware {
	return middleware.Func(func(ctx handler.Context, next middleware.Next, _ ...string) *handler.Response {
		r := ctx.Request()
		s, err := m.Start(r.Context(), r)
		if err != nil {
			return handler.TextWithStatus(http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		ctx.SetRequest(r.WithContext(WithContext(r.Context(), s)))

		resp := next(ctx)
		if err := m.Save(ctx, resp.Header(), s); err != nil {
			return handler.TextWithStatus(http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return resp
	})
}
