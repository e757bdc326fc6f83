package auth

import (
	"net/http"

	"github.com/rangka/lumen/handler"
	"github.com/rangka/lumen/middleware"
)

// Authenticate returns the "auth" route middleware. Its parameters name the
// guards to try in order ("auth:api,web"); without parameters the default
// guard is used. Guests receive 401 "Unauthorized.".
func Authenticate(m *Manager) middleware.Middleware {
	return middleware.Func(func(ctx handler.Context, next middleware.Next, guards ...string) *handler.Response {
		if len(guards) == 0 {
			guards = []string{""}
		}
		for _, name := range guards {
			u, err := m.Authenticate(ctx.Request(), name)
			if err != nil || u == nil {
				continue
			}
			ctx.SetRequest(ctx.Request().WithContext(WithUser(ctx.Request().Context(), u)))
			return next(ctx)
		}
		return handler.TextWithStatus("Unauthorized.", http.StatusUnauthorized)
	})
}
