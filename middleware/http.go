package middleware

import (
	"net/http"

	"github.com/rangka/lumen/handler"
)

// FromHTTP adapts a net/http middleware. The wrapped middleware may decorate the
// request (its context is propagated to ctx) or short-circuit by writing a
// response itself. Headers it sets before calling the next handler are copied
// onto the downstream response unless already present.
func FromHTTP(mw func(http.Handler) http.Handler) Middleware {
	return Func(func(ctx handler.Context, next Next, _ ...string) *handler.Response {
		var resp *handler.Response
		w := handler.NewResponseWriter()

		h := mw(http.HandlerFunc(func(hw http.ResponseWriter, r *http.Request) {
			ctx.SetRequest(r)
			resp = next(ctx)
			if resp == nil {
				return
			}
			for k, v := range hw.Header() {
				if _, exists := resp.Header()[k]; !exists {
					resp.Header()[k] = v
				}
			}
		}))
		h.ServeHTTP(w, ctx.Request())

		if resp == nil {
			return w.Response()
		}
		return resp
	})
}
