package lumen

import (
	"net/http"

	"github.com/rangka/lumen/handler"
)

// URL returns an absolute URL for path. The root is APP_URL, or the scheme and
// host of r when APP_URL is empty. r may be nil when APP_URL is set.
func (a *Application) URL(r *http.Request, path string, query handler.Params) string {
	return a.URLs().To(r, path, query)
}

// Route returns the absolute URL of the named route. Params that match no
// placeholder become the query string.
func (a *Application) Route(r *http.Request, name string, params handler.Params) (string, error) {
	return a.URLs().Route(r, name, params)
}

// RedirectToRoute returns a 302 response to the named route.
func (a *Application) RedirectToRoute(r *http.Request, name string, params handler.Params) (*handler.Response, error) {
	to, err := a.Route(r, name, params)
	if err != nil {
		return nil, err
	}
	return handler.Redirect(to), nil
}
