package router

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/rangka/lumen/handler"
)

// URLGenerator builds absolute URLs for paths and named routes. The root is
// Base when set, otherwise the scheme and host of the current request.
type URLGenerator struct {
	Router *Router
	Base   string
}

// NewURLGenerator creates a generator for r rooted at base.
func NewURLGenerator(r *Router, base string) *URLGenerator {
	return &URLGenerator{Router: r, Base: strings.TrimRight(base, "/")}
}

// Root returns the URL root used for req.
func (g *URLGenerator) Root(req *http.Request) string {
	if g.Base != "" || req == nil {
		return g.Base
	}
	scheme := "http"
	if req.TLS != nil {
		scheme = "https"
	}
	if proto := req.Header.Get("X-Forwarded-Proto"); proto == "https" || proto == "http" {
		scheme = proto
	}
	host := req.Host
	if host == "" {
		host = req.URL.Host
	}
	if host == "" {
		return ""
	}
	return scheme + "://" + host
}

// To joins path to the root and appends query. Absolute URLs are returned
// with only the query appended.
//
//	g.To(req, "something", nil) // "http://lumen.example.com/something"
func (g *URLGenerator) To(req *http.Request, path string, query handler.Params) string {
	var out string
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		out = path
	} else {
		out = g.Root(req) + "/" + strings.Trim(path, "/")
	}
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(out, "?") {
			sep = "&"
		}
		out += sep + query.Encode()
	}
	return out
}

// Route returns the absolute URL of the named route.
func (g *URLGenerator) Route(req *http.Request, name string, params handler.Params) (string, error) {
	path, err := g.Router.URL(name, params)
	if err != nil {
		return "", err
	}
	return g.Root(req) + path, nil
}
