package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rangka/lumen/handler"
	"github.com/rangka/lumen/router"
)

func namedRouter() *router.Router {
	r := router.New()
	noop := func() any { return nil }
	r.Get("/foo-bar", router.Attrs{As: "foo", Uses: noop})
	r.Get("/foo-bar/{baz}/{boom}", router.Attrs{As: "bar", Uses: noop})
	r.Get("/foo-bar/{baz:[0-9]+}/{boom}", router.Attrs{As: "regex", Uses: noop})
	r.Get("/foo-bar/{baz:[0-9]+}/{boom:[0-9]+}", router.Attrs{As: "baz", Uses: noop})
	r.Get("/foo-bar/{baz:[0-9]{2,5}}", router.Attrs{As: "boom", Uses: noop})
	r.Get("/show/{id}.{format:json|xml}", router.Attrs{As: "show", Uses: noop})
	return r
}

func TestURL(t *testing.T) {
	t.Parallel()

	r := namedRouter()

	tests := []struct {
		name   string
		route  string
		params handler.Params
		want   string
	}{
		{"static", "foo", nil, "/foo-bar"},
		{"placeholders", "bar", handler.P("baz", 1, "boom", 2), "/foo-bar/1/2"},
		{"extra params become query in order", "foo", handler.P("baz", 1, "boom", 2), "/foo-bar?baz=1&boom=2"},
		{"mixed", "bar", handler.P("page", 3, "baz", 1, "boom", 2, "a", "x y"), "/foo-bar/1/2?page=3&a=x+y"},
		{"regex placeholder", "regex", handler.P("baz", 1, "boom", 2), "/foo-bar/1/2"},
		{"two regex placeholders", "baz", handler.P("baz", 1, "boom", 2), "/foo-bar/1/2"},
		{"regex with quantifier braces", "boom", handler.P("baz", 5), "/foo-bar/5"},
		{"constraint not validated", "boom", handler.P("baz", "abc"), "/foo-bar/abc"},
		{"placeholders within a segment", "show", handler.P("format", "xml", "id", 25), "/show/25.xml"},
		{"values are escaped", "bar", handler.P("baz", "a/b", "boom", "c d"), "/foo-bar/a%2Fb/c%20d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := r.URL(tt.route, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestURL_Errors(t *testing.T) {
	t.Parallel()

	r := namedRouter()

	_, err := r.URL("missing", nil)
	require.ErrorIs(t, err, router.ErrRouteNotFound)

	// Keys that match none of the placeholders cannot produce a usable path.
	_, err = r.URL("baz", handler.P("ba", 1, "bo", 2))
	require.ErrorIs(t, err, router.ErrMissingRouteParameter)
}

func TestVersioning(t *testing.T) {
	t.Parallel()

	v := router.Versioning{
		Namespace: `App\Http\Transformers`,
		Supported: map[string]string{"v1": "V1", "v2": "V2"},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "v1", v.Version(req))
	assert.Equal(t, `App\Http\Transformers\users\V1\user\Profile`, v.ResourceName(req, "users", "user.Profile"))

	req.Header.Set("Accept", "application/vnd.myapp.v2+json")
	assert.Equal(t, "v2", v.Version(req))
	assert.Equal(t, `App\Http\Transformers\users\V2\User`, v.ResourceName(req, "users", "User"))

	req.Header.Set("Accept", "text/html, application/vnd.myapp.v9+json")
	assert.Equal(t, "v9", v.Version(req))
	assert.Equal(t, router.BaseVersionNamespace, v.VersionNamespace(req))
}

func TestURLGenerator(t *testing.T) {
	t.Parallel()

	r := router.New()
	r.Get("/foo-bar", router.Attrs{As: "foo", Uses: func() any { return nil }})
	r.Get("/foo-bar/{baz}/{boom}", router.Attrs{As: "bar", Uses: func() any { return nil }})

	req := httptest.NewRequest(http.MethodGet, "http://lumen.example.com/", nil)

	t.Run("request root", func(t *testing.T) {
		g := router.NewURLGenerator(r, "")
		assert.Equal(t, "http://lumen.example.com/something", g.To(req, "something", nil))
		assert.Equal(t, "http://lumen.example.com/something?page=2", g.To(req, "/something/", handler.P("page", 2)))
		assert.Equal(t, "https://other.example.com/x?a=1", g.To(req, "https://other.example.com/x", handler.P("a", 1)))

		u, err := g.Route(req, "foo", nil)
		require.NoError(t, err)
		assert.Equal(t, "http://lumen.example.com/foo-bar", u)

		u, err = g.Route(req, "bar", handler.P("baz", 1, "boom", 2))
		require.NoError(t, err)
		assert.Equal(t, "http://lumen.example.com/foo-bar/1/2", u)

		u, err = g.Route(req, "foo", handler.P("baz", 1, "boom", 2))
		require.NoError(t, err)
		assert.Equal(t, "http://lumen.example.com/foo-bar?baz=1&boom=2", u)
	})

	t.Run("forwarded proto", func(t *testing.T) {
		fwd := httptest.NewRequest(http.MethodGet, "http://lumen.example.com/", nil)
		fwd.Header.Set("X-Forwarded-Proto", "https")
		assert.Equal(t, "https://lumen.example.com", router.NewURLGenerator(r, "").Root(fwd))
	})

	t.Run("configured base", func(t *testing.T) {
		g := router.NewURLGenerator(r, "https://api.example.com/")
		assert.Equal(t, "https://api.example.com/something", g.To(req, "something", nil))
		assert.Equal(t, "https://api.example.com/something", g.To(nil, "something", nil))
	})

	t.Run("unknown route", func(t *testing.T) {
		_, err := router.NewURLGenerator(r, "").Route(req, "missing", nil)
		require.ErrorIs(t, err, router.ErrRouteNotFound)
	})
}
