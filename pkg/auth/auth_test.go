package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rangka/lumen/handler"
	"github.com/rangka/lumen/pkg/auth"
	"github.com/rangka/lumen/pkg/jwt"
	"github.com/rangka/lumen/pkg/jwt/jwttest"
)

func TestManagerViaRequest(t *testing.T) {
	t.Parallel()

	m := auth.NewManager("api")
	require.NoError(t, m.ViaRequest("api", func(r *http.Request) auth.Authenticatable {
		if r.Header.Get("X-User") == "" {
			return nil
		}
		return auth.GenericUser{ID: r.Header.Get("X-User")}
	}))
	require.ErrorIs(t, m.ViaRequest("nil", nil), auth.ErrNilGuard)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, m.User(req))
	assert.False(t, m.Check(req))

	req.Header.Set("X-User", "1234")
	u := m.User(req)
	require.NotNil(t, u)
	assert.Equal(t, "1234", u.AuthIdentifier())

	resolved := m.Resolver()(req)
	assert.Equal(t, "1234", resolved.(auth.Authenticatable).AuthIdentifier())
	assert.Nil(t, m.Resolver()(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestManagerGuards(t *testing.T) {
	t.Parallel()

	m := auth.NewManager("web")
	_, err := m.Guard("")
	require.ErrorIs(t, err, auth.ErrGuardNotDefined)
	assert.Nil(t, m.User(httptest.NewRequest(http.MethodGet, "/", nil)))

	require.NoError(t, m.ViaRequest("api", func(*http.Request) auth.Authenticatable { return auth.GenericUser{ID: "7"} }))
	m.SetDefaultGuard("api")
	assert.Equal(t, "api", m.DefaultGuard())
	assert.Equal(t, "7", m.User(httptest.NewRequest(http.MethodGet, "/", nil)).AuthIdentifier())

	cached := httptest.NewRequest(http.MethodGet, "/", nil)
	cached = cached.WithContext(auth.WithUser(cached.Context(), auth.GenericUser{ID: "cached"}))
	u, err := m.Authenticate(cached, "missing")
	require.NoError(t, err)
	assert.Equal(t, "cached", u.AuthIdentifier())
}

func TestJWTGuard(t *testing.T) {
	t.Parallel()

	svc, err := jwt.NewFromString("secret")
	require.NoError(t, err)

	bearer := jwttest.AuthorizationBearer(t, svc, auth.GenericUser{ID: "1234", Attributes: map[string]any{"role": "admin"}})

	t.Run("claims only", func(t *testing.T) {
		g := auth.NewJWTGuard(svc)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", bearer)

		u, err := g.User(req)
		require.NoError(t, err)
		gu := u.(auth.GenericUser)
		assert.Equal(t, "1234", gu.ID)
		assert.Equal(t, "admin", gu.Get("role"))

		_, err = g.User(httptest.NewRequest(http.MethodGet, "/", nil))
		require.ErrorIs(t, err, auth.ErrUnauthenticated)

		req.Header.Set("Authorization", "Bearer garbage")
		_, err = g.User(req)
		require.ErrorIs(t, err, auth.ErrUnauthenticated)
	})

	t.Run("provider", func(t *testing.T) {
		g := auth.NewJWTGuard(svc, auth.WithUserProvider(auth.UserProviderFunc(func(_ context.Context, id string) (auth.Authenticatable, error) {
			if id != "1234" {
				return nil, errors.New("no such user")
			}
			return auth.GenericUser{ID: "user-" + id}, nil
		})))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", bearer)
		u, err := g.User(req)
		require.NoError(t, err)
		assert.Equal(t, "user-1234", u.AuthIdentifier())

		other := jwttest.AuthorizationBearer(t, svc, auth.GenericUser{ID: "9"})
		req.Header.Set("Authorization", other)
		_, err = g.User(req)
		require.ErrorIs(t, err, auth.ErrUnauthenticated)
	})

	t.Run("claims from middleware", func(t *testing.T) {
		g := auth.NewJWTGuard(svc)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(jwt.WithClaims(req.Context(), jwt.Claims{"sub": "from-ctx"}))
		u, err := g.User(req)
		require.NoError(t, err)
		assert.Equal(t, "from-ctx", u.AuthIdentifier())
	})
}

func TestAuthenticateMiddleware(t *testing.T) {
	t.Parallel()

	m := auth.NewManager("api")
	require.NoError(t, m.ViaRequest("api", func(r *http.Request) auth.Authenticatable {
		if r.Header.Get("X-User") == "" {
			return nil
		}
		return auth.GenericUser{ID: r.Header.Get("X-User")}
	}))
	require.NoError(t, m.ViaRequest("admin", func(*http.Request) auth.Authenticatable { return nil }))

	mw := auth.Authenticate(m)
	next := func(ctx handler.Context) *handler.Response {
		u, ok := auth.UserFromContext(ctx.Request().Context())
		require.True(t, ok)
		return handler.Text(u.AuthIdentifier())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := mw.Handle(handler.NewContext(req), next)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
	assert.Equal(t, "Unauthorized.", resp.Content())

	req.Header.Set("X-User", "1234")
	resp = mw.Handle(handler.NewContext(req), next)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "1234", resp.Content())

	resp = mw.Handle(handler.NewContext(req), next, "admin")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())

	resp = mw.Handle(handler.NewContext(req), next, "admin", "api")
	assert.Equal(t, "1234", resp.Content())
}

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	h := auth.NewBcryptHasher(4)
	hash, err := h.Make("secret")
	require.NoError(t, err)
	assert.True(t, h.Check("secret", hash))
	assert.False(t, h.Check("wrong", hash))
	assert.False(t, h.NeedsRehash(hash))
	assert.True(t, auth.NewBcryptHasher(5).NeedsRehash(hash))
	assert.True(t, h.NeedsRehash("not-a-hash"))

	_, err = h.Make(string(make([]byte, 73)))
	require.ErrorIs(t, err, auth.ErrPasswordTooLong)
}
