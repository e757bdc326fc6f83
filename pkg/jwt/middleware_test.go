package jwt_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rangka/lumen/pkg/jwt"
	"github.com/rangka/lumen/pkg/jwt/jwttest"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	svc, err := jwt.NewFromString("secret")
	require.NoError(t, err)

	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := jwt.ClaimsFromContext(r.Context())
		if !ok {
			_, _ = w.Write([]byte("guest"))
			return
		}
		token, _ := jwt.TokenFromContext(r.Context())
		assert.NotEmpty(t, token)
		_, _ = w.Write([]byte(claims.Subject()))
	})

	do := func(h http.Handler, authorization string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	strict := jwt.Middleware(svc)(echo)

	rec := do(strict, jwttest.AuthorizationBearer(t, svc, jwttest.User{ID: "1234"}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1234", rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(strict, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(strict, "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, do(strict, "Bearer not.a.token").Code)

	optional := jwt.Middleware(svc, jwt.Optional())(echo)
	assert.Equal(t, "guest", do(optional, "").Body.String())
	assert.Equal(t, http.StatusUnauthorized, do(optional, "Bearer broken").Code)
}

func TestExtractors(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/?token=from-query", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: "from-cookie"})

	token, err := jwt.QueryExtractor("token")(req)
	require.NoError(t, err)
	assert.Equal(t, "from-query", token)

	token, err = jwt.CookieExtractor("jwt")(req)
	require.NoError(t, err)
	assert.Equal(t, "from-cookie", token)

	token, err = jwt.ChainExtractors(jwt.BearerExtractor, jwt.CookieExtractor("jwt"))(req)
	require.NoError(t, err)
	assert.Equal(t, "from-cookie", token)

	_, err = jwt.ChainExtractors(jwt.BearerExtractor)(req)
	require.ErrorIs(t, err, jwt.ErrNoToken)

	req.Header.Set("Authorization", "bearer  abc ")
	token, err = jwt.BearerExtractor(req)
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
}
