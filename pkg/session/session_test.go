package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rangka/lumen/handler"
	"github.com/rangka/lumen/pkg/session"
)

func cookieFrom(t *testing.T, h http.Header, name string) *http.Cookie {
	t.Helper()
	resp := http.Response{Header: h}
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestSessionData(t *testing.T) {
	t.Parallel()

	m := session.NewManager()
	s, err := m.Start(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	s.Put("name", "Taylor")
	assert.True(t, s.Has("name"))
	assert.Equal(t, "Taylor", s.GetString("name"))

	v, ok := s.Pull("name")
	assert.True(t, ok)
	assert.Equal(t, "Taylor", v)
	assert.False(t, s.Has("name"))

	s.Put("a", 1)
	s.Put("b", 2)
	s.Forget("a")
	assert.Equal(t, map[string]any{"b": 2}, s.All())

	s.Login("1234")
	assert.True(t, s.Authenticated())
	s.Logout()
	assert.False(t, s.Authenticated())
	assert.Empty(t, s.All())
}

func TestManagerRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()
	m := session.NewManager(session.WithStore(store), session.WithTTL(time.Hour))

	s, err := m.Start(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	s.Put("cart", "3 items")

	h := http.Header{}
	require.NoError(t, m.Save(ctx, h, s))
	c := cookieFrom(t, h, "lumen_session")
	assert.True(t, c.HttpOnly)
	assert.Equal(t, 3600, c.MaxAge)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	loaded, err := m.Start(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, s.ID, loaded.ID)
	assert.Equal(t, "3 items", loaded.GetString("cart"))

	oldToken := loaded.Token
	require.NoError(t, m.Regenerate(loaded))
	require.NoError(t, m.Save(ctx, http.Header{}, loaded))
	_, err = store.Get(ctx, oldToken)
	require.ErrorIs(t, err, session.ErrNotFound)
	assert.Equal(t, 1, store.Len())

	cleared := http.Header{}
	require.NoError(t, m.Destroy(ctx, cleared, loaded))
	assert.Equal(t, -1, cookieFrom(t, cleared, "lumen_session").MaxAge)
	assert.Zero(t, store.Len())
}

func TestManagerUnknownTokenStartsFresh(t *testing.T) {
	t.Parallel()

	m := session.NewManager(session.WithTransport(session.HeaderTransport{Name: "X-Session"}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Session", "unknown")

	s, err := m.Start(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, "unknown", s.Token)

	h := http.Header{}
	require.NoError(t, m.Save(context.Background(), h, s))
	assert.Equal(t, s.Token, h.Get("X-Session"))
}

func TestMemoryStoreExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()
	m := session.NewManager(session.WithStore(store), session.WithTTL(time.Millisecond))

	s, err := m.Start(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.NoError(t, m.Save(ctx, http.Header{}, s))

	require.Eventually(t, func() bool {
		_, err := store.Get(ctx, s.Token)
		return err != nil
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, store.DeleteExpired(ctx))
}

type reverseCipher struct{}

func (reverseCipher) EncryptString(s string) (string, error) { return "enc:" + s, nil }
func (reverseCipher) DecryptString(s string) (string, error) {
	if len(s) < 4 || s[:4] != "enc:" {
		return "", assert.AnError
	}
	return s[4:], nil
}

func TestCookieTransportCipher(t *testing.T) {
	t.Parallel()

	tr := session.NewCookieTransport("sid", true)
	tr.Cipher = reverseCipher{}

	h := http.Header{}
	tr.Attach(h, "token", time.Minute)
	c := cookieFrom(t, h, "sid")
	assert.Equal(t, "enc:token", c.Value)
	assert.True(t, c.Secure)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: c.Value})
	token, err := tr.Token(req)
	require.NoError(t, err)
	assert.Equal(t, "token", token)

	bad := httptest.NewRequest(http.MethodGet, "/", nil)
	bad.AddCookie(&http.Cookie{Name: "sid", Value: "plain"})
	_, err = tr.Token(bad)
	require.ErrorIs(t, err, session.ErrNoToken)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	m := session.NewManager()
	mw := session.Middleware(m)

	visit := func(cookie *http.Cookie) *handler.Response {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		return mw.Handle(handler.NewContext(req), func(ctx handler.Context) *handler.Response {
			s, ok := session.FromContext(ctx)
			require.True(t, ok)
			n, _ := s.Get("visits")
			count, _ := n.(int)
			s.Put("visits", count+1)
			return handler.Text("ok")
		})
	}

	first := visit(nil)
	c := cookieFrom(t, first.Header(), "lumen_session")
	visit(&http.Cookie{Name: c.Name, Value: c.Value})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	s, err := m.Start(context.Background(), req)
	require.NoError(t, err)
	v, _ := s.Get("visits")
	assert.Equal(t, 2, v)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	store := session.NewRedisStore(client, "lumen-test:session:")
	m := session.NewManager(session.WithStore(store))

	s, err := m.Start(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	s.Put("k", "v")
	require.NoError(t, m.Save(ctx, http.Header{}, s))

	loaded, err := store.Get(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, "v", loaded.GetString("k"))
	require.NoError(t, store.Delete(ctx, s.Token))
	_, err = store.Get(ctx, s.Token)
	require.ErrorIs(t, err, session.ErrNotFound)
}
