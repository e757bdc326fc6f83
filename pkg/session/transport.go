package session

import (
	"net/http"
	"strings"
	"time"
)

// Transport moves the session token between client and server.
type Transport interface {
	Token(r *http.Request) (string, error)
	Attach(h http.Header, token string, ttl time.Duration)
	Clear(h http.Header)
}

// Cipher protects cookie values. encrypter.Encrypter satisfies it.
type Cipher interface {
	EncryptString(plaintext string) (string, error)
	DecryptString(ciphertext string) (string, error)
}

// CookieTransport stores the token in an HttpOnly, SameSite=Lax cookie.
type CookieTransport struct {
	Name   string
	Path   string
	Domain string
	Secure bool
	Cipher Cipher
}

// NewCookieTransport creates a transport for the named cookie at path "/".
func NewCookieTransport(name string, secure bool) *CookieTransport {
	return &CookieTransport{Name: name, Path: "/", Secure: secure}
}

func (t *CookieTransport) Token(r *http.Request) (string, error) {
	c, err := r.Cookie(t.Name)
	if err != nil || c.Value == "" {
		return "", ErrNoToken
	}
	if t.Cipher == nil {
		return c.Value, nil
	}
	token, err := t.Cipher.DecryptString(c.Value)
	if err != nil {
		return "", ErrNoToken
	}
	return token, nil
}

func (t *CookieTransport) Attach(h http.Header, token string, ttl time.Duration) {
	value := token
	if t.Cipher != nil {
		encrypted, err := t.Cipher.EncryptString(token)
		if err != nil {
			return
		}
		value = encrypted
	}
	t.write(h, value, int(ttl.Seconds()))
}

func (t *CookieTransport) Clear(h http.Header) {
	t.write(h, "", -1)
}

func (t *CookieTransport) write(h http.Header, value string, maxAge int) {
	c := &http.Cookie{
		Name:     t.Name,
		Value:    value,
		Path:     t.Path,
		Domain:   t.Domain,
		MaxAge:   maxAge,
		Secure:   t.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if v := c.String(); v != "" {
		h.Add("Set-Cookie", v)
	}
}

// HeaderTransport carries the token in a request and response header, for API clients.
type HeaderTransport struct {
	Name string
}

func (t HeaderTransport) Token(r *http.Request) (string, error) {
	token := strings.TrimSpace(r.Header.Get(t.Name))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

func (t HeaderTransport) Attach(h http.Header, token string, _ time.Duration) {
	h.Set(t.Name, token)
}

func (t HeaderTransport) Clear(h http.Header) {
	h.Del(t.Name)
}
