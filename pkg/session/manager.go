package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"time"
)

// DefaultTTL is the idle lifetime of a session.
const DefaultTTL = 2 * time.Hour

// Option configures a Manager.
type Option func(*Manager)

// WithStore sets the store. The default is a MemoryStore.
func WithStore(s Store) Option {
	return func(m *Manager) {
		if s != nil {
			m.store = s
		}
	}
}

// WithTransport sets the transport. The default is a "lumen_session" cookie.
func WithTransport(t Transport) Option {
	return func(m *Manager) {
		if t != nil {
			m.transport = t
		}
	}
}

// WithTTL sets the idle lifetime. Every saved request extends it.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// Manager starts, saves and destroys sessions.
type Manager struct {
	store     Store
	transport Transport
	ttl       time.Duration
	now       func() time.Time
}

// NewManager creates a Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	if m.store == nil {
		m.store = NewMemoryStore()
	}
	if m.transport == nil {
		m.transport = NewCookieTransport("lumen_session", false)
	}
	return m
}

// Store returns the underlying store.
func (m *Manager) Store() Store { return m.store }

// Start loads the request's session or creates a new one. A new session is
// not persisted until Save.
func (m *Manager) Start(ctx context.Context, r *http.Request) (*Session, error) {
	if token, err := m.transport.Token(r); err == nil {
		s, err := m.store.Get(ctx, token)
		switch {
		case err == nil:
			return s, nil
		case !errors.Is(err, ErrNotFound):
			return nil, err
		}
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	return newSession(token, m.now(), m.ttl), nil
}

// Save extends the session's expiry, persists it and attaches its token to h.
func (m *Manager) Save(ctx context.Context, h http.Header, s *Session) error {
	s.ExpiresAt = m.now().Add(m.ttl)
	if s.previous != "" {
		if err := m.store.Delete(ctx, s.previous); err != nil {
			return err
		}
		s.previous = ""
	}
	if err := m.store.Save(ctx, s); err != nil {
		return err
	}
	m.transport.Attach(h, s.Token, m.ttl)
	return nil
}

// Regenerate gives s a new token. The old token is deleted on the next Save.
func (m *Manager) Regenerate(s *Session) error {
	token, err := generateToken()
	if err != nil {
		return err
	}
	if s.previous == "" {
		s.previous = s.Token
	}
	s.Token = token
	return nil
}

// Destroy deletes s and clears the client's token.
func (m *Manager) Destroy(ctx context.Context, h http.Header, s *Session) error {
	m.transport.Clear(h)
	if s.previous != "" {
		_ = m.store.Delete(ctx, s.previous)
	}
	return m.store.Delete(ctx, s.Token)
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
