package session

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// Session is the state kept for one client. ID is stable for the lifetime of
// the session; Token is the secret sent to the client and changes on Regenerate.
type Session struct {
	ID        uuid.UUID      `json:"id"`
	Token     string         `json:"token"`
	UserID    string         `json:"user_id,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at"`

	previous string
}

func newSession(token string, now time.Time, ttl time.Duration) *Session {
	return &Session{
		ID:        uuid.New(),
		Token:     token,
		Data:      make(map[string]any),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Authenticated reports whether a user is attached.
func (s *Session) Authenticated() bool {
	return s.UserID != ""
}

// Get returns a value.
func (s *Session) Get(key string) (any, bool) {
	v, ok := s.Data[key]
	return v, ok
}

// GetString returns a string value or "".
func (s *Session) GetString(key string) string {
	v, _ := s.Data[key].(string)
	return v
}

// Has reports whether key is set.
func (s *Session) Has(key string) bool {
	_, ok := s.Data[key]
	return ok
}

// Put sets a value.
func (s *Session) Put(key string, value any) {
	if s.Data == nil {
		s.Data = make(map[string]any)
	}
	s.Data[key] = value
}

// Pull returns a value and removes it.
func (s *Session) Pull(key string) (any, bool) {
	v, ok := s.Data[key]
	if ok {
		delete(s.Data, key)
	}
	return v, ok
}

// Forget removes keys.
func (s *Session) Forget(keys ...string) {
	for _, k := range keys {
		delete(s.Data, k)
	}
}

// Flush removes all data.
func (s *Session) Flush() {
	clear(s.Data)
}

// Login attaches userID. Callers should Regenerate the token afterwards.
func (s *Session) Login(userID string) {
	s.UserID = userID
}

// Logout detaches the user and flushes the data.
func (s *Session) Logout() {
	s.UserID = ""
	s.Flush()
}

// All returns a copy of the data.
func (s *Session) All() map[string]any {
	return maps.Clone(s.Data)
}
