package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"
)

type userContextKey struct{}

// WithUser caches u on ctx. Manager.User returns it without consulting a guard.
func WithUser(ctx context.Context, u Authenticatable) context.Context {
	return context.WithValue(ctx, userContextKey{}, u)
}

// UserFromContext returns the user cached by WithUser.
func UserFromContext(ctx context.Context) (Authenticatable, bool) {
	u, ok := ctx.Value(userContextKey{}).(Authenticatable)
	return u, ok && u != nil
}

// Manager is a registry of named guards.
type Manager struct {
	mu           sync.RWMutex
	guards       map[string]Guard
	defaultGuard string
}

// NewManager creates a Manager whose default guard is defaultGuard.
func NewManager(defaultGuard string) *Manager {
	return &Manager{guards: make(map[string]Guard), defaultGuard: defaultGuard}
}

// Extend registers g under name, replacing any existing guard.
func (m *Manager) Extend(name string, g Guard) error {
	if g == nil {
		return ErrNilGuard
	}
	m.mu.Lock()
	m.guards[name] = g
	m.mu.Unlock()
	return nil
}

// ViaRequest registers a callback guard under name.
func (m *Manager) ViaRequest(name string, fn func(r *http.Request) Authenticatable) error {
	if fn == nil {
		return ErrNilGuard
	}
	return m.Extend(name, RequestGuard(fn))
}

// Guard returns the guard registered under name. An empty name selects the default.
func (m *Manager) Guard(name string) (Guard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if name == "" {
		name = m.defaultGuard
	}
	g, ok := m.guards[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrGuardNotDefined, name)
	}
	return g, nil
}

// DefaultGuard returns the default guard's name.
func (m *Manager) DefaultGuard() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultGuard
}

// SetDefaultGuard changes the default guard.
func (m *Manager) SetDefaultGuard(name string) {
	m.mu.Lock()
	m.defaultGuard = name
	m.mu.Unlock()
}

// Authenticate resolves the request's user with the named guard.
func (m *Manager) Authenticate(r *http.Request, guard string) (Authenticatable, error) {
	if u, ok := UserFromContext(r.Context()); ok {
		return u, nil
	}
	g, err := m.Guard(guard)
	if err != nil {
		return nil, err
	}
	return g.User(r)
}

// User returns the default guard's user, or nil for guests and errors.
func (m *Manager) User(r *http.Request) Authenticatable {
	u, err := m.Authenticate(r, "")
	if err != nil {
		return nil
	}
	return u
}

// Check reports whether the request is authenticated by the default guard.
func (m *Manager) Check(r *http.Request) bool {
	return m.User(r) != nil
}

// Resolver adapts User to handler.UserResolver.
func (m *Manager) Resolver() func(r *http.Request) any {
	return func(r *http.Request) any {
		if u := m.User(r); u != nil {
			return u
		}
		return nil
	}
}
