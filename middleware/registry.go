package middleware

import (
	"fmt"
	"sync"
)

// Registry maps route middleware names to implementations.
type Registry struct {
	mu    sync.RWMutex
	items map[string]Middleware
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]Middleware)}
}

// Register binds name to mw, replacing any previous binding.
func (r *Registry) Register(name string, mw Middleware) error {
	if name == "" {
		return ErrEmptyName
	}
	if mw == nil {
		return ErrNilMiddleware
	}
	r.mu.Lock()
	r.items[name] = mw
	r.mu.Unlock()
	return nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.items[name]
	return ok
}

// Resolve turns entries into executable stages.
func (r *Registry) Resolve(entries []Entry) ([]Stage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stages := make([]Stage, 0, len(entries))
	for _, e := range entries {
		mw, ok := r.items[e.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMiddleware, e.Name)
		}
		stages = append(stages, Stage{Entry: e, Middleware: mw})
	}
	return stages, nil
}
