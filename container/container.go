package container

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Factory builds a service. The resolver passed in must be used for nested lookups
// so that dependency cycles are detected instead of deadlocking.
type Factory func(r Resolver) (any, error)

// Resolver looks up services by id.
type Resolver interface {
	resolve(id ServiceID, chain []ServiceID) (any, error)
}

type binding struct {
	factory Factory

	mu    sync.Mutex
	done  bool
	value any
	err   error
}

// Container is a typed registry of lazily constructed singletons.
// Each binding is built on first resolution and memoized afterwards.
type Container struct {
	mu       sync.RWMutex
	bindings map[ServiceID]*binding
}

// New creates an empty container.
func New() *Container {
	return &Container{bindings: make(map[ServiceID]*binding)}
}

// Bind registers a lazy singleton factory for id, replacing any previous binding.
func (c *Container) Bind(id ServiceID, f Factory) error {
	if f == nil {
		return ErrNilFactory
	}
	c.mu.Lock()
	c.bindings[id] = &binding{factory: f}
	c.mu.Unlock()
	return nil
}

// Instance registers an already constructed service.
func (c *Container) Instance(id ServiceID, v any) {
	c.mu.Lock()
	c.bindings[id] = &binding{done: true, value: v}
	c.mu.Unlock()
}

// Bound reports whether id has a binding.
func (c *Container) Bound(id ServiceID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.bindings[id]
	return ok
}

// Resolved reports whether id has been constructed already.
func (c *Container) Resolved(id ServiceID) bool {
	c.mu.RLock()
	b, ok := c.bindings[id]
	c.mu.RUnlock()
	if !ok {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.done
}

// Forget drops the memoized value for id so the next resolution rebuilds it.
func (c *Container) Forget(id ServiceID) {
	c.mu.RLock()
	b, ok := c.bindings[id]
	c.mu.RUnlock()
	if !ok || b.factory == nil {
		return
	}
	b.mu.Lock()
	b.done, b.value, b.err = false, nil, nil
	b.mu.Unlock()
}

func (c *Container) resolve(id ServiceID, chain []ServiceID) (any, error) {
	if slices.Contains(chain, id) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrCircularDependency, formatChain(chain), id)
	}

	c.mu.RLock()
	b, ok := c.bindings[id]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotBound, id)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done {
		return b.value, b.err
	}

	v, err := b.factory(&scope{c: c, chain: append(slices.Clone(chain), id)})
	if err != nil {
		// Circular dependency errors are not memoized; the binding may resolve
		// fine from another entry point.
		if errors.Is(err, ErrCircularDependency) {
			return nil, err
		}
		err = errors.Join(ErrFactoryFailed, fmt.Errorf("%s: %w", id, err))
	}
	b.done, b.value, b.err = true, v, err
	return v, err
}

// scope is the resolver handed to factories. It carries the resolution chain.
type scope struct {
	c     *Container
	chain []ServiceID
}

func (s *scope) resolve(id ServiceID, chain []ServiceID) (any, error) {
	return s.c.resolve(id, append(slices.Clone(s.chain), chain...))
}

func formatChain(chain []ServiceID) string {
	names := make([]string, len(chain))
	for i, id := range chain {
		names[i] = id.String()
	}
	return strings.Join(names, " -> ")
}

// Resolve returns the service bound to id as T.
//
// Example:
//
//	log, err := container.Resolve[*slog.Logger](c, container.Log)
func Resolve[T any](r Resolver, id ServiceID) (T, error) {
	var zero T
	v, err := r.resolve(id, nil)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T, want %T", ErrTypeMismatch, id, v, zero)
	}
	return typed, nil
}

// MustResolve works like Resolve but panics on failure.
func MustResolve[T any](r Resolver, id ServiceID) T {
	v, err := Resolve[T](r, id)
	if err != nil {
		panic(err)
	}
	return v
}
