package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Repository stores JSON-encoded values in a Store.
type Repository struct {
	store      Store
	defaultTTL time.Duration
}

// NewRepository wraps store. defaultTTL is used by Put when ttl is negative.
func NewRepository(store Store, defaultTTL time.Duration) *Repository {
	return &Repository{store: store, defaultTTL: defaultTTL}
}

// Store returns the underlying store.
func (r *Repository) Store() Store { return r.store }

// Get decodes the value at key into dst. It returns ErrMiss when absent.
func (r *Repository) Get(ctx context.Context, key string, dst any) error {
	if key == "" {
		return ErrEmptyKey
	}
	raw, err := r.store.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.Join(ErrEncode, err)
	}
	return nil
}

// Has reports whether key is present.
func (r *Repository) Has(ctx context.Context, key string) bool {
	if key == "" {
		return false
	}
	_, err := r.store.Get(ctx, key)
	return err == nil
}

// Put stores v for ttl. A negative ttl uses the default; zero never expires.
func (r *Repository) Put(ctx context.Context, key string, v any, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Join(ErrEncode, err)
	}
	if ttl < 0 {
		ttl = r.defaultTTL
	}
	return r.store.Put(ctx, key, raw, ttl)
}

// Forever stores v without expiry.
func (r *Repository) Forever(ctx context.Context, key string, v any) error {
	return r.Put(ctx, key, v, 0)
}

// Forget removes key.
func (r *Repository) Forget(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return r.store.Forget(ctx, key)
}

// Flush removes every entry.
func (r *Repository) Flush(ctx context.Context) error {
	return r.store.Flush(ctx)
}

// Pull returns the value at key and removes it.
func Pull[T any](ctx context.Context, r *Repository, key string) (T, error) {
	var v T
	if err := r.Get(ctx, key, &v); err != nil {
		return v, err
	}
	return v, r.Forget(ctx, key)
}

// Remember returns the cached value at key, or calls fn and caches its result
// for ttl. Errors from fn are returned and nothing is cached.
func Remember[T any](ctx context.Context, r *Repository, key string, ttl time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	var v T
	err := r.Get(ctx, key, &v)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, ErrMiss) && !errors.Is(err, ErrEncode) {
		return v, err
	}

	v, err = fn(ctx)
	if err != nil {
		return v, err
	}
	return v, r.Put(ctx, key, v, ttl)
}
