package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Repository is a concurrency-safe tree of settings addressed by dot keys.
type Repository struct {
	mu    sync.RWMutex
	items map[string]any
}

// NewRepository returns a repository seeded with a deep copy of items.
func NewRepository(items map[string]any) *Repository {
	r := &Repository{items: make(map[string]any)}
	for k, v := range items {
		_ = r.Set(k, v)
	}
	return r
}

// Has reports whether key resolves to a value.
func (r *Repository) Has(key string) bool {
	_, ok := r.lookup(key)
	return ok
}

// Get returns the value at key or def.
func (r *Repository) Get(key string, def any) any {
	if v, ok := r.lookup(key); ok {
		return v
	}
	return def
}

// String returns the value at key formatted as a string, or def when missing.
func (r *Repository) String(key, def string) string {
	v, ok := r.lookup(key)
	if !ok || v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Bool returns the boolean at key. Strings are parsed with strconv.ParseBool.
func (r *Repository) Bool(key string, def bool) bool {
	switch v := r.Get(key, nil).(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// Int returns the integer at key. Strings are parsed with strconv.Atoi.
func (r *Repository) Int(key string, def int) int {
	switch v := r.Get(key, nil).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// Duration returns the duration at key. Strings use time.ParseDuration and
// integers are read as seconds.
func (r *Repository) Duration(key string, def time.Duration) time.Duration {
	switch v := r.Get(key, nil).(type) {
	case time.Duration:
		return v
	case int:
		return time.Duration(v) * time.Second
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// Set stores value at key, creating intermediate maps. Map values are merged
// into existing maps rather than replacing them.
func (r *Repository) Set(key string, value any) error {
	segments, err := split(key)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	node := r.items
	for _, seg := range segments[:len(segments)-1] {
		child, ok := node[seg].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[seg] = child
		}
		node = child
	}

	last := segments[len(segments)-1]
	if m, ok := normalize(value).(map[string]any); ok {
		if existing, ok := node[last].(map[string]any); ok {
			merge(existing, m)
			return nil
		}
		node[last] = m
		return nil
	}
	node[last] = normalize(value)
	return nil
}

// All returns a deep copy of every setting.
func (r *Repository) All() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return deepCopy(r.items)
}

// LoadFile decodes the YAML document at path and merges it under key.
func (r *Repository) LoadFile(key, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Join(ErrLoadingFile, err)
	}
	return r.LoadYAML(key, data)
}

// LoadYAML decodes data and merges it under key.
func (r *Repository) LoadYAML(key string, data []byte) error {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.Join(ErrLoadingFile, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return r.Set(key, doc)
}

func (r *Repository) lookup(key string) (any, bool) {
	segments, err := split(key)
	if err != nil {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var cur any = r.items
	for _, seg := range segments {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[seg]; !ok {
			return nil, false
		}
	}
	if m, ok := cur.(map[string]any); ok {
		return deepCopy(m), true
	}
	return cur, true
}

func split(key string) ([]string, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}
	segments := strings.Split(key, ".")
	for _, s := range segments {
		if s == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return segments, nil
}

// normalize converts map[any]any and nested maps into map[string]any copies.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}

func merge(dst, src map[string]any) {
	for k, v := range src {
		if sm, ok := v.(map[string]any); ok {
			if dm, ok := dst[k].(map[string]any); ok {
				merge(dm, sm)
				continue
			}
		}
		dst[k] = v
	}
}

func deepCopy(m map[string]any) map[string]any {
	out := maps.Clone(m)
	for k, v := range out {
		if child, ok := v.(map[string]any); ok {
			out[k] = deepCopy(child)
		}
	}
	return out
}
