package cache

import "errors"

var (
	// ErrMiss is returned when a key is not present or has expired.
	ErrMiss = errors.New("cache: miss")
	// ErrEmptyKey is returned for empty keys.
	ErrEmptyKey = errors.New("cache: empty key")
	// ErrEncode is returned when a value cannot be marshalled or unmarshalled.
	ErrEncode = errors.New("cache: encoding failed")
	// ErrStore wraps failures of the underlying store.
	ErrStore = errors.New("cache: store failure")
)
