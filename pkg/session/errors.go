package session

import "errors"

var (
	ErrNotFound        = errors.New("session: not found")
	ErrExpired         = errors.New("session: expired")
	ErrNoToken         = errors.New("session: no token in request")
	ErrTokenGeneration = errors.New("session: token generation failed")
	ErrStore           = errors.New("session: store failure")
	ErrNoSession       = errors.New("session: not started")
)
