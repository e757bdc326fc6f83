package auth

import "errors"

var (
	ErrUnauthenticated  = errors.New("auth: unauthenticated")
	ErrGuardNotDefined  = errors.New("auth: guard is not defined")
	ErrNilGuard         = errors.New("auth: nil guard")
	ErrUserNotFound     = errors.New("auth: user not found")
	ErrPasswordMismatch = errors.New("auth: password does not match")
	ErrPasswordTooLong  = errors.New("auth: password exceeds 72 bytes")
)
