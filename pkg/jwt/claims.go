package jwt

import (
	"fmt"
	"time"
)

// Registered claim names.
const (
	ClaimID        = "jti"
	ClaimSubject   = "sub"
	ClaimIssuer    = "iss"
	ClaimAudience  = "aud"
	ClaimExpiresAt = "exp"
	ClaimNotBefore = "nbf"
	ClaimIssuedAt  = "iat"
)

// Subject is implemented by anything a token can be issued for.
type Subject interface {
	// JWTIdentifier is stored in the "sub" claim.
	JWTIdentifier() string
	// JWTCustomClaims are merged into the payload. Registered claims win on conflict.
	JWTCustomClaims() map[string]any
}

// Claims is a decoded token payload.
type Claims map[string]any

// Subject returns the "sub" claim.
func (c Claims) Subject() string {
	return c.String(ClaimSubject)
}

// ID returns the "jti" claim.
func (c Claims) ID() string {
	return c.String(ClaimID)
}

// String returns claim name as a string, formatting non-string values.
func (c Claims) String(name string) string {
	switch v := c[name].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprint(v)
	}
}

// Time returns a NumericDate claim. ok is false when the claim is missing or not numeric.
func (c Claims) Time(name string) (time.Time, bool) {
	switch v := c[name].(type) {
	case float64:
		return time.Unix(int64(v), 0), true
	case int64:
		return time.Unix(v, 0), true
	case int:
		return time.Unix(int64(v), 0), true
	}
	return time.Time{}, false
}

// Valid checks exp and nbf against the current time. Missing claims are ignored.
func (c Claims) Valid() error {
	return c.validAt(time.Now())
}

func (c Claims) validAt(now time.Time) error {
	if exp, ok := c.Time(ClaimExpiresAt); ok && now.After(exp) {
		return ErrExpiredToken
	}
	if nbf, ok := c.Time(ClaimNotBefore); ok && now.Before(nbf) {
		return ErrTokenNotYetValid
	}
	return nil
}
