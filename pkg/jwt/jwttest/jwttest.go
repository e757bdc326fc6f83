// Package jwttest issues bearer tokens for tests that exercise jwt-protected routes.
package jwttest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rangka/lumen/pkg/jwt"
)

// AuthorizationBearer returns an "Authorization" header value for sub.
func AuthorizationBearer(t testing.TB, svc *jwt.Service, sub jwt.Subject) string {
	t.Helper()
	token, err := svc.FromSubject(sub)
	require.NoError(t, err)
	return "Bearer " + token
}

// User is a minimal jwt.Subject.
type User struct {
	ID     string
	Claims map[string]any
}

func (u User) JWTIdentifier() string           { return u.ID }
func (u User) JWTCustomClaims() map[string]any { return u.Claims }
