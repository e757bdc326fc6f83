package auth

import (
	"context"
	"maps"
)

// Authenticatable is a user known to a guard.
type Authenticatable interface {
	AuthIdentifier() string
}

// GenericUser is an Authenticatable backed by an attribute map. It also
// satisfies jwt.Subject.
type GenericUser struct {
	ID         string
	Attributes map[string]any
}

func (u GenericUser) AuthIdentifier() string { return u.ID }

// Get returns an attribute or nil.
func (u GenericUser) Get(name string) any { return u.Attributes[name] }

func (u GenericUser) JWTIdentifier() string { return u.ID }

func (u GenericUser) JWTCustomClaims() map[string]any {
	return maps.Clone(u.Attributes)
}

// UserProvider loads users by identifier.
type UserProvider interface {
	RetrieveByID(ctx context.Context, id string) (Authenticatable, error)
}

// UserProviderFunc adapts a function to UserProvider.
type UserProviderFunc func(ctx context.Context, id string) (Authenticatable, error)

func (f UserProviderFunc) RetrieveByID(ctx context.Context, id string) (Authenticatable, error) {
	return f(ctx, id)
}
