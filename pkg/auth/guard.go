package auth

import (
	"errors"
	"maps"
	"net/http"

	"github.com/rangka/lumen/pkg/jwt"
)

// Guard resolves the user of a request. It returns ErrUnauthenticated for guests.
type Guard interface {
	User(r *http.Request) (Authenticatable, error)
}

// RequestGuard adapts a callback to Guard. A nil return is a guest.
type RequestGuard func(r *http.Request) Authenticatable

func (g RequestGuard) User(r *http.Request) (Authenticatable, error) {
	if u := g(r); u != nil {
		return u, nil
	}
	return nil, ErrUnauthenticated
}

// JWTGuard authenticates bearer tokens. Claims already verified by
// jwt.Middleware are reused; otherwise the token is extracted and parsed.
type JWTGuard struct {
	svc       *jwt.Service
	provider  UserProvider
	extractor jwt.Extractor
}

// JWTGuardOption configures a JWTGuard.
type JWTGuardOption func(*JWTGuard)

// WithUserProvider loads users by the token's subject. Without a provider the
// guard returns a GenericUser holding the token's claims.
func WithUserProvider(p UserProvider) JWTGuardOption {
	return func(g *JWTGuard) { g.provider = p }
}

// WithTokenExtractor replaces the Authorization bearer extractor.
func WithTokenExtractor(e jwt.Extractor) JWTGuardOption {
	return func(g *JWTGuard) {
		if e != nil {
			g.extractor = e
		}
	}
}

// NewJWTGuard creates a guard verifying tokens with svc.
func NewJWTGuard(svc *jwt.Service, opts ...JWTGuardOption) *JWTGuard {
	g := &JWTGuard{svc: svc, extractor: jwt.BearerExtractor}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *JWTGuard) User(r *http.Request) (Authenticatable, error) {
	claims, ok := jwt.ClaimsFromContext(r.Context())
	if !ok {
		token, err := g.extractor(r)
		if err != nil {
			return nil, ErrUnauthenticated
		}
		if claims, err = g.svc.ParseClaims(token); err != nil {
			return nil, errors.Join(ErrUnauthenticated, err)
		}
	}

	sub := claims.Subject()
	if sub == "" {
		return nil, ErrUnauthenticated
	}
	if g.provider == nil {
		return GenericUser{ID: sub, Attributes: maps.Clone(claims)}, nil
	}

	u, err := g.provider.RetrieveByID(r.Context(), sub)
	if err != nil {
		return nil, errors.Join(ErrUnauthenticated, err)
	}
	if u == nil {
		return nil, errors.Join(ErrUnauthenticated, ErrUserNotFound)
	}
	return u, nil
}
