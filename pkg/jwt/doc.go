// Package jwt signs and verifies HS256 JSON Web Tokens.
//
// A Service issues tokens either from arbitrary JSON claims (Generate) or from a
// Subject, the interface implemented by user models that can be authenticated
// with a bearer token:
//
//	type Subject interface {
//		JWTIdentifier() string
//		JWTCustomClaims() map[string]any
//	}
//
// FromSubject fills the registered claims (sub, iat, nbf, exp, iss, jti) and
// merges the subject's custom claims. Parse verifies the signature, rejects
// other algorithms and validates the temporal claims.
//
// Middleware extracts a token from the request (Authorization header by default),
// verifies it and stores the token and its Claims in the request context. The
// auth package's jwt guard reads them back with ClaimsFromContext.
//
// Errors are sentinel values; compare them with errors.Is.
package jwt
