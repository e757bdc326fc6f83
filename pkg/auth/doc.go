// Package auth resolves the authenticated user of a request.
//
// A Manager holds named guards. A guard turns a request into an
// Authenticatable, or reports that the request is a guest. Two kinds ship with
// the package:
//
//   - request guards registered with Manager.ViaRequest, which call a plain
//     function with the request;
//   - JWTGuard, which verifies a bearer token with pkg/jwt and loads the user
//     through a UserProvider.
//
// The default guard is used by Manager.User and, through Manager.Resolver, by
// handler.Context.User. The Authenticate middleware rejects guests with 401 and
// caches the resolved user on the request.
//
// BcryptHasher implements Hasher with golang.org/x/crypto/bcrypt.
package auth
