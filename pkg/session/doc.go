// Package session keeps per-client state between requests.
//
// A Manager loads the Session named by the request's token, or starts a new
// one, and persists it in a Store after the request was handled. The token
// travels in a cookie (CookieTransport) or a header (HeaderTransport);
// transports write to an http.Header so they work with both an
// http.ResponseWriter and a buffered handler.Response.
//
// Middleware is the "session" route middleware: it starts the session, stores
// it in the request context for FromContext, and saves it once the action
// returned.
//
// Stores: MemoryStore for single-process deployments and tests, RedisStore for
// everything else.
package session
