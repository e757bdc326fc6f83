// Package throttle limits how often a client may hit a route.
//
// Limits are token buckets keyed by a request signature: the authenticated
// user's identifier, or a hash of the host and client IP for guests. Buckets
// live in a Store; MemoryStore keeps them in process and RedisStore shares
// them between instances.
//
// Middleware returns the "throttle" route middleware. Its parameters are the
// number of attempts and the decay window in minutes:
//
//	r.Get("/login", router.Attrs{Middleware: []string{"throttle:5,1"}, Uses: "Auth@login"})
//
// Every response carries X-RateLimit-Limit and X-RateLimit-Remaining. Rejected
// requests get 429 with Retry-After.
package throttle
