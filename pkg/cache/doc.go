// Package cache provides the application cache.
//
// A Repository encodes values as JSON and stores them in a Store. Two stores
// ship with the package:
//
//   - MemoryStore, a bounded in-process store built on the generic LRU with
//     per-entry expiry;
//   - RedisStore, backed by github.com/redis/go-redis/v9 with a key prefix.
//
// Remember implements read-through caching:
//
//	user, err := cache.Remember(ctx, repo, "user:42", time.Minute, func(ctx context.Context) (User, error) {
//		return users.Find(ctx, 42)
//	})
//
// A zero TTL stores an entry without expiry.
package cache
