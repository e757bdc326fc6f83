// Package redis connects to Redis with github.com/redis/go-redis/v9.
//
// Connect parses a redis:// URL, then pings until the server answers, the
// retry budget is spent or the context ends. Healthcheck adapts a client to a
// readiness check for httpserver.Readiness.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//	client, err := redis.Connect(ctx, cfg)
package redis
