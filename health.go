package lumen

import (
	"context"

	goredis "github.com/redis/go-redis/v9"

	"github.com/rangka/lumen/container"
	"github.com/rangka/lumen/pkg/httpserver"
	"github.com/rangka/lumen/pkg/redis"
)

// Default health endpoints.
const (
	LivenessPath  = "/health/live"
	ReadinessPath = "/health/ready"
)

// HealthRoutes mounts liveness and readiness endpoints on the router. Empty
// paths fall back to LivenessPath and ReadinessPath. Readiness pings Redis
// once the redis binding has been resolved, and runs every extra check.
func (a *Application) HealthRoutes(live, ready string, checks map[string]httpserver.Check) {
	if live == "" {
		live = LivenessPath
	}
	if ready == "" {
		ready = ReadinessPath
	}

	all := make(map[string]httpserver.Check, len(checks)+1)
	for name, check := range checks {
		if check != nil {
			all[name] = check
		}
	}
	if _, ok := all["redis"]; !ok {
		all["redis"] = a.redisCheck
	}

	a.router.Get(live, httpserver.Liveness())
	a.router.Get(ready, httpserver.Readiness(a.Logger(), all))
}

// redisCheck passes while Redis is unused so memory-only apps stay ready.
func (a *Application) redisCheck(ctx context.Context) error {
	if !a.container.Resolved(container.Redis) {
		return nil
	}
	client, err := container.Resolve[goredis.UniversalClient](a.container, container.Redis)
	if err != nil {
		return err
	}
	return redis.Healthcheck(client)(ctx)
}
