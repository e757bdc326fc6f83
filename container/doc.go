// Package container provides a typed registry of lazily constructed singleton services.
//
// Services are keyed by ServiceID rather than by string or type name. A factory runs
// the first time its service is resolved; the result (or the error) is memoized.
//
//	c := container.New()
//	_ = c.Bind(container.Log, func(container.Resolver) (any, error) {
//		return logger.New(), nil
//	})
//	log := container.MustResolve[*slog.Logger](c, container.Log)
//
// Factories receive a Resolver for nested lookups. Resolution chains that loop back
// onto themselves fail with ErrCircularDependency.
package container
