// Package lumen is a micro-framework for HTTP APIs: a route table with groups
// and named routes, a middleware pipeline with terminate hooks, and a service
// container with the usual application services: auth, cache, session,
// queue, events, validation, encryption, rate limiting and metrics.
//
// Basic usage:
//
//	app, err := lumen.New(lumen.WithConfig(cfg))
//	if err != nil {
//		return err
//	}
//
//	app.Router().Get("/users/{id}", func(ctx handler.Context, p handler.Params) any {
//		return p.Get("id", "")
//	})
//
//	app.Router().Group(router.GroupAttrs{Prefix: "admin", Middleware: []string{"auth"}}, func(r *router.Router) {
//		r.Get("/dashboard", router.Attrs{As: "admin.dashboard", Uses: "DashboardController@show"})
//	})
//
//	return app.Run(ctx)
//
// Handle runs a request through the global middleware, the dispatcher and the
// terminate hooks and returns the buffered response; it is what ServeHTTP and
// tests use.
//
// Services are bound lazily in the container and can be replaced before first
// use with Bind or Instance:
//
//	cache := container.MustResolve[*cache.Repository](app.Container(), container.Cache)
//
// Runtime configuration (auth guards, cache and session drivers) lives in a
// dot-notation config.Repository, populated from YAML files found in
// APP_CONFIG_PATH or set in code with app.Config().Set.
package lumen
