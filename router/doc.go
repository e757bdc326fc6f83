// Package router provides the route table, the group stack and the chi-backed
// dispatcher.
//
// Routes are registered with per-verb helpers inside optional groups whose
// attributes (prefix, namespace, name, middleware, suffix) are merged down the
// stack:
//
//	r := router.New(router.WithMiddleware(reg))
//	r.Group(router.GroupAttrs{Prefix: "api", As: "api", Middleware: []string{"auth"}}, func(r *router.Router) {
//		r.Get("/users/{id:[0-9]+}", router.Attrs{As: "users.show", Uses: "UserController@show"})
//	})
//	path, _ := r.URL("api.users.show", handler.P("id", 7)) // "/api/users/7"
//
// The table is compiled into a chi mux on the first dispatch; registering routes
// afterwards panics with ErrRouterFrozen.
package router
