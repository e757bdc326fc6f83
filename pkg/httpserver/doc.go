// Package httpserver runs an http.Handler with graceful shutdown.
//
// The server stops when the context passed to Run is cancelled; the application
// derives that context from SIGINT/SIGTERM. Liveness and Readiness provide probe
// handlers that can be mounted as regular routes.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, app); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
package httpserver
