// Package logger builds *slog.Logger instances for the application and its
// services.
//
// New takes functional options for the format (text or json), the level, static
// attributes and ContextExtractor callbacks. The extractors run on every record,
// which is how request scoped values such as the request id reach log lines
// written deep inside a handler.
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, cfg.Name),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "route matched", logger.Route(route.Method, route.URI))
//
// Attribute helpers in attr.go keep key names consistent across packages.
package logger
