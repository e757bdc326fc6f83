// Package config loads application configuration from two sources.
//
// Struct configuration comes from environment variables through struct tags
// (github.com/caarlos0/env). Load parses each type once and caches the result;
// .env files are read with LoadEnv before the first parse.
//
//	var cfg lumen.Config
//	config.MustLoad(&cfg)
//
// Repository holds free-form settings addressed by dot-separated keys, such as
// "auth.defaults.guard". Values are set in code or loaded from YAML files, one
// top-level key per file.
//
//	repo := config.NewRepository(nil)
//	_ = repo.LoadFile("auth", "config/auth.yaml")
//	guard := repo.String("auth.defaults.guard", "api")
package config
