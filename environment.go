package lumen

import "path"

// Environment returns APP_ENV, "production" when unset.
func (a *Application) Environment() string {
	return a.cfg.Env
}

// IsEnvironment reports whether the environment matches any of patterns.
// Patterns use path.Match syntax ("local", "dev*").
func (a *Application) IsEnvironment(patterns ...string) bool {
	for _, p := range patterns {
		if p == a.cfg.Env {
			return true
		}
		if ok, err := path.Match(p, a.cfg.Env); err == nil && ok {
			return true
		}
	}
	return false
}

// RunningUnitTests reports whether the environment is "testing" or
// APP_RUNNING_UNIT_TESTS is set.
func (a *Application) RunningUnitTests() bool {
	return a.cfg.Env == "testing" || a.cfg.RunningUnitTests
}

// Debug reports whether APP_DEBUG is set.
func (a *Application) Debug() bool {
	return a.cfg.Debug
}
