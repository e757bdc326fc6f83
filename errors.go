package lumen

import "errors"

var (
	ErrNilProvider        = errors.New("lumen: service provider is nil")
	ErrProviderRegister   = errors.New("lumen: service provider registration failed")
	ErrProviderBoot       = errors.New("lumen: service provider boot failed")
	ErrUnknownDriver      = errors.New("lumen: unknown driver")
	ErrNothingToRun       = errors.New("lumen: nothing to run")
	ErrInvalidConfigFile  = errors.New("lumen: invalid config file")
	ErrMiddlewareResolved = errors.New("lumen: middleware service unavailable")
)
