package container

import "errors"

var (
	// ErrNotBound is returned when resolving a service that has no factory.
	ErrNotBound = errors.New("container: service not bound")

	// ErrTypeMismatch is returned when a resolved service does not match the requested type.
	ErrTypeMismatch = errors.New("container: service type mismatch")

	// ErrCircularDependency is returned when a factory (transitively) resolves itself.
	ErrCircularDependency = errors.New("container: circular dependency")

	// ErrFactoryFailed wraps the error returned by a service factory.
	ErrFactoryFailed = errors.New("container: factory failed")

	// ErrNilFactory is returned when binding a nil factory.
	ErrNilFactory = errors.New("container: nil factory")
)
