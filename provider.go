package lumen

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
)

// ServiceProvider registers services and routes on an application.
type ServiceProvider interface {
	Register(app *Application) error
}

// Booter is implemented by providers that need every provider registered
// before they run. Boot is called once, before the first request.
type Booter interface {
	Boot(app *Application) error
}

// Register registers p. A provider of the same type is registered only once;
// the first instance is returned. Providers added after boot are booted
// immediately.
func (a *Application) Register(p ServiceProvider) (ServiceProvider, error) {
	if p == nil {
		return nil, ErrNilProvider
	}
	key := reflect.TypeOf(p)

	a.providerMu.Lock()
	if existing, ok := a.providers[key]; ok {
		a.providerMu.Unlock()
		return existing, nil
	}
	a.providers[key] = p
	a.order = append(a.order, p)
	booted := a.booted
	a.providerMu.Unlock()

	if err := p.Register(a); err != nil {
		a.providerMu.Lock()
		delete(a.providers, key)
		// p may have registered further providers before failing.
		if i := slices.IndexFunc(a.order, func(q ServiceProvider) bool { return reflect.TypeOf(q) == key }); i >= 0 {
			a.order = slices.Delete(a.order, i, i+1)
		}
		a.providerMu.Unlock()
		return nil, errors.Join(ErrProviderRegister, fmt.Errorf("%T: %w", p, err))
	}

	if booted {
		if err := boot(a, p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Providers returns the registered providers in registration order.
func (a *Application) Providers() []ServiceProvider {
	a.providerMu.Lock()
	defer a.providerMu.Unlock()
	return append([]ServiceProvider(nil), a.order...)
}

// Boot boots every registered provider once and returns the first failure on
// every later call. Handle calls it implicitly.
func (a *Application) Boot() error {
	a.bootOnce.Do(func() {
		a.providerMu.Lock()
		a.booted = true
		providers := append([]ServiceProvider(nil), a.order...)
		a.providerMu.Unlock()

		for _, p := range providers {
			if err := boot(a, p); err != nil {
				a.bootErr = err
				return
			}
		}
	})
	return a.bootErr
}

func boot(a *Application, p ServiceProvider) error {
	b, ok := p.(Booter)
	if !ok {
		return nil
	}
	if err := b.Boot(a); err != nil {
		return errors.Join(ErrProviderBoot, fmt.Errorf("%T: %w", p, err))
	}
	return nil
}
