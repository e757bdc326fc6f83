// Package events provides the application event dispatcher.
//
// Listeners are registered per event name. The name of an event value is its
// Go type ("*app.UserRegistered") unless it implements Named. A name ending
// in "*" is a wildcard matching every event with that prefix.
//
//	events.Listen(d, func(ctx context.Context, e UserRegistered) error {
//		return mailer.Welcome(ctx, e.Email)
//	})
//	err := d.Dispatch(ctx, UserRegistered{Email: "taylor@example.com"})
//
// Dispatch runs listeners synchronously in registration order. A listener
// returning ErrStopPropagation halts the chain without failing the dispatch.
//
// Subscribe opens a buffered stream of every dispatched event. Slow
// subscribers lose events instead of blocking Dispatch.
package events
