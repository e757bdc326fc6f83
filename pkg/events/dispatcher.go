package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/rangka/lumen/pkg/logger"
)

// Named lets an event choose its own name.
type Named interface {
	EventName() string
}

// Name returns the dispatch name of event.
func Name(event any) string {
	if n, ok := event.(Named); ok {
		return n.EventName()
	}
	return fmt.Sprintf("%T", event)
}

// Listener handles a dispatched event.
type Listener func(ctx context.Context, event any) error

// Envelope is an event delivered to subscribers.
type Envelope struct {
	Name  string
	Event any
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithBufferSize sets the per-subscriber buffer. The minimum is 1.
func WithBufferSize(n int) Option {
	return func(d *Dispatcher) { d.bufferSize = max(n, 1) }
}

// WithLogger sets the logger used for dropped deliveries.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.log = l
		}
	}
}

type wildcard struct {
	prefix   string
	listener Listener
}

// Dispatcher routes events to listeners and subscribers. It is safe for
// concurrent use.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
	wildcards []wildcard
	subs      map[*Subscription]struct{}
	closed    bool

	bufferSize int
	log        *slog.Logger
	cleanup    sync.WaitGroup
}

// New creates a dispatcher.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		listeners:  make(map[string][]Listener),
		subs:       make(map[*Subscription]struct{}),
		bufferSize: 64,
		log:        logger.Discard(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Listen registers l for name. Names ending in "*" match by prefix.
func (d *Dispatcher) Listen(name string, l Listener) {
	if l == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if prefix, ok := strings.CutSuffix(name, "*"); ok {
		d.wildcards = append(d.wildcards, wildcard{prefix: prefix, listener: l})
		return
	}
	d.listeners[name] = append(d.listeners[name], l)
}

// Listen registers a typed listener under the name of T.
func Listen[T any](d *Dispatcher, fn func(ctx context.Context, event T) error) {
	var zero T
	d.Listen(Name(zero), func(ctx context.Context, event any) error {
		e, ok := event.(T)
		if !ok {
			return fmt.Errorf("events: %s listener got %T", Name(zero), event)
		}
		return fn(ctx, e)
	})
}

// HasListeners reports whether a dispatch of name would reach a listener.
func (d *Dispatcher) HasListeners(name string) bool {
	return len(d.listenersFor(name)) > 0
}

// Forget removes the listeners registered for name, wildcard or not.
func (d *Dispatcher) Forget(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if prefix, ok := strings.CutSuffix(name, "*"); ok {
		kept := d.wildcards[:0]
		for _, w := range d.wildcards {
			if w.prefix != prefix {
				kept = append(kept, w)
			}
		}
		d.wildcards = kept
		return
	}
	delete(d.listeners, name)
}

// Dispatch runs the listeners for event in order, then publishes it to
// subscribers. The first listener error other than ErrStopPropagation aborts
// the dispatch; subscribers are not notified in that case.
func (d *Dispatcher) Dispatch(ctx context.Context, event any) error {
	if event == nil {
		return ErrNilEvent
	}
	name := Name(event)
	for _, l := range d.listenersFor(name) {
		if err := l(ctx, event); err != nil {
			if errors.Is(err, ErrStopPropagation) {
				break
			}
			return errors.Join(ErrListenerFailed, fmt.Errorf("%s: %w", name, err))
		}
	}
	d.publish(ctx, Envelope{Name: name, Event: event})
	return nil
}

func (d *Dispatcher) listenersFor(name string) []Listener {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Listener, 0, len(d.listeners[name]))
	out = append(out, d.listeners[name]...)
	for _, w := range d.wildcards {
		if strings.HasPrefix(name, w.prefix) {
			out = append(out, w.listener)
		}
	}
	return out
}

// Subscribe opens a stream of dispatched events. It closes when ctx is done,
// on Close, or when the dispatcher is closed.
func (d *Dispatcher) Subscribe(ctx context.Context) *Subscription {
	sub := &Subscription{ch: make(chan Envelope, d.bufferSize), d: d}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		sub.close()
		return sub
	}
	d.subs[sub] = struct{}{}

	if ctx.Done() != nil {
		d.cleanup.Add(1)
		go func() {
			defer d.cleanup.Done()
			select {
			case <-ctx.Done():
				d.unsubscribe(sub)
			case <-sub.done():
			}
		}()
	}
	return sub
}

func (d *Dispatcher) publish(ctx context.Context, env Envelope) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for sub := range d.subs {
		if !sub.send(env) {
			d.log.WarnContext(ctx, "event dropped for slow subscriber",
				slog.String("event", env.Name),
				logger.Component("events"),
			)
		}
	}
}

func (d *Dispatcher) unsubscribe(sub *Subscription) {
	d.mu.Lock()
	delete(d.subs, sub)
	d.mu.Unlock()
	sub.close()
}

// Close closes every subscription. Listeners stay registered.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	for sub := range d.subs {
		sub.close()
	}
	clear(d.subs)
	d.mu.Unlock()

	d.cleanup.Wait()
	return nil
}

// Subscription is a stream of dispatched events.
type Subscription struct {
	d *Dispatcher

	mu     sync.RWMutex
	ch     chan Envelope
	closed bool
	stop   chan struct{}
	once   sync.Once
}

// Events returns the delivery channel. It is closed with the subscription.
func (s *Subscription) Events() <-chan Envelope {
	return s.ch
}

// Close ends the subscription. It is safe to call more than once.
func (s *Subscription) Close() error {
	s.d.unsubscribe(s)
	return nil
}

func (s *Subscription) done() <-chan struct{} {
	s.once.Do(func() { s.stop = make(chan struct{}) })
	return s.stop
}

func (s *Subscription) send(env Envelope) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- env:
		return true
	default:
		return false
	}
}

func (s *Subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
	s.done()
	close(s.stop)
}
