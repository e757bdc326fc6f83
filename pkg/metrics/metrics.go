// Package metrics records HTTP request metrics with Prometheus and exposes them
// for scraping.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rangka/lumen/handler"
	"github.com/rangka/lumen/middleware"
)

// Unmatched labels requests that did not resolve to a route.
const Unmatched = "unmatched"

// Option configures a Collector.
type Option func(*options)

type options struct {
	namespace  string
	registry   *prometheus.Registry
	buckets    []float64
	runtime    bool
	constLabel prometheus.Labels
}

// WithNamespace prefixes every metric name. The default is "lumen".
func WithNamespace(ns string) Option {
	return func(o *options) { o.namespace = ns }
}

// WithRegistry registers the collectors on reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) {
		if reg != nil {
			o.registry = reg
		}
	}
}

// WithBuckets sets the request duration histogram buckets, in seconds.
func WithBuckets(buckets ...float64) Option {
	return func(o *options) {
		if len(buckets) > 0 {
			o.buckets = buckets
		}
	}
}

// WithRuntimeMetrics also registers the Go runtime and process collectors.
func WithRuntimeMetrics() Option {
	return func(o *options) { o.runtime = true }
}

// WithConstLabels attaches labels to every metric, e.g. the application name.
func WithConstLabels(labels map[string]string) Option {
	return func(o *options) { o.constLabel = labels }
}

// Collector holds the HTTP metrics of one application.
type Collector struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// New creates and registers the HTTP collectors. It panics if they are already
// registered on the given registry.
func New(opts ...Option) *Collector {
	o := &options{namespace: "lumen", buckets: prometheus.DefBuckets}
	for _, opt := range opts {
		opt(o)
	}
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: o.registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   o.namespace,
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "Handled HTTP requests by method, route and status code.",
			ConstLabels: o.constLabel,
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   o.namespace,
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "Time spent producing the response.",
			Buckets:     o.buckets,
			ConstLabels: o.constLabel,
		}, []string{"method", "route"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   o.namespace,
			Subsystem:   "http",
			Name:        "requests_in_flight",
			Help:        "Requests currently being handled.",
			ConstLabels: o.constLabel,
		}),
	}

	o.registry.MustRegister(c.requests, c.duration, c.inFlight)
	if o.runtime {
		o.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return c
}

// Registry returns the registry the collectors are registered on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Middleware records every request passing through it. The route label is the
// matched route pattern, read once the rest of the chain has run, so the
// middleware may be global.
func (c *Collector) Middleware() middleware.Middleware {
	return middleware.Func(func(ctx handler.Context, next middleware.Next, _ ...string) *handler.Response {
		c.inFlight.Inc()
		defer c.inFlight.Dec()

		start := time.Now()
		resp := next(ctx)

		method := ctx.Request().Method
		route := ctx.Route().Pattern
		if route == "" {
			route = Unmatched
		}
		status := http.StatusOK
		if resp != nil {
			status = resp.StatusCode()
		}

		c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		c.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return resp
	})
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
