package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/vroute/pkg/router"
)

// unmatched is the route label for navigations that matched no route.
const unmatched = "unmatched"

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vroute").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "vroute",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the router's Prometheus collectors. Create one per
// registry; registering the same names twice panics.
type Metrics struct {
	navigationsTotal   *prometheus.CounterVec
	navigationDuration *prometheus.HistogramVec
	navigationErrors   *prometheus.CounterVec
	moduleLoadsTotal   *prometheus.CounterVec
	moduleLoadDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the router's collectors.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		navigationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of navigations by route, mode and status",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "mode", "status"}),

		navigationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Navigation duration in seconds, view fetch included",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		navigationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_errors_total",
			Help:        "Total number of failed navigations by error type",
			ConstLabels: config.ConstLabels,
		}, []string{"error_type"}),

		moduleLoadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "module_loads_total",
			Help:        "Total number of view module loads by module and status",
			ConstLabels: config.ConstLabels,
		}, []string{"module", "status"}),

		moduleLoadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "module_load_duration_seconds",
			Help:        "View module load duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"module"}),
	}
}

// Prometheus creates middleware that records navigation metrics on a new
// Metrics instance.
//
// Example:
//
//	r, err := router.New("/", routes,
//	    router.WithMiddleware(
//	        middleware.Prometheus(middleware.WithNamespace("myapp")),
//	    ),
//	)
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) router.Middleware {
	return NewMetrics(opts...).Middleware()
}

// Middleware returns navigation middleware that records into m.
func (m *Metrics) Middleware() router.Middleware {
	return router.MiddlewareFunc(func(ctx context.Context, nav *router.Navigation, next func() error) error {
		start := time.Now()
		err := next()

		route := nav.RouteName()
		if route == "" {
			route = unmatched
		}
		m.navigationDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())

		status := "success"
		if err != nil {
			status = "error"
			m.navigationErrors.WithLabelValues(categorizeError(err)).Inc()
		}
		m.navigationsTotal.WithLabelValues(route, nav.Mode.String(), status).Inc()
		return err
	})
}

// InstrumentModules wraps ml so every module load is counted and timed.
func (m *Metrics) InstrumentModules(ml router.ModuleLoader) router.ModuleLoader {
	return &instrumentedLoader{next: ml, metrics: m}
}

type instrumentedLoader struct {
	next    router.ModuleLoader
	metrics *Metrics
}

func (l *instrumentedLoader) LoadModule(ctx context.Context, id string) (router.View, error) {
	start := time.Now()
	v, err := l.next.LoadModule(ctx, id)
	l.metrics.moduleLoadDuration.WithLabelValues(id).Observe(time.Since(start).Seconds())

	status := "success"
	if err != nil {
		status = "error"
	}
	l.metrics.moduleLoadsTotal.WithLabelValues(id, status).Inc()
	return v, err
}

// categorizeError returns a low-cardinality label for a navigation error.
func categorizeError(err error) string {
	switch {
	case errors.Is(err, router.ErrNoMatchingRoute):
		return "not_found"
	case errors.Is(err, router.ErrUnknownRoute):
		return "unknown_route"
	case errors.Is(err, router.ErrModuleLoad):
		return "module_load"
	case errors.Is(err, router.ErrNavigationSuperseded):
		return "superseded"
	case errors.Is(err, router.ErrNavigationAborted):
		return "aborted"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "internal"
	}
}
