package resource

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus metrics for resources.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "bastion").
	Namespace string

	// Subsystem is the metrics subsystem (default: "resource").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the resource metrics.
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

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "bastion",
		Subsystem: "resource",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus metrics shared by one or more resources.
// Attach with Resource.WithMetrics.
type Metrics struct {
	fetchesTotal   prometheus.Counter
	failuresTotal  *prometheus.CounterVec
	staleDiscarded prometheus.Counter
	inFlight       prometheus.Gauge
}

// NewMetrics registers and returns the resource metrics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		fetchesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "fetches_total",
			Help:        "Total number of fetch attempts started.",
			ConstLabels: config.ConstLabels,
		}),
		failuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "failures_total",
			Help:        "Total number of failed fetches by failure kind.",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),
		staleDiscarded: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "stale_results_total",
			Help:        "Total number of fetch results discarded because a newer generation superseded them.",
			ConstLabels: config.ConstLabels,
		}),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "in_flight",
			Help:        "Number of fetches currently in flight, including superseded ones.",
			ConstLabels: config.ConstLabels,
		}),
	}
}
