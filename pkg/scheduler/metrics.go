package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures scheduler metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vbind").
	Namespace string

	// Subsystem is the metrics subsystem (default: "scheduler").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for flush duration.
	// Default: exponential from 50µs.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

func (c MetricsConfig) withDefaults() MetricsConfig {
	if c.Namespace == "" {
		c.Namespace = "vbind"
	}
	if c.Subsystem == "" {
		c.Subsystem = "scheduler"
	}
	if c.Buckets == nil {
		c.Buckets = prometheus.ExponentialBuckets(0.00005, 4, 8) // 50µs to ~0.8s
	}
	if c.Registry == nil {
		c.Registry = prometheus.DefaultRegisterer
	}
	return c
}

// Metrics holds the Prometheus collectors a Scheduler reports to. One
// Metrics value may be shared by several schedulers.
type Metrics struct {
	flushes       prometheus.Counter
	patches       prometheus.Counter
	skipped       prometheus.Counter
	deferred      prometheus.Counter
	flushDuration prometheus.Histogram
	pending       prometheus.Gauge
}

// NewMetrics registers the scheduler collectors with config.Registry.
func NewMetrics(config MetricsConfig) *Metrics {
	config = config.withDefaults()
	factory := promauto.With(config.Registry)

	return &Metrics{
		flushes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of flush cycles run",
			ConstLabels: config.ConstLabels,
		}),

		patches: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_applied_total",
			Help:        "Total number of binding descriptors applied during flushes",
			ConstLabels: config.ConstLabels,
		}),

		skipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_skipped_total",
			Help:        "Total number of pending descriptors dropped because their component was disposed",
			ConstLabels: config.ConstLabels,
		}),

		deferred: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "deferred_descriptors_total",
			Help:        "Total number of descriptors dirtied during a flush and deferred to the next cycle",
			ConstLabels: config.ConstLabels,
		}),

		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Flush duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		pending: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pending_descriptors",
			Help:        "Number of descriptors waiting for the next flush",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) observeFlush(stats FlushStats) {
	if m == nil {
		return
	}
	m.flushes.Inc()
	m.patches.Add(float64(stats.Patches))
	m.skipped.Add(float64(stats.Skipped))
	m.deferred.Add(float64(stats.Deferred))
	m.flushDuration.Observe(stats.Duration.Seconds())
}

func (m *Metrics) setPending(n int) {
	if m == nil {
		return
	}
	m.pending.Set(float64(n))
}
