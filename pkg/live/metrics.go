package live

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/vbind/pkg/protocol"
)

// MetricsConfig configures live hub metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vbind").
	Namespace string

	// Subsystem is the metrics subsystem (default: "live").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

func (c MetricsConfig) withDefaults() MetricsConfig {
	if c.Namespace == "" {
		c.Namespace = "vbind"
	}
	if c.Subsystem == "" {
		c.Subsystem = "live"
	}
	if c.Registry == nil {
		c.Registry = prometheus.DefaultRegisterer
	}
	return c
}

// Metrics holds the collectors a Hub reports to.
type Metrics struct {
	clients     prometheus.Gauge
	connections prometheus.Counter
	frames      *prometheus.CounterVec
	frameBytes  prometheus.Counter
	patches     prometheus.Counter
	errors      *prometheus.CounterVec
}

// NewMetrics registers the live collectors with config.Registry.
func NewMetrics(config MetricsConfig) *Metrics {
	config = config.withDefaults()
	factory := promauto.With(config.Registry)

	return &Metrics{
		clients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "clients",
			Help:        "Number of connected live clients",
			ConstLabels: config.ConstLabels,
		}),

		connections: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "connections_total",
			Help:        "Total number of live clients that joined",
			ConstLabels: config.ConstLabels,
		}),

		frames: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frames_sent_total",
			Help:        "Total number of frames written to clients",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		frameBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frame_bytes_sent_total",
			Help:        "Total number of frame bytes written to clients",
			ConstLabels: config.ConstLabels,
		}),

		patches: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_broadcast_total",
			Help:        "Total number of DOM patches broadcast",
			ConstLabels: config.ConstLabels,
		}),

		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_errors_total",
			Help:        "Total number of websocket errors",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
	}
}

func (m *Metrics) setClients(n int) {
	if m == nil {
		return
	}
	m.clients.Set(float64(n))
}

func (m *Metrics) recordConnect() {
	if m == nil {
		return
	}
	m.connections.Inc()
}

func (m *Metrics) recordFrame(t protocol.FrameType, size int) {
	if m == nil {
		return
	}
	m.frames.WithLabelValues(strings.ToLower(t.String())).Inc()
	m.frameBytes.Add(float64(size))
}

func (m *Metrics) recordPatches(n int) {
	if m == nil {
		return
	}
	m.patches.Add(float64(n))
}

// recordError counts a websocket failure. errorType is one of "upgrade",
// "join" or "write".
func (m *Metrics) recordError(errorType string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(errorType).Inc()
}
