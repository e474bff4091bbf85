// Package metrics provides Prometheus instrumentation for streambridge components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for streambridge components.
type Registry struct {
	// Conduit Metrics
	ConduitBytesWritten *prometheus.CounterVec
	ConduitBytesRead    *prometheus.CounterVec
	ConduitBuffered     *prometheus.GaugeVec
	ConduitCapacity     *prometheus.GaugeVec

	// Transmit Metrics
	RequestsStarted   *prometheus.CounterVec
	RequestsSucceeded *prometheus.CounterVec
	RequestsFailed    *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	RequestBytesSent  *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by streambridge components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		// Conduit Metrics
		ConduitBytesWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streambridge",
				Subsystem: "conduit",
				Name:      "bytes_written_total",
				Help:      "Total bytes accepted by the conduit write half",
			},
			[]string{"conduit_name"},
		),

		ConduitBytesRead: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streambridge",
				Subsystem: "conduit",
				Name:      "bytes_read_total",
				Help:      "Total bytes delivered by the conduit read half",
			},
			[]string{"conduit_name"},
		),

		ConduitBuffered: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "streambridge",
				Subsystem: "conduit",
				Name:      "buffered_bytes",
				Help:      "Bytes currently held in the conduit buffer",
			},
			[]string{"conduit_name"},
		),

		ConduitCapacity: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "streambridge",
				Subsystem: "conduit",
				Name:      "capacity_bytes",
				Help:      "Configured conduit buffer capacity",
			},
			[]string{"conduit_name"},
		),

		// Transmit Metrics
		RequestsStarted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streambridge",
				Subsystem: "transmit",
				Name:      "requests_started_total",
				Help:      "Total streaming requests started",
			},
			[]string{"destination"},
		),

		RequestsSucceeded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streambridge",
				Subsystem: "transmit",
				Name:      "requests_succeeded_total",
				Help:      "Total streaming requests that received a response",
			},
			[]string{"destination"},
		),

		RequestsFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streambridge",
				Subsystem: "transmit",
				Name:      "requests_failed_total",
				Help:      "Total streaming requests that failed in transport",
			},
			[]string{"destination"},
		),

		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "streambridge",
				Subsystem: "transmit",
				Name:      "request_duration_seconds",
				Help:      "Time from request start to terminal outcome",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"destination"},
		),

		RequestBytesSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streambridge",
				Subsystem: "transmit",
				Name:      "request_bytes_sent_total",
				Help:      "Total request body bytes handed to the transport",
			},
			[]string{"destination"},
		),
	}
}
