package conduit

import (
	"github.com/vnykmshr/streambridge/pkg/metrics"
)

// MetricsReader wraps a Reader with Prometheus metrics collection.
type MetricsReader struct {
	*Reader
	name     string
	registry *metrics.Registry
	enabled  bool
}

// MetricsWriter wraps a Writer with Prometheus metrics collection.
type MetricsWriter struct {
	*Writer
	name     string
	registry *metrics.Registry
	enabled  bool
}

// NewWithMetrics creates a conduit whose halves report traffic to Prometheus
// under the given conduit name.
func NewWithMetrics(capacity int, name string, metricsConfig metrics.Config) (*MetricsReader, *MetricsWriter) {
	r, w := New(capacity)

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	mr := &MetricsReader{Reader: r, name: name, registry: registry, enabled: metricsConfig.Enabled}
	mw := &MetricsWriter{Writer: w, name: name, registry: registry, enabled: metricsConfig.Enabled}

	if metricsConfig.Enabled {
		registry.ConduitCapacity.WithLabelValues(name).Set(float64(r.Cap()))
		registry.ConduitBuffered.WithLabelValues(name).Set(0)
	}

	return mr, mw
}

// Read delivers bytes from the conduit and records them.
func (mr *MetricsReader) Read(p []byte) (int, error) {
	n, err := mr.Reader.Read(p)
	if mr.enabled && n > 0 {
		mr.registry.ConduitBytesRead.WithLabelValues(mr.name).Add(float64(n))
		mr.registry.ConduitBuffered.WithLabelValues(mr.name).Set(float64(mr.Len()))
	}
	return n, err
}

// Write accepts bytes into the conduit and records them.
func (mw *MetricsWriter) Write(p []byte) (int, error) {
	n, err := mw.Writer.Write(p)
	if mw.enabled && n > 0 {
		mw.registry.ConduitBytesWritten.WithLabelValues(mw.name).Add(float64(n))
		mw.registry.ConduitBuffered.WithLabelValues(mw.name).Set(float64(mw.Len()))
	}
	return n, err
}
