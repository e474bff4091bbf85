package transmit

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/vnykmshr/streambridge/pkg/metrics"
)

// MetricsTransmitter wraps a Transmitter with Prometheus metrics collection.
type MetricsTransmitter struct {
	transmitter *Transmitter
	registry    *metrics.Registry
	enabled     bool
}

// NewWithMetrics creates a Transmitter with metrics enabled.
func NewWithMetrics(config Config, metricsConfig metrics.Config) *MetricsTransmitter {
	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	return &MetricsTransmitter{
		transmitter: NewWithConfig(config),
		registry:    registry,
		enabled:     metricsConfig.Enabled,
	}
}

// Post streams body to url, recording request counts, sent bytes and
// duration labeled by destination.
func (mt *MetricsTransmitter) Post(ctx context.Context, url string, body io.Reader) (*Result, error) {
	if !mt.enabled {
		return mt.transmitter.Post(ctx, url, body)
	}

	counted := &countingReader{r: body}
	mt.registry.RequestsStarted.WithLabelValues(url).Inc()

	start := time.Now()
	result, err := mt.transmitter.Post(ctx, url, counted)

	mt.registry.RequestBytesSent.WithLabelValues(url).Add(float64(counted.count()))
	mt.registry.RequestDuration.WithLabelValues(url).Observe(time.Since(start).Seconds())
	if err != nil {
		mt.registry.RequestsFailed.WithLabelValues(url).Inc()
		return nil, err
	}
	mt.registry.RequestsSucceeded.WithLabelValues(url).Inc()
	return result, nil
}

// countingReader counts bytes handed to the transport. It forwards Close so
// cancellation still reaches the underlying stream.
type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		atomic.AddInt64(&cr.n, int64(n))
	}
	return n, err
}

func (cr *countingReader) Close() error {
	if c, ok := cr.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (cr *countingReader) count() int64 {
	return atomic.LoadInt64(&cr.n)
}
