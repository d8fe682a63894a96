package rabitq

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    quantizeCounter prometheus.Counter
//	    scanHistogram   prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordQuantize(duration time.Duration, err error) {
//	    p.quantizeCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordQuantize is called after each quantize operation.
	// duration is the total time taken, err is nil if successful.
	RecordQuantize(duration time.Duration, err error)

	// RecordScan is called after each scan.
	// clusters is the number of clusters requested, codes the number of codes
	// scored, duration the total time taken.
	RecordScan(clusters, codes int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordQuantize(time.Duration, error)       {}
func (NoopMetricsCollector) RecordScan(int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	QuantizeCount      atomic.Int64
	QuantizeErrors     atomic.Int64
	QuantizeTotalNanos atomic.Int64
	ScanCount          atomic.Int64
	ScanErrors         atomic.Int64
	ScanClusters       atomic.Int64
	ScanCodes          atomic.Int64
	ScanTotalNanos     atomic.Int64
}

// RecordQuantize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuantize(duration time.Duration, err error) {
	b.QuantizeCount.Add(1)
	b.QuantizeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QuantizeErrors.Add(1)
	}
}

// RecordScan implements MetricsCollector.
func (b *BasicMetricsCollector) RecordScan(clusters, codes int, duration time.Duration, err error) {
	b.ScanCount.Add(1)
	b.ScanClusters.Add(int64(clusters))
	b.ScanCodes.Add(int64(codes))
	b.ScanTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ScanErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		QuantizeCount:    b.QuantizeCount.Load(),
		QuantizeErrors:   b.QuantizeErrors.Load(),
		QuantizeAvgNanos: avgNanos(b.QuantizeTotalNanos.Load(), b.QuantizeCount.Load()),
		ScanCount:        b.ScanCount.Load(),
		ScanErrors:       b.ScanErrors.Load(),
		ScanClusters:     b.ScanClusters.Load(),
		ScanCodes:        b.ScanCodes.Load(),
		ScanAvgNanos:     avgNanos(b.ScanTotalNanos.Load(), b.ScanCount.Load()),
	}
}

func avgNanos(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	QuantizeCount    int64
	QuantizeErrors   int64
	QuantizeAvgNanos int64
	ScanCount        int64
	ScanErrors       int64
	ScanClusters     int64
	ScanCodes        int64
	ScanAvgNanos     int64
}
