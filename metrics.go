package easystore

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; package
// metric provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordOperation is called after each driver call.
	// duration is the time the driver took, err is nil if successful.
	RecordOperation(disk, op string, duration time.Duration, err error)

	// RecordUnsupported is called when a disk lacks the requested capability.
	RecordUnsupported(disk, op string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOperation(string, string, time.Duration, error) {}
func (NoopMetricsCollector) RecordUnsupported(string, string)                     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	OperationCount      atomic.Int64
	OperationErrors     atomic.Int64
	OperationTotalNanos atomic.Int64
	UnsupportedCount    atomic.Int64
}

// RecordOperation implements MetricsCollector.
func (b *BasicMetricsCollector) RecordOperation(_, _ string, duration time.Duration, err error) {
	b.OperationCount.Add(1)
	b.OperationTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.OperationErrors.Add(1)
	}
}

// RecordUnsupported implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUnsupported(string, string) {
	b.UnsupportedCount.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		OperationCount:    b.OperationCount.Load(),
		OperationErrors:   b.OperationErrors.Load(),
		OperationAvgNanos: b.getAvgOperationNanos(),
		UnsupportedCount:  b.UnsupportedCount.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgOperationNanos() int64 {
	count := b.OperationCount.Load()
	if count == 0 {
		return 0
	}
	return b.OperationTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	OperationCount    int64
	OperationErrors   int64
	OperationAvgNanos int64
	UnsupportedCount  int64
}
