package flatfs

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems.
type MetricsCollector interface {
	// RecordCreate is called after each create operation.
	// size is the payload length, err is nil if successful.
	RecordCreate(size int, duration time.Duration, err error)

	// RecordRead is called after each read operation.
	RecordRead(size int, duration time.Duration, err error)

	// RecordDelete is called after each delete operation.
	RecordDelete(duration time.Duration, err error)

	// RecordFormat is called after each format operation.
	RecordFormat(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCreate(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordRead(int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordDelete(time.Duration, error)      {}
func (NoopMetricsCollector) RecordFormat(time.Duration, error)      {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	CreateCount      atomic.Int64
	CreateErrors     atomic.Int64
	CreateBytes      atomic.Int64
	CreateTotalNanos atomic.Int64
	ReadCount        atomic.Int64
	ReadErrors       atomic.Int64
	ReadBytes        atomic.Int64
	ReadTotalNanos   atomic.Int64
	DeleteCount      atomic.Int64
	DeleteErrors     atomic.Int64
	FormatCount      atomic.Int64
	FormatErrors     atomic.Int64
}

// RecordCreate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCreate(size int, duration time.Duration, err error) {
	b.CreateCount.Add(1)
	b.CreateTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.CreateErrors.Add(1)
	} else {
		b.CreateBytes.Add(int64(size))
	}
}

// RecordRead implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRead(size int, duration time.Duration, err error) {
	b.ReadCount.Add(1)
	b.ReadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ReadErrors.Add(1)
	} else {
		b.ReadBytes.Add(int64(size))
	}
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(duration time.Duration, err error) {
	b.DeleteCount.Add(1)
	if err != nil {
		b.DeleteErrors.Add(1)
	}
}

// RecordFormat implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFormat(duration time.Duration, err error) {
	b.FormatCount.Add(1)
	if err != nil {
		b.FormatErrors.Add(1)
	}
}

// BasicMetricsStats is a point-in-time snapshot of BasicMetricsCollector.
type BasicMetricsStats struct {
	CreateCount  int64
	CreateErrors int64
	CreateBytes  int64
	ReadCount    int64
	ReadErrors   int64
	ReadBytes    int64
	DeleteCount  int64
	DeleteErrors int64
	FormatCount  int64
	FormatErrors int64
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		CreateCount:  b.CreateCount.Load(),
		CreateErrors: b.CreateErrors.Load(),
		CreateBytes:  b.CreateBytes.Load(),
		ReadCount:    b.ReadCount.Load(),
		ReadErrors:   b.ReadErrors.Load(),
		ReadBytes:    b.ReadBytes.Load(),
		DeleteCount:  b.DeleteCount.Load(),
		DeleteErrors: b.DeleteErrors.Load(),
		FormatCount:  b.FormatCount.Load(),
		FormatErrors: b.FormatErrors.Load(),
	}
}
