package kmersim

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/kmersim/metric"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; see package
// promcollector for a Prometheus implementation.
type MetricsCollector interface {
	// RecordEvaluate is called after each single-metric evaluation.
	// cached is true when the value came from a cache.
	RecordEvaluate(id metric.ID, cached bool, duration time.Duration, err error)

	// RecordCalibrate is called after each calibration pass.
	// metrics is the number of descriptors that were calibrated.
	RecordCalibrate(pairs, metrics int, duration time.Duration, err error)

	// RecordNormalize is called after each normalization.
	// fallbacks is the number of values that took the degenerate fallback.
	RecordNormalize(values, fallbacks int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordEvaluate(metric.ID, bool, time.Duration, error) {}
func (NoopMetricsCollector) RecordCalibrate(int, int, time.Duration, error)       {}
func (NoopMetricsCollector) RecordNormalize(int, int)                             {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	EvaluateCount      atomic.Int64
	EvaluateCached     atomic.Int64
	EvaluateErrors     atomic.Int64
	EvaluateTotalNanos atomic.Int64
	CalibrateCount     atomic.Int64
	CalibratePairs     atomic.Int64
	CalibrateErrors    atomic.Int64
	NormalizeValues    atomic.Int64
	NormalizeFallbacks atomic.Int64
}

// RecordEvaluate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEvaluate(_ metric.ID, cached bool, duration time.Duration, err error) {
	b.EvaluateCount.Add(1)
	b.EvaluateTotalNanos.Add(duration.Nanoseconds())
	if cached {
		b.EvaluateCached.Add(1)
	}
	if err != nil {
		b.EvaluateErrors.Add(1)
	}
}

// RecordCalibrate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCalibrate(pairs, _ int, _ time.Duration, err error) {
	b.CalibrateCount.Add(1)
	b.CalibratePairs.Add(int64(pairs))
	if err != nil {
		b.CalibrateErrors.Add(1)
	}
}

// RecordNormalize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordNormalize(values, fallbacks int) {
	b.NormalizeValues.Add(int64(values))
	b.NormalizeFallbacks.Add(int64(fallbacks))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		EvaluateCount:      b.EvaluateCount.Load(),
		EvaluateCached:     b.EvaluateCached.Load(),
		EvaluateErrors:     b.EvaluateErrors.Load(),
		EvaluateAvgNanos:   b.getAvgEvaluateNanos(),
		CalibrateCount:     b.CalibrateCount.Load(),
		CalibratePairs:     b.CalibratePairs.Load(),
		CalibrateErrors:    b.CalibrateErrors.Load(),
		NormalizeValues:    b.NormalizeValues.Load(),
		NormalizeFallbacks: b.NormalizeFallbacks.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgEvaluateNanos() int64 {
	count := b.EvaluateCount.Load()
	if count == 0 {
		return 0
	}
	return b.EvaluateTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	EvaluateCount      int64
	EvaluateCached     int64
	EvaluateErrors     int64
	EvaluateAvgNanos   int64
	CalibrateCount     int64
	CalibratePairs     int64
	CalibrateErrors    int64
	NormalizeValues    int64
	NormalizeFallbacks int64
}
