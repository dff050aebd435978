// Package promcollector exports registry activity as Prometheus metrics.
package promcollector

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hupe1980/kmersim"
	"github.com/hupe1980/kmersim/metric"
)

const namespace = "kmersim"

var _ kmersim.MetricsCollector = (*Collector)(nil)

// Collector implements kmersim.MetricsCollector on top of Prometheus.
type Collector struct {
	evaluations        *prometheus.CounterVec
	evaluateLatency    *prometheus.HistogramVec
	calibrations       *prometheus.CounterVec
	calibrationPairs   prometheus.Counter
	calibrationLatency prometheus.Histogram
	normalized         prometheus.Counter
	fallbacks          prometheus.Counter
}

// New registers the collector's metrics with reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Collector{
		evaluations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Total single-metric evaluations by metric and result",
		}, []string{"metric", "result"}),
		// Only computed values are timed; cache hits would swamp the buckets.
		evaluateLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluate_duration_seconds",
			Help:      "Latency of uncached metric evaluations",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 12),
		}, []string{"metric"}),
		calibrations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calibrations_total",
			Help:      "Total calibration passes by status",
		}, []string{"status"}),
		calibrationPairs: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calibration_pairs_total",
			Help:      "Total pairs processed by calibration",
		}),
		calibrationLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "calibration_duration_seconds",
			Help:      "Latency of calibration passes",
			Buckets:   prometheus.DefBuckets,
		}),
		normalized: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "normalized_values_total",
			Help:      "Total raw values normalized",
		}),
		fallbacks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "normalization_fallbacks_total",
			Help:      "Total normalized values that used the degenerate fallback",
		}),
	}
}

// RecordEvaluate implements kmersim.MetricsCollector.
func (c *Collector) RecordEvaluate(id metric.ID, cached bool, d time.Duration, err error) {
	name := id.String()
	switch {
	case err != nil:
		c.evaluations.WithLabelValues(name, "error").Inc()
	case cached:
		c.evaluations.WithLabelValues(name, "cached").Inc()
	default:
		c.evaluations.WithLabelValues(name, "computed").Inc()
		c.evaluateLatency.WithLabelValues(name).Observe(d.Seconds())
	}
}

// RecordCalibrate implements kmersim.MetricsCollector.
func (c *Collector) RecordCalibrate(pairs, _ int, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.calibrations.WithLabelValues(status).Inc()
	c.calibrationPairs.Add(float64(pairs))
	c.calibrationLatency.Observe(d.Seconds())
}

// RecordNormalize implements kmersim.MetricsCollector.
func (c *Collector) RecordNormalize(values, fallbacks int) {
	c.normalized.Add(float64(values))
	c.fallbacks.Add(float64(fallbacks))
}
