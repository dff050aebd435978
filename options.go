package kmersim

import (
	"log/slog"
	"runtime"

	"github.com/hupe1980/kmersim/align"
	"github.com/hupe1980/kmersim/internal/cache"
	"github.com/hupe1980/kmersim/resource"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	cacheShards      int
	workers          int
	aligner          align.Aligner
	rc               *resource.Controller
}

// Option configures a Registry.
type Option func(*options)

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := kmersim.NewJSONLogger(slog.LevelInfo)
//	reg := kmersim.New(kmersim.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
//	mc := &kmersim.BasicMetricsCollector{}
//	reg := kmersim.New(kmersim.WithMetricsCollector(mc))
//	// ... calibrate, score ...
//	stats := mc.GetStats()
//	fmt.Printf("evaluations: %d (%d cached)\n", stats.EvaluateCount, stats.EvaluateCached)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithCacheShards sets the number of pair cache shards, rounded up to a
// power of two. Defaults to 64.
func WithCacheShards(n int) Option {
	return func(o *options) {
		o.cacheShards = n
	}
}

// WithWorkers sets the parallelism of Calibrate and ComputeBatch.
// Defaults to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithAligner replaces the aligner behind the alignment metric.
// It must be symmetric and safe for concurrent use.
func WithAligner(a align.Aligner) Option {
	return func(o *options) {
		o.aligner = a
	}
}

// WithResourceController shares worker slots, cache memory and alignment
// throughput limits with other registries. The registry never runs more
// workers than the controller has slots.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		cacheShards:      cache.DefaultShards,
		workers:          runtime.GOMAXPROCS(0),
		aligner:          align.Default,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.workers <= 0 {
		o.workers = 1
	}
	// more goroutines than controller slots would only queue on the semaphore
	if n := o.rc.MaxWorkers(); n > 0 && o.workers > n {
		o.workers = n
	}
	if o.aligner == nil {
		o.aligner = align.Default
	}
	return o
}
