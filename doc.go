// Package kmersim scores pairs of biological sequences with an ensemble of
// calibrated k-mer statistics.
//
// Each sequence is a point.Point: a vector of k-mer occurrence counts with a
// few derived statistics. A Registry holds the metrics of a run, calibrates
// their observed range on a sample of pairs and rescales raw values onto a
// common [0,1] scale on which 1 always means most similar.
//
// # Quick Start
//
//	reg := kmersim.New(kmersim.WithLogger(kmersim.NewTextLogger(slog.LevelInfo)))
//
//	// one composition over two metrics
//	if err := reg.Register(metric.Euclidean|metric.Jaccard, kmersim.Product2); err != nil {
//	    return err
//	}
//
//	if err := reg.Calibrate(ctx, samplePairs); err != nil {
//	    return err
//	}
//	reg.FinalizeAll()
//
//	raw, scores, err := reg.Score(ctx, a, b)
//
// # Registration
//
// Register appends one descriptor per new metric, in ascending bit order,
// and records a Composition over the requested metrics. Registering a metric
// again reuses its descriptor. Bounds start at [+Inf, -Inf]; the alignment
// metric is fixed to [0,1] and finalized on registration.
//
// # Calibration
//
// Calibrate evaluates every non-finalized metric on the sample in parallel
// and widens its bounds to the finite values observed. NaN and Inf results
// never become bounds. SetBounds injects known bounds instead; FinalizeAll
// freezes everything.
//
// # Normalization
//
// Normalize computes t = (raw-min)/(max-min), clamps it to [0,1] and flips it
// for dissimilarities. NaN raw values and degenerate bounds yield Fallback
// (0.5).
//
// # Memoization
//
// Every evaluation is memoized for the lifetime of the registry. Symmetric
// metrics are keyed by the unordered point pair; k_divergence and afd are
// keyed by the ordered pair. Alignment identities have their own cache.
// Calibration fills the caches that scoring reads.
//
// # Observability
//
// WithLogger enables slog-based logging, WithMetricsCollector records
// evaluation, calibration and normalization counters, and
// WithResourceController shares worker, memory and alignment limits across
// registries.
package kmersim
