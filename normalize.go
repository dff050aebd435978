package kmersim

import (
	"context"
	"fmt"
	"math"
)

// Fallback is the normalized value used when a raw value cannot be placed
// within its bounds: NaN raw values, bounds that are not finite, and
// degenerate bounds with max <= min.
const Fallback = 0.5

// NormalizeValue maps raw onto [0,1] with respect to [lo, hi]. Values outside
// the bounds saturate. Dissimilarities are flipped so that 1 always means
// most similar. The second result reports whether Fallback was used.
func NormalizeValue(raw, lo, hi float64, similarity bool) (float64, bool) {
	t, ok := position(raw, lo, hi)
	if !similarity {
		t = 1 - t
	}
	return t, !ok
}

func position(raw, lo, hi float64) (float64, bool) {
	if math.IsNaN(raw) || !isFinite(lo) || !isFinite(hi) || hi <= lo {
		return Fallback, false
	}
	t := (raw - lo) / (hi - lo)
	if math.IsNaN(t) {
		// infinite raw over an overflowing range
		return Fallback, false
	}
	return min(max(t, 0), 1), true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Normalize maps one raw value per descriptor onto [0,1], oriented so that
// 1 means most similar.
func (r *Registry) Normalize(raw []float64) ([]float64, error) {
	descs := r.snapshot()
	if len(raw) != len(descs) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrRawLength, len(raw), len(descs))
	}
	return r.normalize(context.Background(), descs, raw), nil
}

func (r *Registry) normalize(ctx context.Context, descs []descriptor, raw []float64) []float64 {
	out := make([]float64, len(raw))
	fallbacks := 0
	for i, d := range descs {
		v, fallback := NormalizeValue(raw[i], d.min, d.max, d.info.Similarity)
		if fallback {
			fallbacks++
			r.opts.logger.LogFallback(ctx, d.info.ID, raw[i], d.min, d.max)
		}
		out[i] = v
	}
	r.opts.metricsCollector.RecordNormalize(len(raw), fallbacks)
	return out
}
