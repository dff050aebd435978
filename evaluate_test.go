package kmersim

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kmersim/align"
	"github.com/hupe1980/kmersim/internal/cache"
	"github.com/hupe1980/kmersim/metric"
	"github.com/hupe1980/kmersim/point"
	"github.com/hupe1980/kmersim/resource"
	"github.com/hupe1980/kmersim/testutil"
)

func alignCounter(calls *int) align.Aligner {
	return align.Func(func(a, b string) float64 {
		*calls++
		return align.Identity(a, b, align.DefaultScoring)
	})
}

func TestEvaluate_Deterministic(t *testing.T) {
	rng := testutil.NewRNG(42)
	pts := rng.Family(4, 3, 120, 0.1)

	r := New()
	require.NoError(t, r.Register(metric.All, Product2))

	ctx := context.Background()
	for idx, d := range r.Descriptors() {
		first, err := r.Evaluate(ctx, idx, pts[0], pts[1])
		require.NoError(t, err, d.Name)
		again, err := r.Evaluate(ctx, idx, pts[0], pts[1])
		require.NoError(t, err, d.Name)
		assert.Equal(t, math.Float64bits(first), math.Float64bits(again), d.Name)

		// a fresh registry recomputes the same bits
		fresh := New()
		require.NoError(t, fresh.Register(d.ID, Product2))
		v, err := fresh.Evaluate(ctx, 0, pts[0], pts[1])
		require.NoError(t, err, d.Name)
		assert.Equal(t, math.Float64bits(first), math.Float64bits(v), d.Name)
	}
}

func TestEvaluate_Symmetry(t *testing.T) {
	rng := testutil.NewRNG(42)
	pts := rng.Family(3, 3, 120, 0.1)
	a, b := pts[2], pts[1]

	r := New()
	require.NoError(t, r.Register(metric.All, Product2))

	ctx := context.Background()
	for idx, d := range r.Descriptors() {
		ab, err := r.Evaluate(ctx, idx, a, b)
		require.NoError(t, err)
		ba, err := r.Evaluate(ctx, idx, b, a)
		require.NoError(t, err)
		if d.Symmetric {
			assert.Equal(t, math.Float64bits(ab), math.Float64bits(ba), d.Name)
		}
	}

	// one entry per symmetric metric, two per directed metric
	stats := r.CacheStats()
	assert.Equal(t, int64(1), stats.Alignments.Entries)
	assert.Equal(t, int64(len(metric.Catalogue())-1+2), stats.Pairs.Entries)
}

func TestEvaluate_CanonicalOrder(t *testing.T) {
	rng := testutil.NewRNG(17)
	pts := rng.Family(2, 3, 200, 0.2)
	a, b := pts[1], pts[0]

	ctx := context.Background()
	for _, id := range []metric.ID{metric.KLConditional, metric.Markov, metric.JensenShannon} {
		// separate registries so the reversed call cannot hit the cache
		r1, r2 := New(), New()
		require.NoError(t, r1.Register(id, Product2))
		require.NoError(t, r2.Register(id, Product2))

		ab, err := r1.Evaluate(ctx, 0, a, b)
		require.NoError(t, err)
		ba, err := r2.Evaluate(ctx, 0, b, a)
		require.NoError(t, err)
		assert.Equal(t, math.Float64bits(ab), math.Float64bits(ba), id.String())
	}
}

func TestEvaluate_AlignmentCache(t *testing.T) {
	a := mustKmer(t, 9, filled(4, 1), point.WithSequence("ACGTACGT"))
	b := mustKmer(t, 3, filled(4, 1), point.WithSequence("ACGAACGT"))

	calls := 0
	r := New(WithAligner(alignCounter(&calls)))
	require.NoError(t, r.Register(metric.Alignment, Product2))

	ctx := context.Background()
	ab, err := r.Evaluate(ctx, 0, a, b)
	require.NoError(t, err)
	ba, err := r.Evaluate(ctx, 0, b, a)
	require.NoError(t, err)

	assert.Equal(t, ab, ba)
	assert.InDelta(t, 7.0/8, ab, 1e-12)
	assert.Equal(t, 1, calls)

	stats := r.CacheStats().Alignments
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestEvaluate_AlignmentMissingSequence(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(metric.Alignment, Product2))

	_, err := r.Evaluate(context.Background(), 0, mustKmer(t, 1, filled(4, 1)), mustKmer(t, 2, filled(4, 1)))
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.Equal(t, int64(0), r.CacheStats().Alignments.Entries)
}

func TestEvaluate_AlignmentEmptySequence(t *testing.T) {
	empty, err := point.FromSequence(1, "", 2)
	require.NoError(t, err)
	other, err := point.FromSequence(2, "ACGT", 2)
	require.NoError(t, err)

	r := New()
	require.NoError(t, r.Register(metric.Alignment, Product2))

	v, err := r.Evaluate(context.Background(), 0, empty, other)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	v, err = r.Evaluate(context.Background(), 0, empty, empty)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestEvaluate_Errors(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(metric.LengthDifference, Product2))
	ctx := context.Background()

	a := mustKmer(t, 1, filled(4, 1), point.WithLength(0))
	b := mustKmer(t, 2, filled(4, 1), point.WithLength(10))

	_, err := r.Evaluate(ctx, 0, a, b)
	var ile *InvalidLengthError
	require.ErrorAs(t, err, &ile)
	assert.Equal(t, int64(0), r.CacheStats().Pairs.Entries)

	_, err = r.ComputeRaw(ctx, a, b)
	assert.ErrorIs(t, err, ErrInvalidLength)

	_, err = r.Evaluate(ctx, 1, a, b)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = r.Evaluate(ctx, -1, a, b)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestEvaluate_CachesNonFinite(t *testing.T) {
	a := mustKmer(t, 1, make([]uint64, 4), point.WithLength(4))
	b := mustKmer(t, 2, make([]uint64, 4), point.WithLength(4))

	mc := &BasicMetricsCollector{}
	r := New(WithMetricsCollector(mc))
	require.NoError(t, r.Register(metric.ChiSquared, Product2))

	for range 3 {
		v, err := r.Evaluate(context.Background(), 0, a, b)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(v))
	}
	assert.Equal(t, int64(1), r.CacheStats().Pairs.Entries)
	assert.Equal(t, int64(2), mc.GetStats().EvaluateCached)
}

func TestComputeRaw(t *testing.T) {
	rng := testutil.NewRNG(8)
	pts := rng.Points(2, 2, 64)

	r := New()
	require.NoError(t, r.Register(metric.Pearson|metric.Euclidean|metric.Spearman, Product2))

	raw, err := r.ComputeRaw(context.Background(), pts[0], pts[1])
	require.NoError(t, err)
	require.Len(t, raw, 3)

	for i, id := range r.Lookup() {
		fn, err := metric.Lookup(id)
		require.NoError(t, err)
		want, err := fn(pts[0], pts[1])
		require.NoError(t, err)
		assert.Equal(t, want, raw[i], id.String())
	}
}

func TestComputeBatch(t *testing.T) {
	rng := testutil.NewRNG(8)
	pairs := testutil.AllPairs(rng.Family(8, 3, 160, 0.15))

	r := New(WithWorkers(4))
	require.NoError(t, r.Register(metric.Euclidean|metric.KDivergence|metric.D2s|metric.AFD|metric.Alignment, Product2))

	batch, err := r.ComputeBatch(context.Background(), pairs)
	require.NoError(t, err)
	require.Len(t, batch, len(pairs))

	seq := New()
	require.NoError(t, seq.Register(metric.Euclidean|metric.KDivergence|metric.D2s|metric.AFD|metric.Alignment, Product2))
	for i, p := range pairs {
		raw, err := seq.ComputeRaw(context.Background(), p.A, p.B)
		require.NoError(t, err)
		assert.Equal(t, raw, batch[i])
	}
}

func TestComputeBatch_Error(t *testing.T) {
	rng := testutil.NewRNG(8)
	pairs := testutil.AllPairs(rng.Points(4, 2, 40))
	pairs = append(pairs, point.Pair{A: mustKmer(t, 90, filled(16, 1)), B: mustKmer(t, 91, filled(4, 1))})

	r := New(WithWorkers(2))
	require.NoError(t, r.Register(metric.Manhattan, Product2))

	out, err := r.ComputeBatch(context.Background(), pairs)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.Nil(t, out)
}

func TestEvaluate_Concurrent(t *testing.T) {
	rng := testutil.NewRNG(77)
	pts := rng.Family(6, 2, 100, 0.2)
	pairs := testutil.AllPairs(pts)

	r := New()
	require.NoError(t, r.Register(metric.Euclidean|metric.Markov|metric.SimMM|metric.KDivergence, Product2))

	want := make([][]float64, len(pairs))
	ref := r.Clone()
	for i, p := range pairs {
		raw, err := ref.ComputeRaw(context.Background(), p.A, p.B)
		require.NoError(t, err)
		want[i] = raw
	}

	var wg sync.WaitGroup
	var mismatches atomic.Int64
	for g := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, p := range pairs {
				a, b := p.A, p.B
				if g%2 == 1 {
					a, b = b, a
				}
				raw, err := r.ComputeRaw(context.Background(), a, b)
				if err != nil {
					mismatches.Add(1)
					continue
				}
				// index 1 (k_divergence) is directed
				for j, v := range raw {
					if j != 1 && v != want[i][j] {
						mismatches.Add(1)
					}
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(0), mismatches.Load())
	assert.Equal(t, []metric.ID{metric.Euclidean, metric.KDivergence, metric.Markov, metric.SimMM}, r.Lookup())
}

func TestEvaluate_MemoryLimit(t *testing.T) {
	rng := testutil.NewRNG(8)
	pairs := testutil.AllPairs(rng.Points(5, 2, 40))

	rc := resource.NewController(resource.Config{MemoryLimitBytes: 3 * cache.EntryBytes, MaxWorkers: 2})
	r := New(WithResourceController(rc))
	require.NoError(t, r.Register(metric.Euclidean, Product2))

	batch, err := r.ComputeBatch(context.Background(), pairs)
	require.NoError(t, err)

	stats := r.CacheStats().Pairs
	assert.Equal(t, int64(3), stats.Entries)
	assert.Equal(t, int64(len(pairs)-3), stats.Rejected)

	fn, err := metric.Lookup(metric.Euclidean)
	require.NoError(t, err)
	for i, p := range pairs {
		want, err := fn(p.A, p.B)
		require.NoError(t, err)
		assert.Equal(t, want, batch[i][0])
	}

	require.NoError(t, r.Close())
	assert.Equal(t, int64(0), rc.MemoryUsage())
}

func TestEvaluate_AlignmentRateLimit(t *testing.T) {
	a := mustKmer(t, 1, filled(4, 1), point.WithSequence("ACGT"))
	b := mustKmer(t, 2, filled(4, 1), point.WithSequence("ACGA"))
	c := mustKmer(t, 3, filled(4, 1), point.WithSequence("ACCA"))

	rc := resource.NewController(resource.Config{AlignmentsPerSec: 0.001, AlignmentBurst: 1})
	r := New(WithResourceController(rc))
	require.NoError(t, r.Register(metric.Alignment, Product2))

	ctx := context.Background()
	_, err := r.Evaluate(ctx, 0, a, b)
	require.NoError(t, err)

	// cached values bypass the limiter
	_, err = r.Evaluate(ctx, 0, b, a)
	require.NoError(t, err)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err = r.Evaluate(cctx, 0, a, c)
	assert.Error(t, err)
}

func TestWorkers_CappedByController(t *testing.T) {
	rc := resource.NewController(resource.Config{MaxWorkers: 2})
	assert.Equal(t, 2, New(WithWorkers(8), WithResourceController(rc)).opts.workers)
	assert.Equal(t, 1, New(WithWorkers(1), WithResourceController(rc)).opts.workers)
	assert.Equal(t, 8, New(WithWorkers(8)).opts.workers)
}
