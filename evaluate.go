package kmersim

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/kmersim/internal/cache"
	"github.com/hupe1980/kmersim/metric"
	"github.com/hupe1980/kmersim/point"
)

// Evaluate returns the raw value of descriptor idx for (a, b).
//
// Values are memoized per registry, including NaN and Inf. Symmetric metrics
// are computed with the lower point id first and share one entry for both
// argument orders, so Evaluate(idx, a, b) and Evaluate(idx, b, a) are
// bit-identical. Alignment identities live in a separate cache under an
// order-independent key. Errors are returned and never cached.
func (r *Registry) Evaluate(ctx context.Context, idx int, a, b point.Point) (float64, error) {
	r.mu.RLock()
	if idx < 0 || idx >= len(r.descs) {
		n := len(r.descs)
		r.mu.RUnlock()
		return 0, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, idx, n)
	}
	d := r.descs[idx]
	r.mu.RUnlock()

	return r.evaluate(ctx, d, a, b)
}

func (r *Registry) evaluate(ctx context.Context, d descriptor, a, b point.Point) (float64, error) {
	start := time.Now()
	v, cached, err := r.memoized(ctx, d, a, b)
	r.opts.metricsCollector.RecordEvaluate(d.info.ID, cached, time.Since(start), err)
	return v, err
}

func (r *Registry) memoized(ctx context.Context, d descriptor, a, b point.Point) (float64, bool, error) {
	if d.info.ID == metric.Alignment {
		if v, ok := r.aligns.Get(a.ID(), b.ID()); ok {
			return v, true, nil
		}
		if err := r.opts.rc.AcquireAlignment(ctx); err != nil {
			return 0, false, err
		}
		if a.ID() > b.ID() {
			a, b = b, a
		}
		v, err := d.fn(a, b)
		if err != nil {
			return 0, false, err
		}
		return r.aligns.Put(a.ID(), b.ID(), v), false, nil
	}

	key := cache.PairKey(a.ID(), b.ID(), d.info.ID.Bit(), d.info.Symmetric)
	if v, ok := r.pairs.Get(key); ok {
		return v, true, nil
	}
	if d.info.Symmetric && a.ID() > b.ID() {
		a, b = b, a
	}
	v, err := d.fn(a, b)
	if err != nil {
		return 0, false, err
	}
	return r.pairs.Put(key, v), false, nil
}

// ComputeRaw returns one raw value per descriptor, in descriptor order.
func (r *Registry) ComputeRaw(ctx context.Context, a, b point.Point) ([]float64, error) {
	return r.computeRaw(ctx, r.snapshot(), a, b)
}

func (r *Registry) computeRaw(ctx context.Context, descs []descriptor, a, b point.Point) ([]float64, error) {
	out := make([]float64, len(descs))
	for i, d := range descs {
		v, err := r.evaluate(ctx, d, a, b)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s: %w", d.info.Name, err)
		}
		out[i] = v
	}
	return out, nil
}

// ComputeBatch computes the raw vectors of many pairs in parallel. The i-th
// result belongs to pairs[i]. All vectors are computed against the same
// descriptor snapshot.
func (r *Registry) ComputeBatch(ctx context.Context, pairs []point.Pair) ([][]float64, error) {
	descs := r.snapshot()
	out := make([][]float64, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.workers)

	for i, p := range pairs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := r.opts.rc.AcquireWorker(gctx); err != nil {
				return err
			}
			defer r.opts.rc.ReleaseWorker()

			raw, err := r.computeRaw(gctx, descs, p.A, p.B)
			if err != nil {
				return err
			}
			out[i] = raw
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Score computes and normalizes the raw vector of (a, b).
func (r *Registry) Score(ctx context.Context, a, b point.Point) (raw, normalized []float64, err error) {
	descs := r.snapshot()
	raw, err = r.computeRaw(ctx, descs, a, b)
	if err != nil {
		return nil, nil, err
	}
	return raw, r.normalize(ctx, descs, raw), nil
}
