package kmersim

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/kmersim/metric"
	"github.com/hupe1980/kmersim/point"
)

// extrema holds per-target running bounds of one calibration worker.
type extrema struct {
	lo, hi []float64
}

func newExtrema(n int) extrema {
	e := extrema{lo: make([]float64, n), hi: make([]float64, n)}
	for i := range e.lo {
		e.lo[i] = math.Inf(1)
		e.hi[i] = math.Inf(-1)
	}
	return e
}

// observe ignores non-finite values.
func (e extrema) observe(j int, v float64) {
	if !isFinite(v) {
		return
	}
	if v < e.lo[j] {
		e.lo[j] = v
	}
	if v > e.hi[j] {
		e.hi[j] = v
	}
}

// Calibrate widens the bounds of every descriptor that is neither finalized
// nor the alignment metric to cover the finite values observed on pairs.
//
// Bounds are only ever widened, so calibrating again with a larger sample
// refines earlier results. Calibration does not finalize; call FinalizeAll
// to freeze the bounds. Values computed here are memoized and reused by
// later evaluations.
//
// Pairs are split across workers that each reduce a local min/max; the local
// results are merged once all workers finish. If any evaluation fails, no
// bounds are changed.
func (r *Registry) Calibrate(ctx context.Context, pairs []point.Pair) error {
	start := time.Now()

	var (
		targets []int
		descs   []descriptor
	)
	r.mu.RLock()
	for i, d := range r.descs {
		if d.finalized || d.info.ID == metric.Alignment {
			continue
		}
		targets = append(targets, i)
		descs = append(descs, d)
	}
	r.mu.RUnlock()

	if len(targets) == 0 || len(pairs) == 0 {
		return nil
	}

	workers := min(r.opts.workers, len(pairs))
	chunk := (len(pairs) + workers - 1) / workers
	partial := make([]extrema, workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := range workers {
		lo := w * chunk
		hi := min(lo+chunk, len(pairs))
		if lo >= hi {
			continue
		}

		g.Go(func() error {
			if err := r.opts.rc.AcquireWorker(gctx); err != nil {
				return err
			}
			defer r.opts.rc.ReleaseWorker()

			ext := newExtrema(len(descs))
			for _, p := range pairs[lo:hi] {
				if err := gctx.Err(); err != nil {
					return err
				}
				for j, d := range descs {
					v, err := r.evaluate(gctx, d, p.A, p.B)
					if err != nil {
						return fmt.Errorf("calibrate %s: %w", d.info.Name, err)
					}
					ext.observe(j, v)
				}
			}
			partial[w] = ext
			return nil
		})
	}

	err := g.Wait()
	r.opts.metricsCollector.RecordCalibrate(len(pairs), len(targets), time.Since(start), err)
	r.opts.logger.LogCalibrate(ctx, len(pairs), len(targets), time.Since(start), err)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for j, idx := range targets {
		d := &r.descs[idx]
		if d.finalized {
			// finalized while sampling
			continue
		}
		for _, ext := range partial {
			if ext.lo == nil {
				continue
			}
			d.min = math.Min(d.min, ext.lo[j])
			d.max = math.Max(d.max, ext.hi[j])
		}
	}
	return nil
}
