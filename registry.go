package kmersim

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/bits-and-blooms/bitset"

	"github.com/hupe1980/kmersim/internal/cache"
	"github.com/hupe1980/kmersim/metric"
)

// Descriptor is a read-only view of one registered metric.
type Descriptor struct {
	ID         metric.ID
	Name       string
	Similarity bool
	Symmetric  bool
	Min        float64
	Max        float64
	Finalized  bool
}

type descriptor struct {
	info      metric.Info
	fn        metric.Func
	min, max  float64
	finalized bool
}

func (d descriptor) view() Descriptor {
	return Descriptor{
		ID:         d.info.ID,
		Name:       d.info.Name,
		Similarity: d.info.Similarity,
		Symmetric:  d.info.Symmetric,
		Min:        d.min,
		Max:        d.max,
		Finalized:  d.finalized,
	}
}

// CacheStats reports the registry's memoization counters.
type CacheStats struct {
	Pairs      cache.Stats
	Alignments cache.Stats
}

// Registry holds the active metrics of a run: their functions, polarity,
// calibration bounds and the compositions declared over them.
//
// Descriptors are kept in registration order and are never removed or
// reordered, so an index stays valid for the lifetime of the registry. Every
// per-descriptor view (Lookup, Mins, Maxs, Similarities, Finalized) is
// index-aligned with Descriptors.
//
// A Registry is safe for concurrent use.
type Registry struct {
	mu           sync.RWMutex
	descs        []descriptor
	index        map[metric.ID]int
	active       *bitset.BitSet
	compositions []Composition

	pairs  *cache.PairCache
	aligns *cache.AlignmentCache

	opts options
}

// New creates an empty registry.
func New(optFns ...Option) *Registry {
	return newRegistry(applyOptions(optFns))
}

func newRegistry(o options) *Registry {
	return &Registry{
		index:  make(map[metric.ID]int),
		active: bitset.New(uint(metric.N2RRC.Bit() + 1)),
		pairs:  cache.NewPairCache(o.cacheShards, o.rc),
		aligns: cache.NewAlignmentCache(o.rc),
		opts:   o,
	}
}

// Register adds every metric in ids that is not yet active and records a
// composition of kind over all of them, in ascending bit order.
//
// Registering an active metric again reuses its descriptor and keeps its
// bounds. Unknown metric IDs and invalid kinds abort the call before the
// registry is changed.
func (r *Registry) Register(ids metric.ID, kind CompositionKind) error {
	ctx := context.Background()

	if !kind.Valid() {
		err := &InvalidCompositionKindError{Kind: kind}
		r.opts.logger.LogRegister(ctx, ids, kind, 0, err)
		return err
	}
	if ids == 0 {
		err := &UnknownMetricError{ID: 0}
		r.opts.logger.LogRegister(ctx, ids, kind, 0, err)
		return err
	}

	singles := metric.Split(ids)
	infos := make([]metric.Info, len(singles))
	for i, id := range singles {
		info, err := metric.Describe(id)
		if err != nil {
			r.opts.logger.LogRegister(ctx, id, kind, 0, err)
			return err
		}
		infos[i] = info
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	operands := make([]int, 0, len(infos))
	added := 0
	for _, info := range infos {
		if idx, ok := r.index[info.ID]; ok {
			operands = append(operands, idx)
			continue
		}
		idx := len(r.descs)
		r.descs = append(r.descs, r.newDescriptor(info))
		r.index[info.ID] = idx
		r.active.Set(uint(info.ID.Bit()))
		operands = append(operands, idx)
		added++
	}
	r.compositions = append(r.compositions, Composition{Kind: kind, Operands: operands})

	r.opts.logger.LogRegister(ctx, ids, kind, added, nil)
	return nil
}

func (r *Registry) newDescriptor(info metric.Info) descriptor {
	if info.ID == metric.Alignment {
		// identity is a fraction; never sampled
		return descriptor{
			info:      info,
			fn:        metric.AlignmentWith(r.opts.aligner),
			min:       0,
			max:       1,
			finalized: true,
		}
	}

	fn, _ := metric.Lookup(info.ID)
	return descriptor{
		info: info,
		fn:   fn,
		min:  math.Inf(1),
		max:  math.Inf(-1),
	}
}

// SetBounds sets the bounds of a registered metric and finalizes it.
// Both bounds must be finite.
func (r *Registry) SetBounds(id metric.ID, lo, hi float64) error {
	if !isFinite(lo) || !isFinite(hi) || lo > hi {
		return fmt.Errorf("%w: [%v, %v] for %s", ErrInvalidBounds, lo, hi, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRegistered, id)
	}
	d := &r.descs[idx]
	d.min, d.max, d.finalized = lo, hi, true
	return nil
}

// FinalizeAll freezes the bounds of every descriptor against recalibration.
func (r *Registry) FinalizeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.descs {
		r.descs[i].finalized = true
	}
}

// Len returns the number of descriptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.descs)
}

// Descriptors returns a snapshot of all descriptors in registration order.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, len(r.descs))
	for i, d := range r.descs {
		out[i] = d.view()
	}
	return out
}

// Lookup returns the metric IDs in descriptor order.
func (r *Registry) Lookup() []metric.ID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]metric.ID, len(r.descs))
	for i, d := range r.descs {
		out[i] = d.info.ID
	}
	return out
}

// Mins returns the lower bounds in descriptor order.
func (r *Registry) Mins() []float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]float64, len(r.descs))
	for i, d := range r.descs {
		out[i] = d.min
	}
	return out
}

// Maxs returns the upper bounds in descriptor order.
func (r *Registry) Maxs() []float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]float64, len(r.descs))
	for i, d := range r.descs {
		out[i] = d.max
	}
	return out
}

// Similarities returns the polarity of each descriptor.
func (r *Registry) Similarities() []bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bool, len(r.descs))
	for i, d := range r.descs {
		out[i] = d.info.Similarity
	}
	return out
}

// Finalized returns the finalization flag of each descriptor.
func (r *Registry) Finalized() []bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bool, len(r.descs))
	for i, d := range r.descs {
		out[i] = d.finalized
	}
	return out
}

// Mask returns the union of all active metric IDs.
func (r *Registry) Mask() metric.ID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var mask metric.ID
	for i, ok := r.active.NextSet(0); ok; i, ok = r.active.NextSet(i + 1) {
		mask |= metric.ID(1) << i
	}
	return mask
}

// IsActive reports whether the single metric id is registered.
func (r *Registry) IsActive(id metric.ID) bool {
	if !id.IsSingle() {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active.Test(uint(id.Bit()))
}

// IndexOf returns the descriptor index of a registered metric.
func (r *Registry) IndexOf(id metric.ID) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.index[id]
	return idx, ok
}

// Compositions returns the declared compositions in declaration order.
func (r *Registry) Compositions() []Composition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Composition, len(r.compositions))
	for i, c := range r.compositions {
		out[i] = c.clone()
	}
	return out
}

// Clone returns a registry with the same descriptors, bounds and
// compositions, and empty caches.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c := newRegistry(r.opts)
	c.descs = append([]descriptor(nil), r.descs...)
	for id, idx := range r.index {
		c.index[id] = idx
	}
	c.active = r.active.Clone()
	c.compositions = make([]Composition, len(r.compositions))
	for i, comp := range r.compositions {
		c.compositions[i] = comp.clone()
	}
	return c
}

// CacheStats returns the memoization counters.
func (r *Registry) CacheStats() CacheStats {
	return CacheStats{
		Pairs:      r.pairs.Stats(),
		Alignments: r.aligns.Stats(),
	}
}

// Close drops every cached value and returns its memory to the resource
// controller. The registry stays usable.
func (r *Registry) Close() error {
	r.pairs.Release()
	r.aligns.Release()
	return nil
}

// snapshot copies the descriptors for use outside the lock.
func (r *Registry) snapshot() []descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]descriptor(nil), r.descs...)
}
