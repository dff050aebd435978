package kmersim

import (
	"errors"
	"fmt"

	"github.com/hupe1980/kmersim/metric"
)

// ProfileVersion is the current Profile format version.
const ProfileVersion = 1

// ErrProfileVersion is returned when applying a profile of an unknown version.
var ErrProfileVersion = errors.New("unsupported profile version")

// Profile is a portable snapshot of a registry's configuration: its
// compositions, which also define the descriptor order, and its bounds.
// Metrics are referenced by name. Only finite bounds are recorded, so an
// uncalibrated metric is registered but keeps its initial bounds.
type Profile struct {
	Version      int                  `json:"version"`
	Compositions []ProfileComposition `json:"compositions"`
	Bounds       []ProfileBounds      `json:"bounds,omitempty"`
}

// ProfileComposition is one Register call.
type ProfileComposition struct {
	Kind    string   `json:"kind"`
	Metrics []string `json:"metrics"`
}

// ProfileBounds is the calibration of one metric.
type ProfileBounds struct {
	Metric    string  `json:"metric"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Finalized bool    `json:"finalized"`
}

// Profile exports the registry configuration.
func (r *Registry) Profile() Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p := Profile{Version: ProfileVersion}
	for _, c := range r.compositions {
		pc := ProfileComposition{Kind: c.Kind.String()}
		for _, idx := range c.Operands {
			pc.Metrics = append(pc.Metrics, r.descs[idx].info.Name)
		}
		p.Compositions = append(p.Compositions, pc)
	}
	for _, d := range r.descs {
		if !isFinite(d.min) || !isFinite(d.max) {
			continue
		}
		p.Bounds = append(p.Bounds, ProfileBounds{
			Metric:    d.info.Name,
			Min:       d.min,
			Max:       d.max,
			Finalized: d.finalized,
		})
	}
	return p
}

// ApplyProfile replays the compositions of p and installs its bounds. The
// profile is validated completely before the registry is changed. Applied to
// an empty registry, it reproduces the exported descriptor order.
func (r *Registry) ApplyProfile(p Profile) error {
	if p.Version != ProfileVersion {
		return fmt.Errorf("%w: %d", ErrProfileVersion, p.Version)
	}

	type registration struct {
		ids  metric.ID
		kind CompositionKind
	}
	regs := make([]registration, 0, len(p.Compositions))
	for _, pc := range p.Compositions {
		kind, err := ParseCompositionKind(pc.Kind)
		if err != nil {
			return err
		}
		ids, err := metric.ParseNames(pc.Metrics)
		if err != nil {
			return err
		}
		if ids == 0 {
			return &UnknownMetricError{ID: 0}
		}
		regs = append(regs, registration{ids: ids, kind: kind})
	}

	type bounds struct {
		id        metric.ID
		lo, hi    float64
		finalized bool
	}
	bs := make([]bounds, 0, len(p.Bounds))
	for _, pb := range p.Bounds {
		id, ok := metric.ByName(pb.Metric)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownMetric, pb.Metric)
		}
		if !isFinite(pb.Min) || !isFinite(pb.Max) || pb.Min > pb.Max {
			return fmt.Errorf("%w: [%v, %v] for %s", ErrInvalidBounds, pb.Min, pb.Max, pb.Metric)
		}
		bs = append(bs, bounds{id: id, lo: pb.Min, hi: pb.Max, finalized: pb.Finalized})
	}

	var union metric.ID
	for _, reg := range regs {
		union |= reg.ids
	}
	for _, b := range bs {
		if !union.Has(b.id) && !r.IsActive(b.id) {
			return fmt.Errorf("%w: %s", ErrNotRegistered, b.id)
		}
	}

	for _, reg := range regs {
		if err := r.Register(reg.ids, reg.kind); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range bs {
		d := &r.descs[r.index[b.id]]
		d.min, d.max, d.finalized = b.lo, b.hi, b.finalized
	}
	return nil
}
