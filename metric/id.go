package metric

import (
	"fmt"
	"math/bits"
	"strings"
)

// ID identifies a metric. Single metrics are powers of two; an ID with several
// bits set is a mask of metrics.
type ID uint64

const (
	Alignment ID = 1 << iota
	Hellinger
	Manhattan
	Euclidean
	ChiSquared
	NormalizedVectors
	HarmonicMean
	JeffreyDivergence
	KDivergence
	Pearson
	SquaredChord
	KLConditional
	Markov
	Intersection
	RREKR
	D2z
	SimMM
	EuclideanZ
	EMD
	Spearman
	Jaccard
	LengthDifference
	D2s
	AFD
	Mismatch
	Canberra
	Kulczynski1
	Kulczynski2
	SimRatio
	JensenShannon
	D2Star
	N2R
	N2RC
	N2RRC

	maxBit = iota - 1
)

// All is the mask of every catalogued metric.
const All ID = 1<<(maxBit+1) - 1

// Bit returns the bit position of a single-metric ID.
func (id ID) Bit() int {
	return bits.TrailingZeros64(uint64(id))
}

// IsSingle reports whether exactly one bit is set.
func (id ID) IsSingle() bool {
	return id != 0 && id&(id-1) == 0
}

// Has reports whether every metric in other is contained in id.
func (id ID) Has(other ID) bool {
	return id&other == other
}

func (id ID) String() string {
	if e, ok := table[id]; ok {
		return e.info.Name
	}
	if id == 0 || id.IsSingle() {
		return fmt.Sprintf("Unknown(%#x)", uint64(id))
	}
	parts := make([]string, 0, bits.OnesCount64(uint64(id)))
	for _, single := range Split(id) {
		parts = append(parts, single.String())
	}
	return strings.Join(parts, "|")
}

// Split returns the single-bit IDs contained in mask, lowest bit first.
func Split(mask ID) []ID {
	out := make([]ID, 0, bits.OnesCount64(uint64(mask)))
	for m := uint64(mask); m != 0; m &= m - 1 {
		out = append(out, ID(m&-m))
	}
	return out
}

// ByName resolves a metric name (case-insensitive, '-' and '_' equivalent).
func ByName(name string) (ID, bool) {
	id, ok := names[canonicalName(name)]
	return id, ok
}

// ParseNames builds a mask from metric names. "all" selects the whole catalogue.
func ParseNames(list []string) (ID, error) {
	var mask ID
	for _, raw := range list {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if strings.EqualFold(name, "all") {
			mask |= All
			continue
		}
		id, ok := ByName(name)
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
		}
		mask |= id
	}
	return mask, nil
}

func canonicalName(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
}
