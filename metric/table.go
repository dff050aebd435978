package metric

import (
	"fmt"
	"slices"

	"github.com/hupe1980/kmersim/align"
	"github.com/hupe1980/kmersim/point"
)

// Func is a metric over two points.
//
// The error result is reserved for structural problems (see TypeMismatchError
// and InvalidLengthError); numeric degeneracy is reported as NaN or Inf.
type Func func(p, q point.Point) (float64, error)

// Info describes a catalogued metric.
type Info struct {
	ID   ID
	Name string

	// Similarity is true if larger raw values mean more similar.
	Similarity bool

	// Symmetric is true if f(p, q) equals f(q, p) up to floating point
	// rounding. Registries compute symmetric metrics in canonical order
	// (lower point ID first) and cache them under an order-independent key.
	Symmetric bool
}

type entry struct {
	info Info
	fn   Func
}

func def(id ID, name string, similarity, symmetric bool, fn Func) entry {
	return entry{
		info: Info{ID: id, Name: name, Similarity: similarity, Symmetric: symmetric},
		fn:   fn,
	}
}

var table = map[ID]entry{
	Alignment:         def(Alignment, "align", true, true, AlignmentWith(align.Default)),
	Hellinger:         def(Hellinger, "hellinger", false, true, vector(Hellinger, hellinger)),
	Manhattan:         def(Manhattan, "manhattan", false, true, vector(Manhattan, manhattan)),
	Euclidean:         def(Euclidean, "euclidean", false, true, vector(Euclidean, euclidean)),
	ChiSquared:        def(ChiSquared, "chi_squared", false, true, vector(ChiSquared, chiSquared)),
	NormalizedVectors: def(NormalizedVectors, "normalized_vectors", true, true, vector(NormalizedVectors, normalizedVectors)),
	HarmonicMean:      def(HarmonicMean, "harmonic_mean", true, true, vector(HarmonicMean, harmonicMean)),
	JeffreyDivergence: def(JeffreyDivergence, "jeffrey_divergence", false, true, vector(JeffreyDivergence, jeffreyDivergence)),
	KDivergence:       def(KDivergence, "k_divergence", false, false, vector(KDivergence, kDivergence)),
	Pearson:           def(Pearson, "pearson", true, true, vector(Pearson, pearson)),
	SquaredChord:      def(SquaredChord, "squared_chord", false, true, vector(SquaredChord, squaredChord)),
	KLConditional:     def(KLConditional, "kl_conditional", false, true, vector(KLConditional, klConditional)),
	Markov:            def(Markov, "markov", true, true, vector(Markov, markov)),
	Intersection:      def(Intersection, "intersection", true, true, vector(Intersection, intersection)),
	RREKR:             def(RREKR, "rre_k_r", false, true, vector(RREKR, rreKR)),
	D2z:               def(D2z, "d2z", true, true, vector(D2z, d2z)),
	SimMM:             def(SimMM, "sim_mm", true, true, vector(SimMM, simMM)),
	EuclideanZ:        def(EuclideanZ, "euclidean_z", false, true, vector(EuclideanZ, euclideanZ)),
	EMD:               def(EMD, "emd", false, true, vector(EMD, emd)),
	Spearman:          def(Spearman, "spearman", true, true, vector(Spearman, spearman)),
	Jaccard:           def(Jaccard, "jaccard", true, true, vector(Jaccard, jaccard)),
	LengthDifference:  def(LengthDifference, "length_difference", false, true, lengthDifference),
	D2s:               def(D2s, "d2s", true, true, vector(D2s, d2s)),
	AFD:               def(AFD, "afd", false, false, afd),
	Mismatch:          def(Mismatch, "mismatch", false, true, vector(Mismatch, mismatch)),
	Canberra:          def(Canberra, "canberra", false, true, vector(Canberra, canberra)),
	Kulczynski1:       def(Kulczynski1, "kulczynski1", false, true, vector(Kulczynski1, kulczynski1)),
	Kulczynski2:       def(Kulczynski2, "kulczynski2", true, true, vector(Kulczynski2, kulczynski2)),
	SimRatio:          def(SimRatio, "simratio", true, true, vector(SimRatio, simRatio)),
	JensenShannon:     def(JensenShannon, "jensen_shannon", false, true, vector(JensenShannon, jensenShannon)),
	D2Star:            def(D2Star, "d2_star", true, true, vector(D2Star, d2Star)),
	N2R:               def(N2R, "n2r", true, true, vector(N2R, n2r)),
	N2RC:              def(N2RC, "n2rc", true, true, vector(N2RC, n2rc)),
	N2RRC:             def(N2RRC, "n2rrc", true, true, vector(N2RRC, n2rrc)),
}

var names = func() map[string]ID {
	m := make(map[string]ID, len(table))
	for id, e := range table {
		m[e.info.Name] = id
	}
	return m
}()

// Lookup returns the function for a single metric ID.
func Lookup(id ID) (Func, error) {
	e, ok := table[id]
	if !ok {
		return nil, &UnknownMetricError{ID: id}
	}
	return e.fn, nil
}

// IsSimilarity returns the polarity of a single metric ID.
func IsSimilarity(id ID) (bool, error) {
	e, ok := table[id]
	if !ok {
		return false, &UnknownMetricError{ID: id}
	}
	return e.info.Similarity, nil
}

// Describe returns the catalogue entry for a single metric ID.
func Describe(id ID) (Info, error) {
	e, ok := table[id]
	if !ok {
		return Info{}, &UnknownMetricError{ID: id}
	}
	return e.info, nil
}

// Catalogue returns every catalogued metric ordered by bit position.
func Catalogue() []Info {
	out := make([]Info, 0, len(table))
	for _, e := range table {
		out = append(out, e.info)
	}
	slices.SortFunc(out, func(a, b Info) int {
		return a.ID.Bit() - b.ID.Bit()
	})
	return out
}

// AlignmentWith returns the alignment metric backed by a.
// Both points must carry their raw sequence.
func AlignmentWith(a align.Aligner) Func {
	return func(p, q point.Point) (float64, error) {
		if !p.HasSequence() || !q.HasSequence() {
			return 0, &TypeMismatchError{Metric: Alignment, Reason: "alignment requires the raw sequence of both points"}
		}
		return a.Identity(p.Sequence(), q.Sequence()), nil
	}
}

// vector wraps a formula over k-mer vectors with the dimension checks all of
// them share.
func vector(id ID, f func(p, q point.Point) float64) Func {
	return func(p, q point.Point) (float64, error) {
		if _, err := dimension(id, p, q); err != nil {
			return 0, err
		}
		return f(p, q), nil
	}
}

func dimension(id ID, p, q point.Point) (int, error) {
	np, nq := len(p.Counts()), len(q.Counts())
	if np != nq {
		return 0, &TypeMismatchError{Metric: id, Reason: fmt.Sprintf("vector lengths differ: %d vs %d", np, nq)}
	}
	k, ok := point.KFromDimension(np)
	if !ok {
		return 0, &TypeMismatchError{Metric: id, Reason: fmt.Sprintf("vector length %d is not 4^k", np)}
	}
	return k, nil
}
