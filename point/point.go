package point

// Point is an immutable k-mer frequency vector plus derived statistics.
//
// Implementations must be safe for concurrent reads; the metric table and the
// caches never mutate a Point.
type Point interface {
	// ID returns the stable identity used in cache keys.
	ID() uint64

	// Counts returns the k-mer occurrence vector (length 4^k).
	// Callers must treat the returned slice as read-only.
	Counts() []uint64

	// PseudoMagnitude returns the sum of Counts, pseudocounts included.
	PseudoMagnitude() uint64

	// RealMagnitude returns the number of k-mers actually observed,
	// i.e. PseudoMagnitude without pseudocounts.
	RealMagnitude() uint64

	// StdDev returns the population standard deviation of Counts.
	StdDev() float64

	// OneMers returns the marginal counts of the leading nucleotide.
	OneMers() [4]uint64

	// Length returns the length of the underlying sequence.
	Length() int

	// Sequence returns the raw sequence. It is "" both for an empty sequence
	// and for a point built from counts; HasSequence tells them apart.
	Sequence() string

	// HasSequence reports whether the point carries its raw sequence.
	HasSequence() bool
}

// Pair is an ordered pair of points.
type Pair struct {
	A Point
	B Point
}
