package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/kmersim/point"
)

const nucleotides = "ACGT"

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Sequence returns a uniformly random nucleotide sequence of length n.
func (r *RNG) Sequence(n int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sequenceLocked(n)
}

func (r *RNG) sequenceLocked(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = nucleotides[r.rand.Intn(4)]
	}
	return string(b)
}

// Mutate substitutes each position of seq with probability rate.
// A substitution always changes the nucleotide.
func (r *RNG) Mutate(seq string, rate float64) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mutateLocked(seq, rate)
}

func (r *RNG) mutateLocked(seq string, rate float64) string {
	b := []byte(seq)
	for i := range b {
		if r.rand.Float64() >= rate {
			continue
		}
		cur := indexOf(b[i])
		b[i] = nucleotides[(cur+1+r.rand.Intn(3))%4]
	}
	return string(b)
}

func indexOf(c byte) int {
	for i := range 4 {
		if nucleotides[i] == c {
			return i
		}
	}
	return 0
}

// Counts returns a random k-mer count vector with entries in [0, maxCount].
func (r *RNG) Counts(k, maxCount int) []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := make([]uint64, point.Dimension(k))
	for i := range c {
		c[i] = uint64(r.rand.Intn(maxCount + 1))
	}
	return c
}

// SkewedCounts distributes total observations over the 4^k bins following
// Zipf's law with skew s, so a few k-mers dominate as in real genomes.
func (r *RNG) SkewedCounts(k, total int, s float64) []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := point.Dimension(k)
	perm := r.rand.Perm(n)
	c := make([]uint64, n)
	for range total {
		c[perm[r.zipfLocked(n, s)]]++
	}
	return c
}

// Zipf returns a Zipfian-distributed value in [0, n).
// Uses Zipf's law: P(k) ∝ 1/k^s where s is the skew parameter.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1 // 0-indexed
		}
	}

	return n - 1
}

// Points builds num points from random sequences of the given length.
// Point ids are 0..num-1. Every bin carries a pseudocount of one.
func (r *RNG) Points(num, k, length int) []*point.Kmer {
	r.mu.Lock()
	seqs := make([]string, num)
	for i := range seqs {
		seqs[i] = r.sequenceLocked(length)
	}
	r.mu.Unlock()

	return fromSequences(seqs, k)
}

// Family builds num points from mutated copies of one random ancestor, so
// pairs are related with divergence controlled by rate.
func (r *RNG) Family(num, k, length int, rate float64) []*point.Kmer {
	r.mu.Lock()
	ancestor := r.sequenceLocked(length)
	seqs := make([]string, num)
	for i := range seqs {
		seqs[i] = r.mutateLocked(ancestor, rate)
	}
	r.mu.Unlock()

	return fromSequences(seqs, k)
}

func fromSequences(seqs []string, k int) []*point.Kmer {
	out := make([]*point.Kmer, len(seqs))
	for i, s := range seqs {
		p, err := point.FromSequence(uint64(i), s, k, point.WithPseudocount(1))
		if err != nil {
			panic(err)
		}
		out[i] = p
	}
	return out
}

// AllPairs returns every unordered pair of distinct points, in index order.
func AllPairs[P point.Point](points []P) []point.Pair {
	out := make([]point.Pair, 0, len(points)*(len(points)-1)/2)
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			out = append(out, point.Pair{A: points[i], B: points[j]})
		}
	}
	return out
}
