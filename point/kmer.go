package point

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

// MaxK is the largest supported k-mer size.
const MaxK = 15

var (
	// ErrInvalidK is returned when k is outside [1, MaxK].
	ErrInvalidK = errors.New("point: k must be in [1, 15]")

	// ErrInvalidDimension is returned when a count vector is not of length 4^k.
	ErrInvalidDimension = errors.New("point: vector length must be a power of 4")
)

// Dimension returns 4^k.
func Dimension(k int) int {
	return 1 << (2 * k)
}

// KFromDimension returns k such that 4^k == n.
func KFromDimension(n int) (int, bool) {
	if n < 4 || n&(n-1) != 0 {
		return 0, false
	}
	tz := bits.TrailingZeros(uint(n))
	if tz%2 != 0 {
		return 0, false
	}
	return tz / 2, true
}

type options struct {
	pseudocount uint64
	length      int
	sequence    string
	hasSequence bool
}

// Option configures point construction.
type Option func(*options)

// WithPseudocount adds c to every bin. Divergence metrics take logarithms of
// bin frequencies, so real data is usually built with c = 1.
func WithPseudocount(c uint64) Option {
	return func(o *options) {
		o.pseudocount = c
	}
}

// WithLength overrides the sequence length reported by a point built with New.
func WithLength(n int) Option {
	return func(o *options) {
		o.length = n
	}
}

// WithSequence attaches the raw sequence to a point built with New.
func WithSequence(s string) Option {
	return func(o *options) {
		o.sequence = s
		o.hasSequence = true
	}
}

// Kmer is the reference Point implementation.
type Kmer struct {
	id        uint64
	k         int
	counts    []uint64
	pseudoMag uint64
	realMag   uint64
	stddev    float64
	oneMers   [4]uint64
	length    int
	seq       string
	hasSeq    bool
}

var _ Point = (*Kmer)(nil)

// New builds a point from an occurrence vector. The slice is copied.
func New(id uint64, counts []uint64, optFns ...Option) (*Kmer, error) {
	k, ok := KFromDimension(len(counts))
	if !ok {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDimension, len(counts))
	}

	o := options{length: -1}
	for _, fn := range optFns {
		fn(&o)
	}

	p := &Kmer{
		id:     id,
		k:      k,
		counts: make([]uint64, len(counts)),
		seq:    o.sequence,
		hasSeq: o.hasSequence,
	}
	for i, c := range counts {
		p.realMag += c
		p.counts[i] = c + o.pseudocount
	}

	switch {
	case o.length >= 0:
		p.length = o.length
	case o.sequence != "":
		p.length = len(o.sequence)
	case p.realMag > 0:
		p.length = int(p.realMag) + k - 1
	}

	p.derive()
	return p, nil
}

// FromSequence counts the overlapping k-mers of seq. Characters outside ACGT
// (case-insensitive) break the current window.
func FromSequence(id uint64, seq string, k int, optFns ...Option) (*Kmer, error) {
	if k < 1 || k > MaxK {
		return nil, ErrInvalidK
	}

	o := options{length: -1}
	for _, fn := range optFns {
		fn(&o)
	}

	n := Dimension(k)
	mask := uint64(n - 1)
	p := &Kmer{
		id:     id,
		k:      k,
		counts: make([]uint64, n),
		length: len(seq),
		seq:    seq,
		hasSeq: true,
	}
	if o.length >= 0 {
		p.length = o.length
	}

	var code uint64
	run := 0
	for i := 0; i < len(seq); i++ {
		d, ok := digit(seq[i])
		if !ok {
			run = 0
			code = 0
			continue
		}
		code = (code<<2 | d) & mask
		run++
		if run >= k {
			p.counts[code]++
			p.realMag++
		}
	}

	if o.pseudocount > 0 {
		for i := range p.counts {
			p.counts[i] += o.pseudocount
		}
	}

	p.derive()
	return p, nil
}

func digit(c byte) (uint64, bool) {
	switch c {
	case 'A', 'a':
		return 0, true
	case 'C', 'c':
		return 1, true
	case 'G', 'g':
		return 2, true
	case 'T', 't':
		return 3, true
	default:
		return 0, false
	}
}

func (p *Kmer) derive() {
	n := len(p.counts)
	quarter := n / 4
	p.pseudoMag = 0
	for i, c := range p.counts {
		p.pseudoMag += c
		p.oneMers[i/quarter] += c
	}

	mean := float64(p.pseudoMag) / float64(n)
	var ss float64
	for _, c := range p.counts {
		d := float64(c) - mean
		ss += d * d
	}
	p.stddev = math.Sqrt(ss / float64(n))
}

// ID implements Point.
func (p *Kmer) ID() uint64 { return p.id }

// K returns the k-mer size.
func (p *Kmer) K() int { return p.k }

// Counts implements Point.
func (p *Kmer) Counts() []uint64 { return p.counts }

// PseudoMagnitude implements Point.
func (p *Kmer) PseudoMagnitude() uint64 { return p.pseudoMag }

// RealMagnitude implements Point.
func (p *Kmer) RealMagnitude() uint64 { return p.realMag }

// StdDev implements Point.
func (p *Kmer) StdDev() float64 { return p.stddev }

// OneMers implements Point.
func (p *Kmer) OneMers() [4]uint64 { return p.oneMers }

// Length implements Point.
func (p *Kmer) Length() int { return p.length }

// Sequence implements Point.
func (p *Kmer) Sequence() string { return p.seq }

// HasSequence implements Point.
func (p *Kmer) HasSequence() bool { return p.hasSeq }
