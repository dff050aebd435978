// Package align computes global alignment identity between two sequences.
//
// The aligner is a black box for the metric table: it only has to return the
// identity fraction of an optimal global alignment in [0, 1].
//
// Global wraps the affine-gap Needleman-Wunsch aligner of biogo. The
// alignment it returns is a list of feature pairs: aligned blocks, where both
// features have the same length, and gaps, where one of them is empty.
//
//	identity = identical columns / (aligned columns + gap columns)
//
// A gap of length L costs GapOpen + (L-1)*GapExtend. Sequences are aligned in
// canonical order (lexicographically smaller first) so that tie-breaking in
// the traceback cannot make Identity(a, b) differ from Identity(b, a).
//
// Complexity: time and memory O(n·m).
package align

import (
	"slices"

	"github.com/biogo/biogo/align"
	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/feat"
	"github.com/biogo/biogo/seq/linear"
)

// Scoring holds the scoring scheme. Mismatch and the gap costs are penalties
// applied as given: Mismatch is added, GapOpen and GapExtend are subtracted.
type Scoring struct {
	Match     int
	Mismatch  int
	GapOpen   int
	GapExtend int
}

// DefaultScoring is match +1, mismatch -1, gap-open 2, gap-extend 1.
var DefaultScoring = Scoring{Match: 1, Mismatch: -1, GapOpen: 2, GapExtend: 1}

// Aligner returns the identity of the optimal global alignment of a and b.
// Implementations must be safe for concurrent use.
type Aligner interface {
	Identity(a, b string) float64
}

// Func adapts a plain function into an Aligner.
type Func func(a, b string) float64

// Identity implements Aligner.
func (f Func) Identity(a, b string) float64 { return f(a, b) }

const (
	gapLetter   = '-'
	unknown     = 'N'
	firstLetter = '!'
	lastLetter  = '~'
)

// printable is a case-sensitive alphabet over printable ASCII. The gap letter
// comes first because the aligner reads gap scores from row and column 0.
var printable = newPrintable()

func newPrintable() alphabet.Alphabet {
	letters := []byte{gapLetter}
	for c := byte(firstLetter); c <= lastLetter; c++ {
		if c != gapLetter {
			letters = append(letters, c)
		}
	}
	a, err := alphabet.NewAlphabet(string(letters), feat.Undefined, gapLetter, unknown, true)
	if err != nil {
		panic(err)
	}
	return a
}

// Global is an affine-gap global aligner.
type Global struct {
	nw align.NWAffine
}

var _ Aligner = (*Global)(nil)

// NewGlobal creates a global aligner with the given scoring scheme.
func NewGlobal(s Scoring) *Global {
	n := printable.Len()
	m := make(align.Linear, n)
	for i := range m {
		m[i] = make([]int, n)
		for j := range m[i] {
			switch {
			case i == 0 && j == 0:
			case i == 0 || j == 0:
				m[i][j] = -s.GapExtend
			case i == j:
				m[i][j] = s.Match
			default:
				m[i][j] = s.Mismatch
			}
		}
	}
	// the first gap column pays the matrix extension too
	return &Global{nw: align.NWAffine{Matrix: m, GapOpen: -(s.GapOpen - s.GapExtend)}}
}

// Default is the global aligner with DefaultScoring.
var Default Aligner = NewGlobal(DefaultScoring)

// Identity implements Aligner. Comparison is case-insensitive. If either
// sequence is empty the identity is 0.
func (g *Global) Identity(a, b string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	ra, rb := letters(a), letters(b)
	if slices.Compare(rb, ra) < 0 {
		ra, rb = rb, ra
	}

	ref := linear.NewSeq("a", ra, printable)
	query := linear.NewSeq("b", rb, printable)
	aln, err := g.nw.Align(ref, query)
	if err != nil {
		return 0
	}

	var matches, length int
	for _, p := range aln {
		fs := p.Features()
		la, lb := fs[0].End()-fs[0].Start(), fs[1].End()-fs[1].Start()
		if la == 0 || lb == 0 {
			length += la + lb
			continue
		}
		sa, sb := fs[0].Start(), fs[1].Start()
		for i := 0; i < la; i++ {
			if ra[sa+i] == rb[sb+i] {
				matches++
			}
		}
		length += la
	}
	if length == 0 {
		return 0
	}
	return float64(matches) / float64(length)
}

// Identity aligns a and b globally under s and returns matches / alignment
// length.
func Identity(a, b string, s Scoring) float64 {
	if s == DefaultScoring {
		return Default.Identity(a, b)
	}
	return NewGlobal(s).Identity(a, b)
}

// letters upper-cases s into alphabet letters. Bytes outside printable ASCII
// become the unknown letter.
func letters(s string) []alphabet.Letter {
	out := make([]alphabet.Letter, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
			c -= 'a' - 'A'
		case c < firstLetter || c > lastLetter:
			c = unknown
		}
		out[i] = alphabet.Letter(c)
	}
	return out
}
