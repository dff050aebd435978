package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence(t *testing.T) {
	rng := NewRNG(4711)

	s := rng.Sequence(200)
	assert.Len(t, s, 200)
	assert.Empty(t, strings.Trim(s, "ACGT"))
}

func TestMutate(t *testing.T) {
	rng := NewRNG(4711)
	s := rng.Sequence(100)

	assert.Equal(t, s, rng.Mutate(s, 0))

	m := rng.Mutate(s, 1)
	require.Len(t, m, len(s))
	for i := range s {
		assert.NotEqual(t, s[i], m[i])
	}
}

func TestCounts(t *testing.T) {
	rng := NewRNG(4711)

	c := rng.Counts(3, 5)
	assert.Len(t, c, 64)
	for _, v := range c {
		assert.LessOrEqual(t, v, uint64(5))
	}
}

func TestSkewedCounts(t *testing.T) {
	rng := NewRNG(4711)

	c := rng.SkewedCounts(2, 1000, 1.5)
	assert.Len(t, c, 16)

	var total, top uint64
	for _, v := range c {
		total += v
		top = max(top, v)
	}
	assert.Equal(t, uint64(1000), total)
	// the most frequent bin clearly exceeds a uniform share
	assert.Greater(t, top, uint64(1000/16*2))
}

func TestPoints(t *testing.T) {
	rng := NewRNG(4711)

	pts := rng.Points(5, 3, 120)
	require.Len(t, pts, 5)
	for i, p := range pts {
		assert.Equal(t, uint64(i), p.ID())
		assert.Len(t, p.Counts(), 64)
		assert.Equal(t, uint64(118), p.RealMagnitude())
		assert.Equal(t, uint64(118+64), p.PseudoMagnitude())
		assert.Equal(t, 120, p.Length())
	}
}

func TestFamily(t *testing.T) {
	rng := NewRNG(4711)

	fam := rng.Family(4, 2, 300, 0.01)
	require.Len(t, fam, 4)
	for _, p := range fam {
		assert.Len(t, p.Sequence(), 300)
	}
}

func TestAllPairs(t *testing.T) {
	rng := NewRNG(4711)

	pairs := AllPairs(rng.Points(5, 1, 10))
	assert.Len(t, pairs, 10)
	assert.Equal(t, uint64(0), pairs[0].A.ID())
	assert.Equal(t, uint64(1), pairs[0].B.ID())
	assert.Equal(t, uint64(4), pairs[9].B.ID())
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	s1 := rng.Sequence(50)
	rng.Reset()
	s2 := rng.Sequence(50)

	assert.Equal(t, s1, s2)
	assert.Equal(t, int64(4711), rng.Seed())
}
