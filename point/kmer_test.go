package point

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKFromDimension(t *testing.T) {
	tests := []struct {
		n    int
		k    int
		want bool
	}{
		{4, 1, true},
		{16, 2, true},
		{256, 4, true},
		{1 << 20, 10, true},
		{0, 0, false},
		{2, 0, false},
		{8, 0, false},
		{12, 0, false},
		{32, 0, false},
	}

	for _, tt := range tests {
		k, ok := KFromDimension(tt.n)
		assert.Equal(t, tt.want, ok, "n=%d", tt.n)
		if tt.want {
			assert.Equal(t, tt.k, k)
			assert.Equal(t, tt.n, Dimension(k))
		}
	}
}

func TestFromSequence(t *testing.T) {
	t.Run("Counts", func(t *testing.T) {
		p, err := FromSequence(7, "ACGTA", 2)
		require.NoError(t, err)

		assert.Equal(t, uint64(7), p.ID())
		assert.Equal(t, 2, p.K())
		assert.Len(t, p.Counts(), 16)
		assert.Equal(t, 5, p.Length())
		assert.Equal(t, "ACGTA", p.Sequence())
		assert.True(t, p.HasSequence())

		// AC=1, CG=6, GT=11, TA=12
		c := p.Counts()
		assert.Equal(t, uint64(1), c[1])
		assert.Equal(t, uint64(1), c[6])
		assert.Equal(t, uint64(1), c[11])
		assert.Equal(t, uint64(1), c[12])
		assert.Equal(t, uint64(4), p.RealMagnitude())
		assert.Equal(t, uint64(4), p.PseudoMagnitude())
	})

	t.Run("BreaksOnUnknown", func(t *testing.T) {
		p, err := FromSequence(1, "acNgt", 2)
		require.NoError(t, err)
		// only AC and GT survive
		assert.Equal(t, uint64(2), p.RealMagnitude())
		assert.Equal(t, uint64(1), p.Counts()[1])
		assert.Equal(t, uint64(1), p.Counts()[11])
	})

	t.Run("Pseudocount", func(t *testing.T) {
		p, err := FromSequence(1, "AAAA", 1, WithPseudocount(1))
		require.NoError(t, err)
		assert.Equal(t, []uint64{5, 1, 1, 1}, p.Counts())
		assert.Equal(t, uint64(8), p.PseudoMagnitude())
		assert.Equal(t, uint64(4), p.RealMagnitude())
		assert.Equal(t, [4]uint64{5, 1, 1, 1}, p.OneMers())
	})

	t.Run("InvalidK", func(t *testing.T) {
		_, err := FromSequence(1, "ACGT", 0)
		assert.ErrorIs(t, err, ErrInvalidK)
		_, err = FromSequence(1, "ACGT", MaxK+1)
		assert.ErrorIs(t, err, ErrInvalidK)
	})
}

func TestNew(t *testing.T) {
	t.Run("Derived", func(t *testing.T) {
		counts := make([]uint64, 16)
		for i := range counts {
			counts[i] = uint64(i)
		}
		p, err := New(3, counts)
		require.NoError(t, err)

		assert.Equal(t, uint64(120), p.PseudoMagnitude())
		assert.Equal(t, [4]uint64{6, 22, 38, 54}, p.OneMers())
		// population stddev of 0..15
		assert.InDelta(t, math.Sqrt(255.0/12.0), p.StdDev(), 1e-12)
		assert.Equal(t, 121, p.Length())
		assert.Empty(t, p.Sequence())
		assert.False(t, p.HasSequence())
	})

	t.Run("CopiesInput", func(t *testing.T) {
		counts := []uint64{1, 2, 3, 4}
		p, err := New(1, counts)
		require.NoError(t, err)
		counts[0] = 100
		assert.Equal(t, uint64(1), p.Counts()[0])
	})

	t.Run("Options", func(t *testing.T) {
		p, err := New(1, []uint64{0, 0, 0, 0}, WithPseudocount(2), WithLength(9), WithSequence("ACGTACGTA"))
		require.NoError(t, err)
		assert.Equal(t, []uint64{2, 2, 2, 2}, p.Counts())
		assert.Equal(t, uint64(0), p.RealMagnitude())
		assert.Equal(t, 9, p.Length())
		assert.Equal(t, "ACGTACGTA", p.Sequence())
		assert.True(t, p.HasSequence())
		assert.Zero(t, p.StdDev())
	})

	t.Run("EmptySequence", func(t *testing.T) {
		p, err := New(1, []uint64{1, 0, 0, 0}, WithSequence(""))
		require.NoError(t, err)
		assert.Empty(t, p.Sequence())
		assert.True(t, p.HasSequence())
	})

	t.Run("InvalidDimension", func(t *testing.T) {
		_, err := New(1, []uint64{1, 2, 3})
		assert.ErrorIs(t, err, ErrInvalidDimension)
	})
}
