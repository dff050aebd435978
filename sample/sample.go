package sample

import (
	"math/rand"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/kmersim/point"
)

// Total returns the number of unordered pairs among m points.
func Total(m int) uint64 {
	if m < 2 {
		return 0
	}
	return uint64(m) * uint64(m-1) / 2
}

// All returns every unordered pair of points in index order.
func All[P point.Point](points []P) []point.Pair {
	out := make([]point.Pair, 0, Total(len(points)))
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			out = append(out, point.Pair{A: points[i], B: points[j]})
		}
	}
	return out
}

// Against pairs query with every point that has a different id.
func Against[P point.Point](query P, points []P) []point.Pair {
	out := make([]point.Pair, 0, len(points))
	for _, p := range points {
		if p.ID() == query.ID() {
			continue
		}
		out = append(out, point.Pair{A: query, B: p})
	}
	return out
}

// Pairs draws n distinct unordered pairs of points. If n covers every pair,
// all pairs are returned in index order.
func Pairs[P point.Point](points []P, n int, seed int64) []point.Pair {
	m := len(points)
	total := Total(m)
	if total == 0 || n <= 0 {
		return nil
	}
	if uint64(n) >= total {
		return All(points)
	}

	rng := rand.New(rand.NewSource(seed))

	// Dense samples draw the pairs to leave out instead.
	if uint64(n) > total/2 {
		skip := draw(rng, m, int(total)-n)
		out := make([]point.Pair, 0, n)
		for i := range points {
			for j := i + 1; j < m; j++ {
				if skip.Contains(key(m, i, j)) {
					continue
				}
				out = append(out, point.Pair{A: points[i], B: points[j]})
			}
		}
		return out
	}

	seen := roaring64.New()
	out := make([]point.Pair, 0, n)
	for len(out) < n {
		i, j := next(rng, m)
		if !seen.CheckedAdd(key(m, i, j)) {
			continue
		}
		out = append(out, point.Pair{A: points[i], B: points[j]})
	}
	return out
}

// draw returns a bitmap of n distinct pair keys.
func draw(rng *rand.Rand, m, n int) *roaring64.Bitmap {
	bm := roaring64.New()
	for bm.GetCardinality() < uint64(n) {
		i, j := next(rng, m)
		bm.Add(key(m, i, j))
	}
	return bm
}

func next(rng *rand.Rand, m int) (int, int) {
	for {
		i, j := rng.Intn(m), rng.Intn(m)
		if i == j {
			continue
		}
		if i > j {
			i, j = j, i
		}
		return i, j
	}
}

func key(m, i, j int) uint64 {
	return uint64(i)*uint64(m) + uint64(j)
}
