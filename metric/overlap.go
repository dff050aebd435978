package metric

import (
	"math"

	"github.com/hupe1980/kmersim/point"
)

// intersection is 2*sum(min) over the combined magnitude.
func intersection(p, q point.Point) float64 {
	cp, cq := p.Counts(), q.Counts()
	var shared uint64
	for i := range cp {
		shared += 2 * min(cp[i], cq[i])
	}
	return float64(shared) / (float64(p.PseudoMagnitude()) + float64(q.PseudoMagnitude()))
}

// jaccard is the fraction of bins with equal counts above one. With a
// pseudocount of one, a count of one means the k-mer was never observed.
func jaccard(p, q point.Point) float64 {
	cp, cq := p.Counts(), q.Counts()
	var n int
	for i := range cp {
		if cp[i] == cq[i] && cp[i] > 1 {
			n++
		}
	}
	return float64(n) / float64(len(cp))
}

func kulczynski2(p, q point.Point) float64 {
	cp, cq := p.Counts(), q.Counts()
	n := float64(len(cp))
	ap := float64(p.PseudoMagnitude()) / n
	aq := float64(q.PseudoMagnitude()) / n
	var shared uint64
	for i := range cp {
		shared += min(cp[i], cq[i])
	}
	coeff := n * (ap + aq) / (2 * ap * aq)
	return coeff * float64(shared)
}

func simRatio(p, q point.Point) float64 {
	cp, cq := p.Counts(), q.Counts()
	var dot, norm2 float64
	for i := range cp {
		a, b := float64(cp[i]), float64(cq[i])
		dot += a * b
		d := a - b
		norm2 += d * d
	}
	return dot / (dot + math.Sqrt(norm2))
}

// normalizedVectors is the cosine of the raw count vectors.
func normalizedVectors(p, q point.Point) float64 {
	cp, cq := p.Counts(), q.Counts()
	var dot, d1, d2 float64
	for i := range cp {
		a, b := float64(cp[i]), float64(cq[i])
		dot += a * b
		d1 += a * a
		d2 += b * b
	}
	return dot / math.Sqrt(d1*d2)
}

func harmonicMean(p, q point.Point) float64 {
	cp, cq := p.Counts(), q.Counts()
	var sum float64
	for i := range cp {
		a, b := float64(cp[i]), float64(cq[i])
		sum += a * b / (a + b)
	}
	return 2 * sum
}
