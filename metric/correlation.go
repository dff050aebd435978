package metric

import (
	"cmp"
	"math"
	"slices"

	"github.com/hupe1980/kmersim/point"
)

func pearson(p, q point.Point) float64 {
	cp, cq := p.Counts(), q.Counts()
	n := float64(len(cp))
	ap := float64(p.PseudoMagnitude()) / n
	aq := float64(q.PseudoMagnitude()) / n
	var dot, np, nq float64
	for i := range cp {
		dp := float64(cp[i]) - ap
		dq := float64(cq[i]) - aq
		np += dp * dp
		nq += dq * dq
		dot += dp * dq
	}
	return dot / math.Sqrt(np*nq)
}

// spearman is the Pearson correlation of the tie-averaged ranks.
func spearman(p, q point.Point) float64 {
	rp := ranks(p.Counts())
	rq := ranks(q.Counts())
	mean := (float64(len(rp)) + 1) / 2
	var cov, sp, sq float64
	for i := range rp {
		dp := rp[i] - mean
		dq := rq[i] - mean
		cov += dp * dq
		sp += dp * dp
		sq += dq * dq
	}
	return cov / math.Sqrt(sp*sq)
}

// ranks returns 1-based ranks; tied values share the mean of their ranks.
func ranks(c []uint64) []float64 {
	idx := make([]int, len(c))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(c[a], c[b])
	})

	out := make([]float64, len(c))
	for start := 0; start < len(idx); {
		end := start + 1
		for end < len(idx) && c[idx[end]] == c[idx[start]] {
			end++
		}
		// ranks start+1 .. end
		r := float64(start+1+end) / 2
		for _, i := range idx[start:end] {
			out[i] = r
		}
		start = end
	}
	return out
}

// d2z is the inner product of the z-scored vectors.
func d2z(p, q point.Point) float64 {
	cp, cq := p.Counts(), q.Counts()
	n := float64(len(cp))
	ap := float64(p.PseudoMagnitude()) / n
	aq := float64(q.PseudoMagnitude()) / n
	sp, sq := p.StdDev(), q.StdDev()
	var sum float64
	for i := range cp {
		pz := (float64(cp[i]) - ap) / sp
		qz := (float64(cq[i]) - aq) / sq
		sum += pz * qz
	}
	return sum
}

func euclideanZ(p, q point.Point) float64 {
	cp, cq := p.Counts(), q.Counts()
	n := float64(len(cp))
	ap := float64(p.PseudoMagnitude()) / n
	aq := float64(q.PseudoMagnitude()) / n
	sp, sq := p.StdDev(), q.StdDev()
	var sum float64
	for i := range cp {
		pz := (float64(cp[i]) - ap) / sp
		qz := (float64(cq[i]) - aq) / sq
		d := pz - qz
		sum += d * d
	}
	return math.Sqrt(sum)
}
