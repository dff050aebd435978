package metric

import (
	"math"

	"github.com/hupe1980/kmersim/point"
)

func euclidean(p, q point.Point) float64 {
	cp, cq := p.Counts(), q.Counts()
	var sum float64
	for i := range cp {
		d := float64(cp[i]) - float64(cq[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

func manhattan(p, q point.Point) float64 {
	cp, cq := p.Counts(), q.Counts()
	var sum float64
	for i := range cp {
		sum += absDiff(cp[i], cq[i])
	}
	return sum
}

// chiSquared is NaN when a bin is empty in both points.
func chiSquared(p, q point.Point) float64 {
	cp, cq := p.Counts(), q.Counts()
	var sum float64
	for i := range cp {
		d := float64(cp[i]) - float64(cq[i])
		sum += d * d / (float64(cp[i]) + float64(cq[i]))
	}
	return sum
}

// canberra is NaN when a bin is empty in both points.
func canberra(p, q point.Point) float64 {
	cp, cq := p.Counts(), q.Counts()
	var sum float64
	for i := range cp {
		sum += absDiff(cp[i], cq[i]) / (float64(cp[i]) + float64(cq[i]))
	}
	return sum
}

// kulczynski1 divides by the smaller count per bin.
func kulczynski1(p, q point.Point) float64 {
	cp, cq := p.Counts(), q.Counts()
	var sum float64
	for i := range cp {
		sum += absDiff(cp[i], cq[i]) / float64(min(cp[i], cq[i]))
	}
	return sum
}

func squaredChord(p, q point.Point) float64 {
	cp, cq := p.Counts(), q.Counts()
	var sum float64
	for i := range cp {
		a, b := float64(cp[i]), float64(cq[i])
		sum += a + b - 2*math.Sqrt(a*b)
	}
	return sum
}

// hellinger compares bins scaled by the mean count of each point.
func hellinger(p, q point.Point) float64 {
	cp, cq := p.Counts(), q.Counts()
	n := float64(len(cp))
	ap := float64(p.PseudoMagnitude()) / n
	aq := float64(q.PseudoMagnitude()) / n
	var sum float64
	for i := range cp {
		d := math.Sqrt(float64(cp[i])/ap) - math.Sqrt(float64(cq[i])/aq)
		sum += d * d
	}
	return math.Sqrt(2 * sum)
}

// emd is the earth mover's distance between the cumulative histograms.
func emd(p, q point.Point) float64 {
	cp, cq := p.Counts(), q.Counts()
	var sp, sq uint64
	var dist float64
	for i := range cp {
		sp += cp[i]
		sq += cq[i]
		dist += absDiff(sp, sq)
	}
	return dist
}

func mismatch(p, q point.Point) float64 {
	cp, cq := p.Counts(), q.Counts()
	var n int
	for i := range cp {
		if cp[i] != cq[i] {
			n++
		}
	}
	return float64(n)
}

func lengthDifference(p, q point.Point) (float64, error) {
	lp, lq := p.Length(), q.Length()
	if lp <= 0 || lq <= 0 {
		return 0, &InvalidLengthError{LengthA: lp, LengthB: lq}
	}
	if lp > lq {
		return float64(lp - lq), nil
	}
	return float64(lq - lp), nil
}

func absDiff(a, b uint64) float64 {
	if a > b {
		return float64(a - b)
	}
	return float64(b - a)
}
