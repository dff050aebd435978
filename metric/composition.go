package metric

import (
	"math"

	"github.com/hupe1980/kmersim/point"
)

// background returns the expected frequency of k-mer idx under an i.i.d.
// nucleotide model with per-nucleotide frequencies f.
func background(idx, k int, f *[4]float64) float64 {
	prob := 1.0
	for range k {
		prob *= f[idx&3]
		idx >>= 2
	}
	return prob
}

func frequencies(oneMers [4]uint64, magnitude float64) [4]float64 {
	var f [4]float64
	for i, c := range oneMers {
		f[i] = float64(c) / magnitude
	}
	return f
}

// d2s compares counts centered on their composition-expected values.
func d2s(p, q point.Point) float64 {
	cp, cq := p.Counts(), q.Counts()
	k, _ := point.KFromDimension(len(cp))
	pmag, qmag := float64(p.PseudoMagnitude()), float64(q.PseudoMagnitude())
	fp := frequencies(p.OneMers(), pmag)
	fq := frequencies(q.OneMers(), qmag)

	var sum float64
	for i := range cp {
		hp := float64(cp[i]) - pmag*background(i, k, &fp)
		hq := float64(cq[i]) - qmag*background(i, k, &fq)
		if hp != 0 && hq != 0 {
			sum += hp * hq / math.Hypot(hp, hq)
		}
	}
	return sum
}

// d2Star is d2s standardized by the pooled background model.
func d2Star(p, q point.Point) float64 {
	cp, cq := p.Counts(), q.Counts()
	k, _ := point.KFromDimension(len(cp))
	pmag, qmag := float64(p.PseudoMagnitude()), float64(q.PseudoMagnitude())
	fp := frequencies(p.OneMers(), pmag)
	fq := frequencies(q.OneMers(), qmag)

	op, oq := p.OneMers(), q.OneMers()
	var pooled [4]float64
	for i := range pooled {
		pooled[i] = float64(op[i]+oq[i]) / (pmag + qmag)
	}
	l := math.Sqrt(pmag * qmag)

	var sum float64
	for i := range cp {
		hp := float64(cp[i]) - pmag*background(i, k, &fp)
		hq := float64(cq[i]) - qmag*background(i, k, &fq)
		sum += hp * hq / (l * background(i, k, &pooled))
	}
	return sum
}

// afd is the sum of squared, damped differences between the conditional
// frequencies of the second nucleotide given the first. It is not symmetric
// and needs k >= 2.
func afd(p, q point.Point) (float64, error) {
	k, err := dimension(AFD, p, q)
	if err != nil {
		return 0, err
	}
	if k < 2 {
		return 0, &TypeMismatchError{Metric: AFD, Reason: "requires k >= 2"}
	}

	cp, cq := p.Counts(), q.Counts()
	op, oq := p.OneMers(), q.OneMers()
	block := len(cp) / 16

	var sum float64
	for b := range 16 {
		var sp, sq uint64
		for j := b * block; j < (b+1)*block; j++ {
			sp += cp[j]
			sq += cq[j]
		}
		x := float64(sp) / float64(op[b/4])
		y := float64(sq) / float64(oq[b/4])
		diff := x - y
		damped := diff * math.Pow(1+diff, -14)
		sum += damped * damped
	}
	return sum, nil
}
