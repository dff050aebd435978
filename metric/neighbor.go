package metric

import (
	"math"
	"sync"

	"github.com/hupe1980/kmersim/point"
)

// neighborTables maps each k-mer index to its reverse and its reverse
// complement.
type neighborTables struct {
	reverse []int
	revComp []int
}

var neighborCache sync.Map // k -> *neighborTables

func tablesFor(k int) *neighborTables {
	if t, ok := neighborCache.Load(k); ok {
		return t.(*neighborTables)
	}

	n := point.Dimension(k)
	t := &neighborTables{
		reverse: make([]int, n),
		revComp: make([]int, n),
	}
	for idx := range n {
		rev, rc := 0, 0
		rest := idx
		for range k {
			d := rest & 3
			rest >>= 2
			rev = rev<<2 | d
			rc = rc<<2 | (3 - d)
		}
		t.reverse[idx] = rev
		t.revComp[idx] = rc
	}

	actual, _ := neighborCache.LoadOrStore(k, t)
	return actual.(*neighborTables)
}

// n2r merges each k-mer with its reverse.
func n2r(p, q point.Point) float64 {
	cp, cq := p.Counts(), q.Counts()
	k, _ := point.KFromDimension(len(cp))
	t := tablesFor(k)
	mp := make([]float64, len(cp))
	mq := make([]float64, len(cq))
	for i := range cp {
		j := t.reverse[i]
		mp[i] = float64(cp[i] + cp[j])
		mq[i] = float64(cq[i] + cq[j])
	}
	return neighbor(mp, mq)
}

// n2rc merges each k-mer with its reverse complement.
func n2rc(p, q point.Point) float64 {
	cp, cq := p.Counts(), q.Counts()
	k, _ := point.KFromDimension(len(cp))
	t := tablesFor(k)
	mp := make([]float64, len(cp))
	mq := make([]float64, len(cq))
	for i := range cp {
		h := t.revComp[i]
		mp[i] = float64(cp[i] + cp[h])
		mq[i] = float64(cq[i] + cq[h])
	}
	return neighbor(mp, mq)
}

// n2rrc merges each k-mer with both its reverse and its reverse complement.
func n2rrc(p, q point.Point) float64 {
	cp, cq := p.Counts(), q.Counts()
	k, _ := point.KFromDimension(len(cp))
	t := tablesFor(k)
	mp := make([]float64, len(cp))
	mq := make([]float64, len(cq))
	for i := range cp {
		j, h := t.reverse[i], t.revComp[i]
		mp[i] = float64(cp[i] + cp[j] + cp[h])
		mq[i] = float64(cq[i] + cq[j] + cq[h])
	}
	return neighbor(mp, mq)
}

// neighbor z-scores both vectors, scales them to unit length and returns
// their inner product. mp and mq are overwritten.
func neighbor(mp, mq []float64) float64 {
	n := float64(len(mp))
	var ap, aq float64
	for i := range mp {
		ap += mp[i]
		aq += mq[i]
	}
	ap /= n
	aq /= n

	var sp, sq float64
	for i := range mp {
		dp := mp[i] - ap
		dq := mq[i] - aq
		sp += dp * dp
		sq += dq * dq
	}
	sp = math.Sqrt(sp / n)
	sq = math.Sqrt(sq / n)

	var np, nq float64
	for i := range mp {
		mp[i] = (mp[i] - ap) / sp
		mq[i] = (mq[i] - aq) / sq
		np += mp[i] * mp[i]
		nq += mq[i] * mq[i]
	}
	np = math.Sqrt(np)
	nq = math.Sqrt(nq)

	var total float64
	for i := range mp {
		total += (mp[i] / np) * (mq[i] / nq)
	}
	return total
}
