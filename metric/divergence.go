package metric

import (
	"math"

	"github.com/hupe1980/kmersim/point"
)

// Divergence metrics operate on bin frequencies c/magnitude and take
// logarithms of them, so empty bins produce NaN or Inf. Points are expected to
// carry pseudocounts.

func jeffreyDivergence(p, q point.Point) float64 {
	cp, cq := p.Counts(), q.Counts()
	mp, mq := float64(p.PseudoMagnitude()), float64(q.PseudoMagnitude())
	var sum float64
	for i := range cp {
		pp := float64(cp[i]) / mp
		pq := float64(cq[i]) / mq
		sum += (pp - pq) * math.Log(pp/pq)
	}
	return sum
}

// kDivergence is the directed divergence of p from the midpoint of p and q.
// It is not symmetric.
func kDivergence(p, q point.Point) float64 {
	cp, cq := p.Counts(), q.Counts()
	mp, mq := float64(p.PseudoMagnitude()), float64(q.PseudoMagnitude())
	var sum float64
	for i := range cp {
		pp := float64(cp[i]) / mp
		pq := float64(cq[i]) / mq
		avg := 0.5 * (pp + pq)
		sum += pp * math.Log(pp/avg)
	}
	return sum
}

func jensenShannon(p, q point.Point) float64 {
	cp, cq := p.Counts(), q.Counts()
	mp, mq := float64(p.PseudoMagnitude()), float64(q.PseudoMagnitude())
	var sum float64
	for i := range cp {
		pp := float64(cp[i]) / mp
		pq := float64(cq[i]) / mq
		avg := 0.5 * (pp + pq)
		sum += pp*math.Log(pp/avg) + pq*math.Log(pq/avg)
	}
	return sum / 2
}

// klConditional is the symmetrized Kullback-Leibler divergence of the
// distributions of the last nucleotide given the (k-1)-prefix, weighted by
// prefix frequency.
func klConditional(p, q point.Point) float64 {
	cp, cq := p.Counts(), q.Counts()
	var outerP, outerQ float64
	for i := 0; i < len(cp); i += 4 {
		var sumP, sumQ uint64
		for j := i; j < i+4; j++ {
			sumP += cp[j]
			sumQ += cq[j]
		}
		var innerP, innerQ float64
		for j := i; j < i+4; j++ {
			condP := float64(cp[j]) / float64(sumP)
			condQ := float64(cq[j]) / float64(sumQ)
			lg := math.Log(condP / condQ)
			innerP += condP * lg
			innerQ -= condQ * lg
		}
		outerP += float64(sumP) * innerP
		outerQ += float64(sumQ) * innerQ
	}
	left := outerP / float64(p.PseudoMagnitude())
	right := outerQ / float64(q.PseudoMagnitude())
	return (left + right) / 2
}

// rreKR is the relative resolvent entropy of the conditional distributions
// of the last nucleotide.
func rreKR(p, q point.Point) float64 {
	cp, cq := p.Counts(), q.Counts()
	var op, oq float64
	for i := 0; i < len(cp); i += 4 {
		var sumP, sumQ uint64
		for j := i; j < i+4; j++ {
			sumP += cp[j]
			sumQ += cq[j]
		}
		for j := i; j < i+4; j++ {
			condP := float64(cp[j]) / float64(sumP)
			condQ := float64(cq[j]) / float64(sumQ)
			avg := 0.5 * (condP + condQ)
			op += condP * math.Log(condP/avg)
			oq += condQ * math.Log(condQ/avg)
		}
	}
	return 0.5 * (op + oq)
}

// markov is the mutual Markov log-likelihood: the counts of each point (minus
// the pseudocount) scored under the other point's transition probabilities.
// Both directions are summed, so the result is symmetric.
func markov(p, q point.Point) float64 {
	cp, cq := p.Counts(), q.Counts()
	var total float64
	for i := 0; i < len(cp); i += 4 {
		var sumP, sumQ uint64
		for j := i; j < i+4; j++ {
			sumP += cp[j]
			sumQ += cq[j]
		}
		lp := math.Log(float64(sumP))
		lq := math.Log(float64(sumQ))
		for j := i; j < i+4; j++ {
			total += (float64(cq[j]) - 1) * (math.Log(float64(cp[j])) - lp)
			total += (float64(cp[j]) - 1) * (math.Log(float64(cq[j])) - lq)
		}
	}
	return total / 2
}

// directedMarkov is log(markov(p,q)/markov(q,q)) per observed k-mer of q.
func directedMarkov(p, q point.Point) float64 {
	return math.Log(markov(q, p)/markov(q, q)) / float64(q.RealMagnitude())
}

func simMM(p, q point.Point) float64 {
	return 1 - math.Exp(0.5*(directedMarkov(p, q)+directedMarkov(q, p)))
}
