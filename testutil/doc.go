// Package testutil provides testing utilities for kmersim.
//
// This package is intended for use in tests and benchmarks only.
// It generates reproducible random sequences and k-mer points.
//
// # Random Points
//
//	rng := testutil.NewRNG(seed)
//	pts := rng.Points(20, 4, 500)          // unrelated sequences
//	fam := rng.Family(20, 4, 500, 0.05)    // mutated copies of one ancestor
//	pairs := testutil.AllPairs(fam)
//
// # Count Vectors
//
//	counts := rng.Counts(4, 30)            // uniform in [0, 30]
//	skewed := rng.SkewedCounts(4, 1000, 1.2)
package testutil
