// Package metric provides the k-mer metric catalogue.
//
// Every metric is identified by a single-bit ID (1<<0 .. 1<<33) and maps to a
// pure function over two points. The catalogue is a static table built once at
// package initialization; new metrics are added by inserting table entries.
//
// # Polarity
//
// Each metric is either a similarity (larger raw value means more similar) or a
// dissimilarity. The polarity table is authoritative and used by the
// normalizer to orient every calibrated value so that 1 means most similar.
//
// # Numeric edge cases
//
// Formulas are applied literally. Several divide by sums or counts that are
// zero for degenerate inputs (all-zero bins); the resulting NaN or Inf is
// returned as-is and handled by normalization, never converted to an error.
//
// # Usage
//
//	fn, err := metric.Lookup(metric.Euclidean)
//	d, err := fn(p, q)
//	sim, err := metric.IsSimilarity(metric.Euclidean) // false
package metric
