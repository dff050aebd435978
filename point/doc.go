// Package point defines the read-only sequence representation consumed by the
// metric table.
//
// A Point exposes a stable identity, a k-mer occurrence vector of fixed length
// N = 4^k and the derived statistics the metrics need. The interface is a
// capability contract: every Point carries the full vector, so metrics never
// narrow a Point to a concrete type.
//
// # Encoding
//
// Nucleotides map to digits A=0, C=1, G=2, T=3. A k-mer x1..xk is stored at
//
//	index = x1*4^(k-1) + x2*4^(k-2) + ... + xk
//
// so the first nucleotide is the most significant digit and every block of four
// consecutive indices shares the same (k-1)-prefix.
//
// # Usage
//
//	p, err := point.FromSequence(1, "ACGTTGCA", 3, point.WithPseudocount(1))
//	q, err := point.New(2, counts)
package point
