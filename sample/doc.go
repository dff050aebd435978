// Package sample draws calibration pairs from a set of points.
//
// Pairs are identified by their positions in the input slice and tracked in a
// 64-bit roaring bitmap, so a draw never repeats a pair and the same seed
// always yields the same sample.
package sample
