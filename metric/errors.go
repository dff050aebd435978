package metric

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownMetric is returned for IDs that are not in the catalogue.
	ErrUnknownMetric = errors.New("unknown metric")

	// ErrInvalidLength is returned by length-based metrics for empty sequences.
	ErrInvalidLength = errors.New("invalid sequence length")

	// ErrTypeMismatch is returned when a point lacks the representation a metric needs.
	ErrTypeMismatch = errors.New("point representation mismatch")
)

// UnknownMetricError indicates an unrecognized metric ID.
type UnknownMetricError struct {
	ID ID
}

func (e *UnknownMetricError) Error() string {
	return fmt.Sprintf("unknown metric: %#x", uint64(e.ID))
}

func (e *UnknownMetricError) Unwrap() error { return ErrUnknownMetric }

// InvalidLengthError indicates a zero-length point passed to a length metric.
type InvalidLengthError struct {
	LengthA int
	LengthB int
}

func (e *InvalidLengthError) Error() string {
	return fmt.Sprintf("invalid sequence length: %d, %d (both must be positive)", e.LengthA, e.LengthB)
}

func (e *InvalidLengthError) Unwrap() error { return ErrInvalidLength }

// TypeMismatchError indicates that a point cannot serve a metric: vectors of
// different dimension, a dimension that is not 4^k, or a missing sequence.
type TypeMismatchError struct {
	Metric ID
	Reason string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("point representation mismatch for %s: %s", e.Metric, e.Reason)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }
