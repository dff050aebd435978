package kmersim

import (
	"errors"
	"fmt"

	"github.com/hupe1980/kmersim/metric"
)

var (
	// ErrUnknownMetric is returned for metric IDs outside the catalogue.
	ErrUnknownMetric = metric.ErrUnknownMetric

	// ErrInvalidLength is returned by length-based metrics for empty sequences.
	ErrInvalidLength = metric.ErrInvalidLength

	// ErrTypeMismatch is returned when a point cannot serve a metric.
	ErrTypeMismatch = metric.ErrTypeMismatch

	// ErrInvalidCompositionKind is returned for unsupported composition kinds.
	ErrInvalidCompositionKind = errors.New("invalid composition kind")

	// ErrNotRegistered is returned for metrics not registered in the registry.
	ErrNotRegistered = errors.New("metric not registered")

	// ErrRawLength is returned when a raw vector does not match the descriptors.
	ErrRawLength = errors.New("raw vector length does not match registry")

	// ErrIndexOutOfRange is returned for descriptor indices outside the registry.
	ErrIndexOutOfRange = errors.New("descriptor index out of range")

	// ErrInvalidBounds is returned for NaN bounds or min > max.
	ErrInvalidBounds = errors.New("invalid bounds")
)

type (
	// UnknownMetricError indicates an unrecognized metric ID.
	UnknownMetricError = metric.UnknownMetricError

	// InvalidLengthError indicates a zero-length point passed to a length metric.
	InvalidLengthError = metric.InvalidLengthError

	// TypeMismatchError indicates that a point cannot serve a metric.
	TypeMismatchError = metric.TypeMismatchError
)

// InvalidCompositionKindError indicates an unsupported composition kind.
type InvalidCompositionKindError struct {
	Kind CompositionKind
}

func (e *InvalidCompositionKindError) Error() string {
	return fmt.Sprintf("invalid composition kind: %d", int(e.Kind))
}

func (e *InvalidCompositionKindError) Unwrap() error { return ErrInvalidCompositionKind }
