package cartlin

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds classifies every OutOfBoundsError.
	ErrOutOfBounds = errors.New("cartlin: index out of bounds")

	// ErrLengthMismatch classifies every LengthMismatchError.
	ErrLengthMismatch = errors.New("cartlin: length mismatch")

	// ErrInvalidBounds classifies every InvalidBoundsError.
	ErrInvalidBounds = errors.New("cartlin: invalid bounds")

	// ErrOverflow is returned when the product of the dimension sizes does not fit in an int.
	ErrOverflow = errors.New("cartlin: size overflows int")
)

// OutOfBoundsError reports a cartesian component or a linear index outside
// its valid half-open range [Lower, Upper).
//
// Axis is -1 when the offending value is a linear index.
type OutOfBoundsError struct {
	Axis  int
	Value int
	Lower int
	Upper int
}

func (e *OutOfBoundsError) Error() string {
	if e.Axis < 0 {
		return fmt.Sprintf("cartlin: linear index %d out of range [%d, %d)", e.Value, e.Lower, e.Upper)
	}
	return fmt.Sprintf("cartlin: index %d out of range [%d, %d) on axis %d", e.Value, e.Lower, e.Upper, e.Axis)
}

func (e *OutOfBoundsError) Unwrap() error { return ErrOutOfBounds }

// LengthMismatchError indicates that a cartesian index or buffer does not
// have one entry per dimension.
type LengthMismatchError struct {
	Expected int
	Actual   int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("cartlin: length mismatch: expected %d axes, got %d", e.Expected, e.Actual)
}

func (e *LengthMismatchError) Unwrap() error { return ErrLengthMismatch }

// InvalidBoundsError indicates a bounds pair that is not strictly increasing.
type InvalidBoundsError struct {
	Axis  int
	Lower int
	Upper int
}

func (e *InvalidBoundsError) Error() string {
	return fmt.Sprintf("cartlin: invalid bounds [%d, %d) on axis %d: lower must be smaller than upper", e.Lower, e.Upper, e.Axis)
}

func (e *InvalidBoundsError) Unwrap() error { return ErrInvalidBounds }
