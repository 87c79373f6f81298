package cartlin

import (
	"fmt"
	"math"
	"math/bits"
)

// Size returns the number of elements of a grid with the given dimension
// sizes. A rank-0 grid has exactly one element. Non-positive sizes give 0.
func Size(dimSize []int) (int, error) {
	for _, d := range dimSize {
		if d <= 0 {
			return 0, nil
		}
	}
	size := 1
	for i, d := range dimSize {
		hi, lo := bits.Mul64(uint64(size), uint64(d))
		if hi != 0 || lo > math.MaxInt {
			return 0, fmt.Errorf("%w: axis %d", ErrOverflow, i)
		}
		size = int(lo)
	}
	return size, nil
}

// Strides computes the row-major strides of the given dimension sizes, in
// elements. strides[N-1] is always 1. Products wrap on overflow.
func Strides(dimSize []int) []int {
	if len(dimSize) == 0 {
		return []int{}
	}
	s := make([]int, len(dimSize))
	stride := 1
	for i := len(dimSize) - 1; i >= 0; i-- {
		s[i] = stride
		stride *= dimSize[i]
	}
	return s
}

// checkIndex validates a cartesian index against dimSize.
func checkIndex(index, dimSize []int) error {
	if len(index) != len(dimSize) {
		return &LengthMismatchError{Expected: len(dimSize), Actual: len(index)}
	}
	for axis, v := range index {
		if v < 0 || v >= dimSize[axis] {
			return &OutOfBoundsError{Axis: axis, Value: v, Lower: 0, Upper: max(dimSize[axis], 0)}
		}
	}
	return nil
}

// checkLinear validates a linear index against the total size of dimSize.
func checkLinear(linear int, dimSize []int) error {
	size, err := Size(dimSize)
	if err != nil {
		return err
	}
	if linear < 0 || linear >= size {
		return &OutOfBoundsError{Axis: -1, Value: linear, Lower: 0, Upper: size}
	}
	return nil
}
