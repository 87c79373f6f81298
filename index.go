package cartlin

// CartToLin converts a cartesian index into the row-major linear index of a
// grid with the given dimension sizes.
//
// It returns a *LengthMismatchError if index and dimSize differ in length, an
// *OutOfBoundsError naming the first axis with index[i] outside [0, dimSize[i]),
// or ErrOverflow if the grid size does not fit in an int.
func CartToLin(index, dimSize []int) (int, error) {
	if err := checkIndex(index, dimSize); err != nil {
		return 0, err
	}
	if _, err := Size(dimSize); err != nil {
		return 0, err
	}
	return CartToLinUnchecked(index, dimSize), nil
}

// CartToLinUnchecked is CartToLin without validation.
//
// Axes are paired starting from the last one, so with differing lengths only
// the trailing min(len(index), len(dimSize)) axes contribute. Components out
// of range produce a linear index that aliases another element or lies past
// the end of the grid. Arithmetic wraps on overflow.
func CartToLinUnchecked(index, dimSize []int) int {
	n := min(len(index), len(dimSize))
	index = index[len(index)-n:]
	dimSize = dimSize[len(dimSize)-n:]

	linear := 0
	for i, v := range index {
		linear = linear*dimSize[i] + v
	}
	return linear
}

// LinToCart converts a row-major linear index into a newly allocated
// cartesian index.
//
// It returns an *OutOfBoundsError with Axis -1 if linear is outside
// [0, Size(dimSize)), or ErrOverflow if the grid size does not fit in an int.
func LinToCart(linear int, dimSize []int) ([]int, error) {
	if err := checkLinear(linear, dimSize); err != nil {
		return nil, err
	}
	return LinToCartUnchecked(linear, dimSize), nil
}

// LinToCartUnchecked is LinToCart without the range check.
//
// For a linear index past the end of the grid the result wraps around on
// axis 0, e.g. LinToCartUnchecked(6, []int{2, 3}) is [0 0].
func LinToCartUnchecked(linear int, dimSize []int) []int {
	index := make([]int, len(dimSize))
	decompose(linear, dimSize, index)
	return index
}

// LinToCartDyn is like LinToCart but writes the cartesian index into dst,
// which must have one entry per dimension. It lets callers reuse a single
// buffer across conversions.
//
// dst is left untouched when an error is returned.
func LinToCartDyn(linear int, dimSize, dst []int) error {
	if len(dst) != len(dimSize) {
		return &LengthMismatchError{Expected: len(dimSize), Actual: len(dst)}
	}
	if err := checkLinear(linear, dimSize); err != nil {
		return err
	}
	decompose(linear, dimSize, dst)
	return nil
}

// LinToCartDynUnchecked is LinToCartDyn without the range check. Only the
// length of dst is validated.
func LinToCartDynUnchecked(linear int, dimSize, dst []int) error {
	if len(dst) != len(dimSize) {
		return &LengthMismatchError{Expected: len(dimSize), Actual: len(dst)}
	}
	decompose(linear, dimSize, dst)
	return nil
}

// decompose fills dst from the last axis to the first. Axes with a
// non-positive size get coordinate 0 and pass the remainder on unchanged.
func decompose(linear int, dimSize, dst []int) {
	for i := len(dimSize) - 1; i >= 0; i-- {
		d := dimSize[i]
		if d <= 0 {
			dst[i] = 0
			continue
		}
		dst[i] = linear % d
		linear /= d
	}
}
