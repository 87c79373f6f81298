package cartlin

import (
	"iter"
	"math"
	"math/bits"
)

// CartesianIndices iterates over every cartesian index inside a box of
// half-open [lower, upper) bounds, in row-major order: the last axis varies
// fastest. It is the multidimensional counterpart of a range loop.
//
// A CartesianIndices is not safe for concurrent use and cannot be restarted.
type CartesianIndices struct {
	bounds  [][2]int
	extents []int // upper - lower per axis, saturated at math.MaxInt
	cursor  []int
	out     []int

	pos   int // number of values already produced
	total int // saturates at math.MaxInt
	done  bool
}

// NewCartesianIndices returns an iterator over [0, dimSize[i]) on every axis.
// An axis of size zero or less yields an iterator that is exhausted from
// the start.
func NewCartesianIndices(dimSize []int) *CartesianIndices {
	bounds := make([][2]int, len(dimSize))
	for i, d := range dimSize {
		bounds[i] = [2]int{0, d}
	}
	return newCartesianIndices(bounds)
}

// CartesianIndicesFromBounds returns an iterator over the box described by
// bounds, one [lower, upper) pair per axis. It returns an *InvalidBoundsError
// for the first pair that is not strictly increasing.
func CartesianIndicesFromBounds(bounds [][2]int) (*CartesianIndices, error) {
	for axis, b := range bounds {
		if b[0] >= b[1] {
			return nil, &InvalidBoundsError{Axis: axis, Lower: b[0], Upper: b[1]}
		}
	}
	return newCartesianIndices(cloneBounds(bounds)), nil
}

// CartesianIndicesFromBoundsUnchecked is CartesianIndicesFromBounds without
// validation. An empty or inverted pair yields an exhausted iterator.
func CartesianIndicesFromBoundsUnchecked(bounds [][2]int) *CartesianIndices {
	return newCartesianIndices(cloneBounds(bounds))
}

func newCartesianIndices(bounds [][2]int) *CartesianIndices {
	rank := len(bounds)
	c := &CartesianIndices{
		bounds:  bounds,
		extents: make([]int, rank),
		cursor:  make([]int, rank),
		out:     make([]int, rank),
		total:   1,
	}
	for i, b := range bounds {
		c.cursor[i] = b[0]
		if b[0] >= b[1] {
			c.done = true
			c.total = 0
			continue
		}
		// Exact in uint64 for lower < upper, even when the int difference wraps.
		if e := uint64(b[1]) - uint64(b[0]); e > math.MaxInt {
			c.extents[i] = math.MaxInt
		} else {
			c.extents[i] = int(e)
		}
	}
	if !c.done {
		for _, e := range c.extents {
			hi, lo := bits.Mul64(uint64(c.total), uint64(e))
			if hi != 0 || lo > math.MaxInt {
				c.total = math.MaxInt
				break
			}
			c.total = int(lo)
		}
	}
	return c
}

func cloneBounds(bounds [][2]int) [][2]int {
	b := make([][2]int, len(bounds))
	copy(b, bounds)
	return b
}

// Next returns the current index and advances the iterator. Once every index
// has been produced it returns (nil, false), and keeps doing so.
//
// The returned slice is owned by the iterator and is overwritten by the next
// call. Use slices.Clone to keep it.
func (c *CartesianIndices) Next() ([]int, bool) {
	if c.done {
		return nil, false
	}
	copy(c.out, c.cursor)
	c.pos++

	// Odometer increment, carrying from the fastest axis towards axis 0.
	axis := len(c.cursor) - 1
	for ; axis >= 0; axis-- {
		c.cursor[axis]++
		if c.cursor[axis] < c.bounds[axis][1] {
			break
		}
		c.cursor[axis] = c.bounds[axis][0]
	}
	if axis < 0 {
		c.done = true
	}
	return c.out, true
}

// Nth skips n indices and returns the one after them, like calling Next n+1
// times. A negative n is treated as zero.
func (c *CartesianIndices) Nth(n int) ([]int, bool) {
	if c.done {
		return nil, false
	}
	if n > 0 {
		if n >= c.Len() {
			c.done = true
			c.pos = c.total
			return nil, false
		}
		if c.total == math.MaxInt {
			// The box is too large to address linearly.
			for range n {
				c.Next()
			}
		} else {
			c.pos += n
			_ = LinToCartDynUnchecked(c.pos, c.extents, c.cursor)
			for i, b := range c.bounds {
				c.cursor[i] += b[0]
			}
		}
	}
	return c.Next()
}

// Len returns the number of indices left to produce. It saturates at
// math.MaxInt for boxes whose size does not fit in an int.
func (c *CartesianIndices) Len() int {
	if c.done {
		return 0
	}
	if c.total == math.MaxInt {
		return math.MaxInt
	}
	return c.total - c.pos
}

// Rank returns the number of axes.
func (c *CartesianIndices) Rank() int {
	return len(c.bounds)
}

// Bounds returns a copy of the [lower, upper) pair of every axis.
func (c *CartesianIndices) Bounds() [][2]int {
	return cloneBounds(c.bounds)
}

// All adapts the iterator to a range-over-func sequence. It consumes c, and
// the yielded slice is owned by the iterator, as with Next.
func (c *CartesianIndices) All() iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		for idx, ok := c.Next(); ok; idx, ok = c.Next() {
			if !yield(idx) {
				return
			}
		}
	}
}

// Enumerate is like All but also yields the position of every index within
// the box, which equals its row-major linear index relative to the lower
// bounds.
func (c *CartesianIndices) Enumerate() iter.Seq2[int, []int] {
	return func(yield func(int, []int) bool) {
		for {
			pos := c.pos
			idx, ok := c.Next()
			if !ok || !yield(pos, idx) {
				return
			}
		}
	}
}
