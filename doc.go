// Package cartlin converts between linear and cartesian indices of dense
// N-dimensional grids stored in row-major (C) order, where the last axis
// varies fastest.
//
// A 2x3 grid is laid out in memory as
//
//	0 1 2
//	3 4 5
//
// so the cartesian index [1, 2] maps to the linear index 5:
//
//	lin, err := cartlin.CartToLin([]int{1, 2}, []int{2, 3}) // 5, nil
//	idx, err := cartlin.LinToCart(5, []int{2, 3})            // [1 2], nil
//
// Every checked function has an Unchecked counterpart that skips range
// validation. Unchecked functions are memory safe; they may return indices
// that do not address a valid element.
//
// CartesianIndices walks every cartesian index inside a box in the same
// row-major order:
//
//	it := cartlin.NewCartesianIndices([]int{2, 3})
//	for idx, ok := it.Next(); ok; idx, ok = it.Next() {
//		// [0 0] [0 1] [0 2] [1 0] [1 1] [1 2]
//	}
package cartlin
