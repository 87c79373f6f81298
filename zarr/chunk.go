package zarr

import "strconv"

// GridShape returns how many chunks cover each axis of shape. A partial
// trailing chunk counts as a whole one.
func GridShape(shape, chunks []int) []int {
	grid := make([]int, len(shape))
	for i, n := range shape {
		grid[i] = n / chunks[i]
		if n%chunks[i] != 0 {
			grid[i]++
		}
	}
	return grid
}

// ChunkKey joins chunk grid coordinates with separator, so [1 4] and "."
// give "1.4". The single chunk of a 0-d array is "0".
func ChunkKey(indices []int, separator string) string {
	if len(indices) == 0 {
		return "0"
	}
	buf := make([]byte, 0, len(indices)*(len(separator)+2))
	for i, idx := range indices {
		if i > 0 {
			buf = append(buf, separator...)
		}
		buf = strconv.AppendInt(buf, int64(idx), 10)
	}
	return string(buf)
}
