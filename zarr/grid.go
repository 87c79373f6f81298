package zarr

import (
	"fmt"
	"iter"
	"slices"

	"github.com/TuSKan/cartlin"
)

// Grid describes how a row-major array of the given shape is split into
// chunks of equal size. Edge chunks are stored full size; only the part
// inside the array is meaningful.
type Grid struct {
	Shape     []int
	Chunks    []int
	GridShape []int
	Separator string
}

// NewGrid validates shape and chunks and returns the chunk grid. Separator
// defaults to ".".
func NewGrid(shape, chunks []int) (*Grid, error) {
	if err := validateGrid(shape, chunks); err != nil {
		return nil, err
	}
	return &Grid{
		Shape:     slices.Clone(shape),
		Chunks:    slices.Clone(chunks),
		GridShape: GridShape(shape, chunks),
		Separator: ".",
	}, nil
}

// Rank returns the number of axes of the array.
func (g *Grid) Rank() int {
	return len(g.Shape)
}

// NumChunks returns the number of chunks in the grid.
func (g *Grid) NumChunks() int {
	n, _ := cartlin.Size(g.GridShape)
	return n
}

// ChunkIndices iterates over the coordinates of every chunk in row-major order.
func (g *Grid) ChunkIndices() *cartlin.CartesianIndices {
	return cartlin.NewCartesianIndices(g.GridShape)
}

// ChunkKey returns the storage key of the chunk at the given grid coordinates.
func (g *Grid) ChunkKey(chunk []int) string {
	return ChunkKey(chunk, g.Separator)
}

// ChunkBounds returns the [lower, upper) element range covered by a chunk on
// every axis, clipped to the array shape.
func (g *Grid) ChunkBounds(chunk []int) ([][2]int, error) {
	if _, err := cartlin.CartToLin(chunk, g.GridShape); err != nil {
		return nil, fmt.Errorf("invalid chunk %v: %w", chunk, err)
	}
	bounds := make([][2]int, len(chunk))
	for i, c := range chunk {
		start := c * g.Chunks[i]
		bounds[i] = [2]int{start, start + min(g.Chunks[i], g.Shape[i]-start)}
	}
	return bounds, nil
}

// Locate returns the chunk holding the element at index and the row-major
// offset of that element inside the chunk buffer.
func (g *Grid) Locate(index []int) (chunk []int, offset int, err error) {
	if _, err := cartlin.CartToLin(index, g.Shape); err != nil {
		return nil, 0, fmt.Errorf("invalid element index %v: %w", index, err)
	}
	chunk = make([]int, len(index))
	inner := make([]int, len(index))
	for i, v := range index {
		chunk[i] = v / g.Chunks[i]
		inner[i] = v % g.Chunks[i]
	}
	return chunk, cartlin.CartToLinUnchecked(inner, g.Chunks), nil
}

// Element is the inverse of Locate. It returns an *cartlin.OutOfBoundsError,
// with coordinates relative to the chunk, when offset addresses padding of an
// edge chunk.
func (g *Grid) Element(chunk []int, offset int) ([]int, error) {
	if _, err := cartlin.CartToLin(chunk, g.GridShape); err != nil {
		return nil, fmt.Errorf("invalid chunk %v: %w", chunk, err)
	}
	index, err := cartlin.LinToCart(offset, g.Chunks)
	if err != nil {
		return nil, fmt.Errorf("invalid offset in chunk %v: %w", chunk, err)
	}
	for i := range index {
		start := chunk[i] * g.Chunks[i]
		if index[i] >= g.Shape[i]-start {
			return nil, fmt.Errorf("offset %d is padding of chunk %v: %w", offset, chunk,
				&cartlin.OutOfBoundsError{Axis: i, Value: index[i], Lower: 0, Upper: g.Shape[i] - start})
		}
		index[i] += start
	}
	return index, nil
}

// Projection maps the part of one chunk that intersects a region onto the
// region's own row-major buffer.
type Projection struct {
	// Chunk holds the grid coordinates of the chunk.
	Chunk []int
	Key   string
	// ChunkStart is the first intersecting element, relative to the chunk.
	ChunkStart []int
	// OutStart is the first intersecting element, relative to the region.
	OutStart []int
	// Shape is the extent of the intersection.
	Shape []int

	chunkStrides []int
	outStrides   []int
}

// Len returns the number of elements in the intersection.
func (p Projection) Len() int {
	n, _ := cartlin.Size(p.Shape)
	return n
}

// Pairs yields, for every element of the intersection in row-major order,
// its linear offset in the chunk buffer and its linear offset in the region
// buffer.
func (p Projection) Pairs() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		chunkBase := dot(p.ChunkStart, p.chunkStrides)
		outBase := dot(p.OutStart, p.outStrides)
		for rel := range cartlin.NewCartesianIndices(p.Shape).All() {
			if !yield(chunkBase+dot(rel, p.chunkStrides), outBase+dot(rel, p.outStrides)) {
				return
			}
		}
	}
}

func dot(a, b []int) int {
	s := 0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// Region computes the chunk projections needed to assemble the region that
// starts at start and spans shape, in row-major chunk order.
func (g *Grid) Region(start, shape []int) ([]Projection, error) {
	if len(start) != g.Rank() {
		return nil, fmt.Errorf("region start: %w", &cartlin.LengthMismatchError{Expected: g.Rank(), Actual: len(start)})
	}
	if len(shape) != g.Rank() {
		return nil, fmt.Errorf("region shape: %w", &cartlin.LengthMismatchError{Expected: g.Rank(), Actual: len(shape)})
	}

	for i := range g.Shape {
		if start[i] < 0 || start[i] >= g.Shape[i] {
			return nil, fmt.Errorf("region start: %w",
				&cartlin.OutOfBoundsError{Axis: i, Value: start[i], Lower: 0, Upper: g.Shape[i]})
		}
		if room := g.Shape[i] - start[i]; shape[i] <= 0 || shape[i] > room {
			return nil, fmt.Errorf("region shape: %w",
				&cartlin.OutOfBoundsError{Axis: i, Value: shape[i], Lower: 1, Upper: room + 1})
		}
	}

	// Box of chunks overlapping the region, upper bound exclusive.
	chunkBox := make([][2]int, g.Rank())
	for i := range start {
		chunkBox[i] = [2]int{start[i] / g.Chunks[i], (start[i]+shape[i]-1)/g.Chunks[i] + 1}
	}
	chunks, err := cartlin.CartesianIndicesFromBounds(chunkBox)
	if err != nil {
		return nil, err
	}

	chunkStrides := cartlin.Strides(g.Chunks)
	outStrides := cartlin.Strides(shape)

	projections := make([]Projection, 0, chunks.Len())
	for chunk := range chunks.All() {
		p := Projection{
			Chunk:        slices.Clone(chunk),
			Key:          g.ChunkKey(chunk),
			ChunkStart:   make([]int, len(chunk)),
			OutStart:     make([]int, len(chunk)),
			Shape:        make([]int, len(chunk)),
			chunkStrides: chunkStrides,
			outStrides:   outStrides,
		}
		for i, c := range chunk {
			chunkStartGlobal := c * g.Chunks[i]
			chunkEndGlobal := chunkStartGlobal + min(g.Chunks[i], g.Shape[i]-chunkStartGlobal)

			intersectStart := max(chunkStartGlobal, start[i])
			intersectEnd := min(chunkEndGlobal, start[i]+shape[i])

			p.ChunkStart[i] = intersectStart - chunkStartGlobal
			p.OutStart[i] = intersectStart - start[i]
			p.Shape[i] = intersectEnd - intersectStart
		}
		projections = append(projections, p)
	}
	return projections, nil
}
