package zarr

import (
	"errors"
	"fmt"
	"io"

	"github.com/TuSKan/cartlin"
)

// ErrInvalidBatchSize is returned by Grid.Batches for non-positive batch sizes.
var ErrInvalidBatchSize = errors.New("zarr: batch size must be positive")

// Batch is a run of consecutive rows along axis 0 together with the chunk
// projections that fill it.
type Batch struct {
	Start int
	End   int
	// Shape is [End-Start, Shape[1], Shape[2], ...].
	Shape       []int
	Projections []Projection
}

// BatchPlanner walks an array along axis 0 in batches of rows.
type BatchPlanner struct {
	grid         *Grid
	batchSize    int
	CurrentIndex int
}

// Batches returns a planner producing batches of up to batchSize rows.
// The array must have at least one axis.
func (g *Grid) Batches(batchSize int) (*BatchPlanner, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBatchSize, batchSize)
	}
	if g.Rank() == 0 {
		return nil, fmt.Errorf("batches of a 0-d array: %w", &cartlin.LengthMismatchError{Expected: 1, Actual: 0})
	}
	return &BatchPlanner{grid: g, batchSize: batchSize}, nil
}

// Next plans the next batch. It returns io.EOF once every row was covered.
// The last batch may be shorter than the batch size.
func (b *BatchPlanner) Next() (*Batch, error) {
	shape := b.grid.Shape
	if size, _ := cartlin.Size(shape); size == 0 || b.CurrentIndex >= shape[0] {
		return nil, io.EOF
	}

	start := b.CurrentIndex
	end := min(start+b.batchSize, shape[0])

	regionStart := make([]int, len(shape))
	regionStart[0] = start
	batchShape := make([]int, len(shape))
	batchShape[0] = end - start
	copy(batchShape[1:], shape[1:])

	projections, err := b.grid.Region(regionStart, batchShape)
	if err != nil {
		return nil, fmt.Errorf("failed to plan rows [%d, %d): %w", start, end, err)
	}

	b.CurrentIndex = end
	return &Batch{Start: start, End: end, Shape: batchShape, Projections: projections}, nil
}
