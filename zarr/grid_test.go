package zarr_test

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TuSKan/cartlin"
	"github.com/TuSKan/cartlin/zarr"
)

func TestNewGrid(t *testing.T) {
	g, err := zarr.NewGrid([]int{5, 7}, []int{2, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3}, g.GridShape)
	assert.Equal(t, 9, g.NumChunks())
	assert.Equal(t, 2, g.Rank())
	assert.Equal(t, ".", g.Separator)

	_, err = zarr.NewGrid([]int{5, 7}, []int{2})
	require.ErrorIs(t, err, cartlin.ErrLengthMismatch)

	_, err = zarr.NewGrid([]int{5, 7}, []int{2, 0})
	require.ErrorIs(t, err, zarr.ErrInvalidMetadata)
}

func TestGrid_ChunkIndices(t *testing.T) {
	g, err := zarr.NewGrid([]int{4, 5}, []int{2, 2})
	require.NoError(t, err)

	var keys []string
	for chunk := range g.ChunkIndices().All() {
		keys = append(keys, g.ChunkKey(chunk))
	}
	assert.Equal(t, []string{"0.0", "0.1", "0.2", "1.0", "1.1", "1.2"}, keys)
}

func TestGrid_ChunkBounds(t *testing.T) {
	g, err := zarr.NewGrid([]int{5, 7}, []int{2, 3})
	require.NoError(t, err)

	bounds, err := g.ChunkBounds([]int{0, 0})
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{0, 2}, {0, 3}}, bounds)

	// Edge chunk is clipped to the array.
	bounds, err = g.ChunkBounds([]int{2, 2})
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{4, 5}, {6, 7}}, bounds)

	_, err = g.ChunkBounds([]int{3, 0})
	require.ErrorIs(t, err, cartlin.ErrOutOfBounds)
}

func TestGrid_LocateElementRoundTrip(t *testing.T) {
	g, err := zarr.NewGrid([]int{5, 7, 3}, []int{2, 3, 2})
	require.NoError(t, err)

	seen := make(map[string]map[int]bool)
	for idx := range cartlin.NewCartesianIndices(g.Shape).All() {
		chunk, offset, err := g.Locate(idx)
		require.NoError(t, err)

		bounds, err := g.ChunkBounds(chunk)
		require.NoError(t, err)
		for i, b := range bounds {
			require.True(t, idx[i] >= b[0] && idx[i] < b[1], "index %v outside chunk %v", idx, chunk)
		}

		key := g.ChunkKey(chunk)
		if seen[key] == nil {
			seen[key] = make(map[int]bool)
		}
		require.False(t, seen[key][offset], "offset %d in chunk %s used twice", offset, key)
		seen[key][offset] = true

		back, err := g.Element(chunk, offset)
		require.NoError(t, err)
		require.Equal(t, idx, back)
	}
	assert.Len(t, seen, g.NumChunks())
}

func TestGrid_Locate(t *testing.T) {
	g, err := zarr.NewGrid([]int{4, 4}, []int{2, 2})
	require.NoError(t, err)

	chunk, offset, err := g.Locate([]int{3, 2})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1}, chunk)
	assert.Equal(t, 2, offset)

	_, _, err = g.Locate([]int{4, 0})
	require.ErrorIs(t, err, cartlin.ErrOutOfBounds)

	_, _, err = g.Locate([]int{1})
	require.ErrorIs(t, err, cartlin.ErrLengthMismatch)
}

func TestGrid_ElementPadding(t *testing.T) {
	g, err := zarr.NewGrid([]int{5}, []int{2})
	require.NoError(t, err)

	idx, err := g.Element([]int{2}, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, idx)

	// Second slot of the last chunk lies past the array.
	_, err = g.Element([]int{2}, 1)
	var oob *cartlin.OutOfBoundsError
	require.ErrorAs(t, err, &oob)
	assert.Equal(t, 0, oob.Axis)
	assert.Equal(t, 1, oob.Value)
	assert.Equal(t, 1, oob.Upper)

	_, err = g.Element([]int{0}, 2)
	require.ErrorIs(t, err, cartlin.ErrOutOfBounds)
}

// assemble fills a region buffer from chunk buffers holding global linear
// indices, using only the projections.
func assemble(t *testing.T, g *zarr.Grid, projections []zarr.Projection, regionSize int) []int {
	t.Helper()
	out := slices.Repeat([]int{-1}, regionSize)
	for _, p := range projections {
		chunkSize, err := cartlin.Size(g.Chunks)
		require.NoError(t, err)
		chunkData := make([]int, chunkSize)
		for offset := range chunkData {
			idx, err := g.Element(p.Chunk, offset)
			if err != nil {
				continue // padding
			}
			chunkData[offset] = cartlin.CartToLinUnchecked(idx, g.Shape)
		}

		n := 0
		for src, dst := range p.Pairs() {
			out[dst] = chunkData[src]
			n++
		}
		require.Equal(t, p.Len(), n)
	}
	return out
}

func TestGrid_RegionFull(t *testing.T) {
	g, err := zarr.NewGrid([]int{4, 4}, []int{2, 2})
	require.NoError(t, err)

	projections, err := g.Region([]int{0, 0}, []int{4, 4})
	require.NoError(t, err)
	require.Len(t, projections, 4)
	assert.Equal(t, "0.0", projections[0].Key)
	assert.Equal(t, "1.1", projections[3].Key)

	out := assemble(t, g, projections, 16)
	for i, v := range out {
		assert.Equal(t, i, v)
	}
}

func TestGrid_RegionSub(t *testing.T) {
	g, err := zarr.NewGrid([]int{4, 4}, []int{2, 2})
	require.NoError(t, err)

	// Subregion [1:3, 1:3] of
	//  0  1  2  3
	//  4  5  6  7
	//  8  9 10 11
	// 12 13 14 15
	projections, err := g.Region([]int{1, 1}, []int{2, 2})
	require.NoError(t, err)
	require.Len(t, projections, 4)
	for _, p := range projections {
		assert.Equal(t, []int{1, 1}, p.Shape)
	}

	assert.Equal(t, []int{5, 6, 9, 10}, assemble(t, g, projections, 4))
}

func TestGrid_RegionUneven(t *testing.T) {
	g, err := zarr.NewGrid([]int{5, 7, 3}, []int{2, 3, 2})
	require.NoError(t, err)

	start := []int{1, 2, 1}
	shape := []int{4, 4, 2}
	projections, err := g.Region(start, shape)
	require.NoError(t, err)

	size, err := cartlin.Size(shape)
	require.NoError(t, err)
	out := assemble(t, g, projections, size)

	it, err := cartlin.CartesianIndicesFromBounds([][2]int{{1, 5}, {2, 6}, {1, 3}})
	require.NoError(t, err)
	for pos, idx := range it.Enumerate() {
		want, err := cartlin.CartToLin(idx, g.Shape)
		require.NoError(t, err)
		assert.Equal(t, want, out[pos], "element %v", idx)
	}
}

func TestGrid_RegionScalar(t *testing.T) {
	g, err := zarr.NewGrid([]int{}, []int{})
	require.NoError(t, err)

	projections, err := g.Region([]int{}, []int{})
	require.NoError(t, err)
	require.Len(t, projections, 1)
	assert.Equal(t, "0", projections[0].Key)
	assert.Equal(t, 1, projections[0].Len())
}

func TestGrid_RegionInvalid(t *testing.T) {
	g, err := zarr.NewGrid([]int{4, 4}, []int{2, 2})
	require.NoError(t, err)

	_, err = g.Region([]int{0}, []int{4, 4})
	require.ErrorIs(t, err, cartlin.ErrLengthMismatch)

	_, err = g.Region([]int{0, 0}, []int{4})
	require.ErrorIs(t, err, cartlin.ErrLengthMismatch)

	_, err = g.Region([]int{-1, 0}, []int{2, 2})
	require.ErrorIs(t, err, cartlin.ErrOutOfBounds)

	_, err = g.Region([]int{3, 0}, []int{2, 2})
	require.ErrorIs(t, err, cartlin.ErrOutOfBounds)

	_, err = g.Region([]int{0, 0}, []int{0, 2})
	require.ErrorIs(t, err, cartlin.ErrOutOfBounds)

	// start+shape would wrap past MaxInt.
	_, err = g.Region([]int{1, 0}, []int{math.MaxInt, 2})
	var oob *cartlin.OutOfBoundsError
	require.ErrorAs(t, err, &oob)
	assert.Equal(t, 0, oob.Axis)
	assert.Equal(t, math.MaxInt, oob.Value)
	assert.Equal(t, 4, oob.Upper)
}

func TestGrid_RegionLargeShape(t *testing.T) {
	g, err := zarr.NewGrid([]int{math.MaxInt}, []int{math.MaxInt / 2})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, g.GridShape)

	bounds, err := g.ChunkBounds([]int{2})
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{math.MaxInt - 1, math.MaxInt}}, bounds)

	idx, err := g.Element([]int{2}, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{math.MaxInt - 1}, idx)
	_, err = g.Element([]int{2}, math.MaxInt/2-1)
	require.ErrorIs(t, err, cartlin.ErrOutOfBounds)

	projections, err := g.Region([]int{math.MaxInt - 3}, []int{3})
	require.NoError(t, err)
	require.Len(t, projections, 2)
	assert.Equal(t, []int{1}, projections[0].Chunk)
	assert.Equal(t, []int{2}, projections[0].Shape)
	assert.Equal(t, []int{2}, projections[1].Chunk)
	assert.Equal(t, []int{1}, projections[1].Shape)

	_, err = g.Region([]int{math.MaxInt - 3}, []int{4})
	require.ErrorIs(t, err, cartlin.ErrOutOfBounds)
}
