package zarr

import (
	"context"
	"fmt"
	"log/slog"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	"github.com/TuSKan/cartlin"
)

type options struct {
	logger    *slog.Logger
	separator string
}

// Option configures Open.
type Option func(*options)

// WithLogger sets the logger used by the array. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSeparator overrides the chunk key separator. Without it the
// dimension_separator of the metadata is used, or "." when absent.
func WithSeparator(sep string) Option {
	return func(o *options) {
		o.separator = sep
	}
}

// Array is a Zarr V2 array opened from a blob bucket. It exposes the chunk
// grid of the array and which chunks are present in storage; chunk payloads
// are left to the caller.
type Array struct {
	bucket   *blob.Bucket
	meta     *Metadata
	grid     *Grid
	dtype    string
	itemSize int
	logger   *slog.Logger
}

// Open opens the bucket at url (e.g. "file:///data/a.zarr", "s3://bucket/a.zarr")
// and loads its .zarray metadata.
func Open(ctx context.Context, url string, opts ...Option) (*Array, error) {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket: %w", err)
	}

	a, err := newArray(ctx, bucket, o)
	if err != nil {
		bucket.Close()
		return nil, err
	}
	return a, nil
}

func newArray(ctx context.Context, bucket *blob.Bucket, o options) (*Array, error) {
	reader, err := bucket.NewReader(ctx, ".zarray", nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, fmt.Errorf("%w: missing .zarray", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open .zarray: %w", err)
	}
	defer reader.Close()

	meta, err := LoadMetadata(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to load metadata: %w", err)
	}
	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("invalid metadata: %w", err)
	}
	dtype, itemSize, _ := ParseDType(meta.DType)

	grid, err := NewGrid(meta.Shape, meta.Chunks)
	if err != nil {
		return nil, err
	}
	switch {
	case o.separator != "":
		grid.Separator = o.separator
	case meta.DimensionSeparator != "":
		grid.Separator = meta.DimensionSeparator
	}

	o.logger.Debug("loaded zarr metadata",
		"shape", meta.Shape,
		"chunks", meta.Chunks,
		"grid", grid.GridShape,
		"dtype", dtype,
		"separator", grid.Separator,
	)

	return &Array{
		bucket:   bucket,
		meta:     meta,
		grid:     grid,
		dtype:    dtype,
		itemSize: itemSize,
		logger:   o.logger,
	}, nil
}

// Metadata returns the decoded .zarray metadata.
func (a *Array) Metadata() *Metadata {
	return a.meta
}

// Grid returns the chunk grid of the array.
func (a *Array) Grid() *Grid {
	return a.grid
}

// DType returns the simplified element type name, e.g. "float32".
func (a *Array) DType() string {
	return a.dtype
}

// ItemSize returns the size of one element in bytes.
func (a *Array) ItemSize() int {
	return a.itemSize
}

// ChunkKey returns the storage key of the chunk at the given grid coordinates.
func (a *Array) ChunkKey(chunk []int) string {
	return a.grid.ChunkKey(chunk)
}

// ChunkExists reports whether the chunk at the given grid coordinates is
// stored. Missing chunks hold the fill value.
func (a *Array) ChunkExists(ctx context.Context, chunk []int) (bool, error) {
	if _, err := cartlin.CartToLin(chunk, a.grid.GridShape); err != nil {
		return false, fmt.Errorf("invalid chunk %v: %w", chunk, err)
	}
	key := a.grid.ChunkKey(chunk)
	ok, err := a.bucket.Exists(ctx, key)
	if err != nil {
		a.logger.Warn("chunk lookup failed", "key", key, "error", err)
		return false, fmt.Errorf("failed to stat chunk %s: %w", key, err)
	}
	return ok, nil
}

// MissingChunks returns the grid coordinates of every chunk absent from
// storage, in row-major order.
func (a *Array) MissingChunks(ctx context.Context) ([][]int, error) {
	var missing [][]int
	chunks := a.grid.ChunkIndices()
	for chunk, ok := chunks.Next(); ok; chunk, ok = chunks.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		exists, err := a.ChunkExists(ctx, chunk)
		if err != nil {
			return nil, err
		}
		if !exists {
			missing = append(missing, append([]int(nil), chunk...))
		}
	}
	a.logger.Debug("scanned chunks", "total", a.grid.NumChunks(), "missing", len(missing))
	return missing, nil
}

// Close closes the underlying bucket.
func (a *Array) Close() error {
	return a.bucket.Close()
}
