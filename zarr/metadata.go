package zarr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/TuSKan/cartlin"
)

var (
	// ErrUnsupportedFormat is returned for metadata whose zarr_format is not 2.
	ErrUnsupportedFormat = errors.New("zarr: unsupported zarr_format")

	// ErrUnsupportedOrder is returned for arrays that are not stored in C (row-major) order.
	ErrUnsupportedOrder = errors.New("zarr: unsupported order")

	// ErrInvalidMetadata is returned for shapes and chunk sizes that do not describe a grid.
	ErrInvalidMetadata = errors.New("zarr: invalid metadata")

	// ErrNotFound is returned when no .zarray exists at the opened location.
	ErrNotFound = errors.New("zarr: array not found")

	// ErrInvalidDType is returned when a dtype string cannot be decoded.
	ErrInvalidDType = errors.New("zarr: invalid dtype")
)

// CompressorConfig represents the Zarr compressor metadata.
type CompressorConfig struct {
	ID      string `json:"id"`
	Cname   string `json:"cname,omitempty"`
	Clevel  int    `json:"clevel,omitempty"`
	Shuffle int    `json:"shuffle,omitempty"`
}

// Metadata represents the Zarr V2 .zarray metadata.
type Metadata struct {
	ZarrFormat         int               `json:"zarr_format"`
	Shape              []int             `json:"shape"`
	Chunks             []int             `json:"chunks"`
	DType              string            `json:"dtype"`
	Compressor         *CompressorConfig `json:"compressor"`
	FillValue          any               `json:"fill_value"`
	Order              string            `json:"order"`
	DimensionSeparator string            `json:"dimension_separator,omitempty"`
}

// LoadMetadata decodes a .zarray document.
func LoadMetadata(reader io.Reader) (*Metadata, error) {
	var meta Metadata
	if err := json.NewDecoder(reader).Decode(&meta); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}

	if meta.ZarrFormat != 2 {
		return nil, fmt.Errorf("%w: %d, expected 2", ErrUnsupportedFormat, meta.ZarrFormat)
	}

	return &meta, nil
}

// Validate checks that the metadata describes a row-major chunk grid.
func (m *Metadata) Validate() error {
	if m.ZarrFormat != 2 {
		return fmt.Errorf("%w: %d, expected 2", ErrUnsupportedFormat, m.ZarrFormat)
	}
	if m.Order != "" && m.Order != "C" {
		return fmt.Errorf("%w: %q", ErrUnsupportedOrder, m.Order)
	}
	if _, _, err := ParseDType(m.DType); err != nil {
		return err
	}
	return validateGrid(m.Shape, m.Chunks)
}

func validateGrid(shape, chunks []int) error {
	if len(chunks) != len(shape) {
		return fmt.Errorf("%w: chunks: %w", ErrInvalidMetadata,
			&cartlin.LengthMismatchError{Expected: len(shape), Actual: len(chunks)})
	}
	for i := range shape {
		if shape[i] < 0 {
			return fmt.Errorf("%w: negative shape %d on axis %d", ErrInvalidMetadata, shape[i], i)
		}
		if chunks[i] <= 0 {
			return fmt.Errorf("%w: chunk size %d on axis %d must be positive", ErrInvalidMetadata, chunks[i], i)
		}
	}
	if _, err := cartlin.Size(shape); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMetadata, err)
	}
	if _, err := cartlin.Size(chunks); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMetadata, err)
	}
	return nil
}

// ParseDType decodes a NumPy typestr such as "<f4" into the Go-style element
// name ("float32") and its item size in bytes. Only little-endian and
// byte-order-free ("|") types are accepted; anything else wraps ErrInvalidDType.
func ParseDType(s string) (string, int, error) {
	if len(s) < 3 {
		return "", 0, fmt.Errorf("%w %q: too short", ErrInvalidDType, s)
	}

	switch s[0] {
	case '<', '|':
	case '>':
		return "", 0, fmt.Errorf("%w %q: big-endian byte order", ErrInvalidDType, s)
	default:
		return "", 0, fmt.Errorf("%w %q: unknown byte order %q", ErrInvalidDType, s, s[0])
	}

	size, err := strconv.Atoi(s[2:])
	if err != nil || size <= 0 {
		return "", 0, fmt.Errorf("%w %q: bad item size", ErrInvalidDType, s)
	}

	switch kind := s[1]; kind {
	case 'b':
		return "bool", size, nil
	case 'i':
		return fmt.Sprintf("int%d", size*8), size, nil
	case 'u':
		return fmt.Sprintf("uint%d", size*8), size, nil
	case 'f':
		return fmt.Sprintf("float%d", size*8), size, nil
	case 'c':
		return fmt.Sprintf("complex%d", size*8), size, nil
	default:
		return "", 0, fmt.Errorf("%w %q: unknown kind %q", ErrInvalidDType, s, kind)
	}
}
