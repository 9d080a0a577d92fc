package serializer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Reader deserializes values from an io.Reader in a configured format.
type Reader struct {
	format Format
	in     io.Reader
	closer io.Closer
	closed bool
}

// NewReader creates a Reader for the given input.
func NewReader(format Format, in io.Reader) *Reader {
	return &Reader{format: format, in: in}
}

// NewFileReader opens path for reading in the given format.
// The table format is write-only and cannot be read back.
func NewFileReader(format Format, path string) (*Reader, error) {
	if format == FormatTable {
		return nil, fmt.Errorf("table format cannot be deserialized")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file %q: %w", path, err)
	}

	r := NewReader(format, f)
	r.closer = f
	return r, nil
}

// Deserialize reads the input into v.
func (r *Reader) Deserialize(v any) error {
	data, err := io.ReadAll(r.in)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	switch r.format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to deserialize yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to deserialize json: %w", err)
		}
	}

	return nil
}

// Close releases the underlying file, if any. Safe to call multiple times.
func (r *Reader) Close() error {
	if r.closed || r.closer == nil {
		return nil
	}
	r.closed = true
	return r.closer.Close()
}

// FromFile loads a value of type T from the given path, inferring the format
// from the file extension.
func FromFile[T any](path string) (*T, error) {
	format := FormatFromPath(path)

	r, err := NewFileReader(format, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = r.Close()
	}()

	var v T
	if err := r.Deserialize(&v); err != nil {
		return nil, fmt.Errorf("failed to deserialize %q: %w", path, err)
	}

	return &v, nil
}
