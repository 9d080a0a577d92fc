// Package serializer provides output formatting for stackinit resources.
//
// Resources (detection reports, environments, check results) serialize to
// JSON, YAML, or a flattened table representation. Writers target stdout or
// files; readers load previously written resources back.
package serializer

import (
	"context"
	"path/filepath"
	"strings"
)

// Format identifies a serialization format.
type Format string

const (
	// FormatJSON produces machine-parseable JSON output.
	FormatJSON Format = "json"

	// FormatYAML produces human-readable YAML output.
	FormatYAML Format = "yaml"

	// FormatTable produces a flattened FIELD/VALUE table for terminal viewing.
	FormatTable Format = "table"
)

// IsUnknown reports whether the format is not one of the supported formats.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTable:
		return false
	}
	return true
}

// SupportedFormats returns the names of all supported formats.
func SupportedFormats() []string {
	return []string{string(FormatJSON), string(FormatYAML), string(FormatTable)}
}

// FormatFromPath infers the serialization format from a file extension.
// Unrecognized extensions default to YAML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatYAML
}

// Serializer writes a value in a configured format.
type Serializer interface {
	Serialize(ctx context.Context, v any) error
}

// Deserializer reads a previously serialized value.
type Deserializer interface {
	Deserialize(v any) error
}

// Closer releases resources held by a serializer, such as open files.
// Closing more than once is safe.
type Closer interface {
	Close() error
}
