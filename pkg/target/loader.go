package target

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseFlatTable reads target entries in the flat text interchange format:
// one entry per line as three double quoted fields holding the
// subdirectory path, the raw vendor identifier and the space separated
// feature flags. Blank lines and lines starting with # are ignored.
//
//	"x86_64/amd/zen3" "AuthenticAMD" "avx2 fma vaes"
//	"aarch64/neoverse_n1" "" "asimd"
//
// Vendor identifiers are mapped to their canonical names on load. Entries
// keep file order, which is the table declaration order.
func ParseFlatTable(r io.Reader) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields, err := splitQuoted(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := ValidateSubdir(fields[0]); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		entries = append(entries, Entry{
			Path:     fields[0],
			Vendor:   CanonicalVendor(fields[1]),
			Features: strings.Fields(fields[2]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// LoadFlatTable reads a flat text table file.
func LoadFlatTable(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open target table %q: %w", path, err)
	}
	defer f.Close()

	entries, err := ParseFlatTable(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse target table %q: %w", path, err)
	}
	return entries, nil
}

// MergeTable returns a copy of tbl with the extra entries merged in.
// An extra entry sharing a path with an existing one replaces it in place;
// new entries are appended in order. Entries for other machine types are
// skipped.
func MergeTable(tbl *Table, extra []Entry) *Table {
	merged := &Table{Machine: tbl.Machine, Entries: make([]Entry, len(tbl.Entries))}
	copy(merged.Entries, tbl.Entries)

	for _, e := range extra {
		if e.Machine() != tbl.Machine {
			continue
		}
		replaced := false
		for i := range merged.Entries {
			if merged.Entries[i].Path == e.Path {
				merged.Entries[i] = e
				replaced = true
				break
			}
		}
		if !replaced {
			merged.Entries = append(merged.Entries, e)
		}
	}

	return merged
}

// splitQuoted splits a flat table line into its three double quoted fields.
func splitQuoted(line string) ([]string, error) {
	parts := strings.Split(line, `"`)
	if len(parts) != 7 {
		return nil, fmt.Errorf("expected three quoted fields, got %q", line)
	}
	for _, sep := range []string{parts[0], parts[2], parts[4], parts[6]} {
		if strings.TrimSpace(sep) != "" {
			return nil, fmt.Errorf("unexpected text outside quoted fields in %q", line)
		}
	}
	return []string{parts[1], parts[3], parts[5]}, nil
}
