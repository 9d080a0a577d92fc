package target

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const flatTable = `# site extension table
"x86_64/amd/zen3" "AuthenticAMD" "avx2 fma vaes"

"aarch64/neoverse_n1" "" "asimd"
"x86_64/amd/zen5" "AuthenticAMD" "avx2 fma vaes avx512f avx512ifma avx512vnni"
`

func TestParseFlatTable(t *testing.T) {
	entries, err := ParseFlatTable(strings.NewReader(flatTable))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Entry{
		{Path: "x86_64/amd/zen3", Vendor: "amd", Features: []string{"avx2", "fma", "vaes"}},
		{Path: "aarch64/neoverse_n1", Vendor: "", Features: []string{"asimd"}},
		{Path: "x86_64/amd/zen5", Vendor: "amd", Features: []string{"avx2", "fma", "vaes", "avx512f", "avx512ifma", "avx512vnni"}},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("expected entries %+v, got %+v", want, entries)
	}
}

func TestParseFlatTable_Malformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"missing field", `"x86_64/amd/zen3" "AuthenticAMD"`},
		{"unterminated quote", `"x86_64/amd/zen3" "AuthenticAMD" "avx2`},
		{"text outside quotes", `"x86_64/amd/zen3" raw "avx2"`},
		{"invalid subdirectory", `"zen3" "AuthenticAMD" "avx2"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlatTable(strings.NewReader(tt.line + "\n"))
			if err == nil {
				t.Fatal("expected parse error, got nil")
			}
			if !strings.Contains(err.Error(), "line 1") {
				t.Errorf("expected error to carry the line number, got %v", err)
			}
		})
	}
}

func TestLoadFlatTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site_targets.txt")
	if err := os.WriteFile(path, []byte(flatTable), 0o644); err != nil {
		t.Fatalf("failed to write table file: %v", err)
	}

	entries, err := LoadFlatTable(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
}

func TestLoadFlatTable_MissingFile(t *testing.T) {
	if _, err := LoadFlatTable(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestMergeTable(t *testing.T) {
	tbl := &Table{
		Machine: "x86_64",
		Entries: []Entry{
			{Path: "x86_64/generic"},
			{Path: "x86_64/amd/zen2", Vendor: "amd", Features: []string{"avx2", "fma"}},
		},
	}

	extra := []Entry{
		// Replaces in place.
		{Path: "x86_64/amd/zen2", Vendor: "amd", Features: []string{"avx2", "fma", "clzero"}},
		// Appended.
		{Path: "x86_64/amd/zen3", Vendor: "amd", Features: []string{"avx2", "fma", "vaes"}},
		// Skipped, wrong machine.
		{Path: "aarch64/neoverse_n1", Features: []string{"asimd"}},
	}

	merged := MergeTable(tbl, extra)

	wantPaths := []string{"x86_64/generic", "x86_64/amd/zen2", "x86_64/amd/zen3"}
	var gotPaths []string
	for _, e := range merged.Entries {
		gotPaths = append(gotPaths, e.Path)
	}
	if !reflect.DeepEqual(gotPaths, wantPaths) {
		t.Errorf("expected paths %v, got %v", wantPaths, gotPaths)
	}

	if got := merged.Entries[1].Features; !reflect.DeepEqual(got, []string{"avx2", "fma", "clzero"}) {
		t.Errorf("expected replaced zen2 features, got %v", got)
	}

	// The original table is untouched.
	if len(tbl.Entries) != 2 {
		t.Errorf("expected original table to keep 2 entries, got %d", len(tbl.Entries))
	}
}
