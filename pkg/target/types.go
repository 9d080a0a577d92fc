// Package target maps host hardware snapshots to software subdirectory
// paths. CPU targets come from layered ordered tables (embedded defaults
// plus optional site extensions); accelerator targets are derived from the
// device compute capability and checked against the installed tree.
package target

import (
	"path"
	"strings"
)

// Entry describes one supported CPU target.
type Entry struct {
	// Path is the software subdirectory, e.g. "x86_64/amd/zen3".
	Path string `json:"path" yaml:"path"`

	// Vendor restricts the entry to hosts with a matching canonical vendor
	// name ("intel", "amd", ...). Empty matches any vendor.
	Vendor string `json:"vendor,omitempty" yaml:"vendor,omitempty"`

	// Features are the CPU flags a host must all carry to match this entry.
	// Feature sets are cumulative: an entry carries the full set including
	// everything its parent requires.
	Features []string `json:"features,omitempty" yaml:"features,omitempty"`

	// Parent is the path of the next less specific entry this one layers
	// on. Empty for generic entries.
	Parent string `json:"parent,omitempty" yaml:"parent,omitempty"`
}

// Machine returns the machine type segment of the entry path.
func (e Entry) Machine() string {
	return MachineOf(e.Path)
}

// Name returns the last segment of the entry path, e.g. "zen3".
func (e Entry) Name() string {
	return path.Base(e.Path)
}

// IsGeneric reports whether the entry is the unconditional baseline of its
// table.
func (e Entry) IsGeneric() bool {
	return e.Vendor == "" && len(e.Features) == 0
}

// Table is the ordered target table for one machine type. Entries are
// declared least specific first; declaration order breaks specificity ties
// during resolution.
type Table struct {
	Machine string  `json:"machine" yaml:"machine"`
	Entries []Entry `json:"entries" yaml:"entries"`
}

// AccelTable lists the known accelerator target tiers for one device family.
type AccelTable struct {
	Family string   `json:"family" yaml:"family"`
	Tiers  []string `json:"tiers" yaml:"tiers"`
}

// Resolution is the outcome of resolving a host CPU against a table.
type Resolution struct {
	// Best is the most specific matching software subdirectory.
	Best string `json:"best" yaml:"best"`

	// Compatible holds every matching subdirectory ordered most specific
	// first, ending with the generic path when one matched.
	Compatible []string `json:"compatible" yaml:"compatible"`

	// Overridden is true when the result was forced rather than detected.
	Overridden bool `json:"overridden,omitempty" yaml:"overridden,omitempty"`
}

// AccelResolution is the outcome of resolving a detected accelerator.
type AccelResolution struct {
	Family string `json:"family" yaml:"family"`

	// Tier is the selected tier directory name, e.g. "cc80".
	Tier string `json:"tier" yaml:"tier"`

	// Path is the accelerator subdirectory relative to the software
	// directory, e.g. "accel/nvidia/cc80".
	Path string `json:"path" yaml:"path"`

	// Fallback is true when the exact tier was not installed and a lower
	// tier directory was substituted.
	Fallback bool `json:"fallback,omitempty" yaml:"fallback,omitempty"`

	// Overridden is true when the result was forced rather than detected.
	Overridden bool `json:"overridden,omitempty" yaml:"overridden,omitempty"`
}

// ResolveOptions controls CPU target resolution.
type ResolveOptions struct {
	// Override forces the resolved subdirectory, bypassing detection and
	// matching entirely.
	Override string

	// Allowed is a colon separated allowlist of subdirectory patterns
	// (wildcards supported) restricting which compatible targets may be
	// returned. Empty admits everything.
	Allowed string
}

// AccelOptions controls accelerator target resolution.
type AccelOptions struct {
	// Override forces the resolved accelerator path, bypassing detection.
	Override string

	// InstallRoot is the software directory the accelerator tree hangs
	// off. Empty skips directory existence checks.
	InstallRoot string

	// Policy replaces the built-in per-family fallback policy.
	Policy FallbackPolicy
}

// MachineOf returns the machine type segment of a software subdirectory.
func MachineOf(subdir string) string {
	machine, _, _ := strings.Cut(subdir, "/")
	return machine
}

// CanonicalVendor maps raw hardware vendor identifiers to the canonical
// names used in target tables.
func CanonicalVendor(raw string) string {
	switch raw {
	case "GenuineIntel":
		return "intel"
	case "AuthenticAMD":
		return "amd"
	case "ARM":
		return "arm"
	case "FUJITSU", "Fujitsu":
		return "fujitsu"
	case "NVIDIA":
		return "nvidia"
	default:
		return strings.ToLower(raw)
	}
}
