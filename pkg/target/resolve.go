package target

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/EESSI/stackinit/pkg/errors"
	"github.com/EESSI/stackinit/pkg/host"
)

// ResolveCPU resolves a host CPU snapshot against a target table.
//
// A candidate entry matches when its vendor is empty or equal to the host's
// canonical vendor and every required feature flag is present on the host.
// Matches are ordered most specific first (feature count descending, stable,
// so declaration order breaks ties); Best is the first of that order and
// Compatible carries the whole list. When opts.Override is set, detection
// and matching are bypassed entirely.
func ResolveCPU(cpu *host.CPU, tbl *Table, opts ResolveOptions) (*Resolution, error) {
	start := time.Now()
	defer func() {
		cpuResolveDuration.Observe(time.Since(start).Seconds())
	}()

	if opts.Override != "" {
		if err := ValidateSubdir(opts.Override); err != nil {
			cpuResolveTotal.WithLabelValues("invalid").Inc()
			return nil, err
		}
		if tbl != nil && !tbl.Contains(opts.Override) {
			slog.Warn("software subdirectory override does not name a known target",
				slog.String("override", opts.Override),
				slog.String("closest", nearestPath(opts.Override, tbl.Entries)),
			)
		}
		cpuResolveTotal.WithLabelValues("override").Inc()
		return &Resolution{
			Best:       opts.Override,
			Compatible: []string{opts.Override},
			Overridden: true,
		}, nil
	}

	if cpu == nil {
		return nil, fmt.Errorf("cpu snapshot cannot be nil")
	}
	if tbl == nil || len(tbl.Entries) == 0 {
		cpuResolveTotal.WithLabelValues("no_match").Inc()
		return nil, errors.Newf(errors.ErrCodeNoMatch,
			"no targets defined for machine type %q", cpu.MachineType)
	}

	vendor := CanonicalVendor(cpu.VendorID)
	flags := cpu.FlagSet()

	matched := make([]Entry, 0, len(tbl.Entries))
	for _, e := range tbl.Entries {
		if e.Vendor != "" && e.Vendor != vendor {
			continue
		}
		if !hasAll(flags, e.Features) {
			continue
		}
		matched = append(matched, e)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return len(matched[i].Features) > len(matched[j].Features)
	})

	paths := make([]string, 0, len(matched))
	for _, e := range matched {
		if !allowed(e.Path, opts.Allowed) {
			continue
		}
		paths = append(paths, e.Path)
	}

	if len(paths) == 0 {
		cpuResolveTotal.WithLabelValues("no_match").Inc()
		if len(matched) > 0 {
			return nil, errors.Newf(errors.ErrCodeNoMatch,
				"no compatible target admitted by allowlist %q", opts.Allowed)
		}
		return nil, errors.Newf(errors.ErrCodeNoMatch,
			"no compatible target for machine type %q vendor %q", cpu.MachineType, vendor)
	}

	cpuResolveTotal.WithLabelValues("matched").Inc()
	return &Resolution{Best: paths[0], Compatible: paths}, nil
}

// Contains reports whether the table declares an entry with the given path.
func (t *Table) Contains(path string) bool {
	for _, e := range t.Entries {
		if e.Path == path {
			return true
		}
	}
	return false
}

// ValidateSubdir checks that a software subdirectory is well formed: at
// least two slash separated segments, none empty, no surrounding slashes or
// whitespace.
func ValidateSubdir(subdir string) error {
	if subdir == "" {
		return errors.New(errors.ErrCodeInvalidOverride, "software subdirectory is empty")
	}
	if strings.ContainsAny(subdir, " \t\n") {
		return errors.Newf(errors.ErrCodeInvalidOverride,
			"software subdirectory %q contains whitespace", subdir)
	}
	if strings.HasPrefix(subdir, "/") || strings.HasSuffix(subdir, "/") {
		return errors.Newf(errors.ErrCodeInvalidOverride,
			"software subdirectory %q must not begin or end with a slash", subdir)
	}
	segments := strings.Split(subdir, "/")
	if len(segments) < 2 {
		return errors.Newf(errors.ErrCodeInvalidOverride,
			"software subdirectory %q needs at least machine type and target segments", subdir)
	}
	for _, seg := range segments {
		if seg == "" {
			return errors.Newf(errors.ErrCodeInvalidOverride,
				"software subdirectory %q contains an empty segment", subdir)
		}
	}
	return nil
}

// allowed reports whether a path is admitted by the colon separated
// allowlist. Patterns support the usual wildcard forms: "prefix*",
// "*suffix", "*contains*" and exact matches. An empty allowlist admits
// everything.
func allowed(path, allowlist string) bool {
	if allowlist == "" {
		return true
	}
	for _, pattern := range strings.Split(allowlist, ":") {
		if pattern == "" {
			continue
		}
		if MatchesPattern(path, pattern) {
			return true
		}
	}
	return false
}

// MatchesPattern checks if a path matches a wildcard pattern.
func MatchesPattern(path, pattern string) bool {
	// No wildcard - exact match
	if !strings.Contains(pattern, "*") {
		return path == pattern
	}

	// *contains* - contains match
	if strings.HasPrefix(pattern, "*") && strings.HasSuffix(pattern, "*") {
		substr := strings.Trim(pattern, "*")
		return strings.Contains(path, substr)
	}

	// *suffix - ends with match
	if strings.HasPrefix(pattern, "*") {
		suffix := strings.TrimPrefix(pattern, "*")
		return strings.HasSuffix(path, suffix)
	}

	// prefix* - starts with match
	if strings.HasSuffix(pattern, "*") {
		prefix := strings.TrimSuffix(pattern, "*")
		return strings.HasPrefix(path, prefix)
	}

	return false
}

// nearestPath returns the declared entry path closest to s by edit distance.
func nearestPath(s string, entries []Entry) string {
	nearest := ""
	score := math.MaxInt
	for _, e := range entries {
		if d := levenshtein.ComputeDistance(s, e.Path); d < score {
			score = d
			nearest = e.Path
		}
	}
	return nearest
}

// hasAll reports whether every required flag is present in the set.
func hasAll(flags map[string]struct{}, required []string) bool {
	for _, f := range required {
		if _, ok := flags[f]; !ok {
			return false
		}
	}
	return true
}
