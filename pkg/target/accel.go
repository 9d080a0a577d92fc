package target

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/EESSI/stackinit/pkg/errors"
	"github.com/EESSI/stackinit/pkg/host"
)

const (
	// FamilyNVIDIA is the NVIDIA accelerator family name used in paths.
	FamilyNVIDIA = "nvidia"

	// AccelDir is the directory accelerator trees live under, relative to
	// a software directory.
	AccelDir = "accel"
)

// FallbackPolicy derives an alternative tier to try when the exact tier
// directory is not installed. It returns false when no alternative exists.
// The policy is consulted at most once per resolution.
type FallbackPolicy func(tier int) (int, bool)

// fallbackPolicies maps accelerator families to their built-in fallback
// policies.
var fallbackPolicies = map[string]FallbackPolicy{
	FamilyNVIDIA: nvidiaFallback,
}

// nvidiaFallback rounds a compute capability tier down to the nearest
// multiple of ten (cc86 falls back to cc80).
func nvidiaFallback(tier int) (int, bool) {
	floored := tier - tier%10
	if floored == tier || floored <= 0 {
		return 0, false
	}
	return floored, true
}

// ResolveAccel maps a detected accelerator to its target path under the
// software directory.
//
// The tier is derived from the device compute capability ("8.0" becomes
// cc80). When opts.InstallRoot is set the tier directory must exist there;
// if it does not, the family fallback policy is consulted once and a lower
// installed tier may be substituted (flagged as Fallback). A nil accelerator
// yields a nil resolution. When opts.Override is set, detection is bypassed
// and the override only has to be well formed.
func ResolveAccel(acc *host.Accelerator, tbl *AccelTable, opts AccelOptions) (*AccelResolution, error) {
	if opts.Override != "" {
		family, tier, err := ParseAccelPath(opts.Override)
		if err != nil {
			accelResolveTotal.WithLabelValues("invalid").Inc()
			return nil, err
		}
		accelResolveTotal.WithLabelValues("override").Inc()
		return &AccelResolution{
			Family:     family,
			Tier:       TierName(tier),
			Path:       opts.Override,
			Overridden: true,
		}, nil
	}

	if acc == nil {
		return nil, nil
	}
	if acc.Family == "" {
		return nil, fmt.Errorf("accelerator snapshot has no device family")
	}

	tier, err := ParseComputeCapability(acc.ComputeCapability)
	if err != nil {
		accelResolveTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	if tbl != nil && !tbl.Knows(TierName(tier)) {
		slog.Debug("compute capability tier not in the known tier list",
			slog.String("family", acc.Family),
			slog.String("tier", TierName(tier)),
		)
	}

	exact := AccelPath(acc.Family, tier)
	if opts.InstallRoot == "" {
		accelResolveTotal.WithLabelValues("resolved").Inc()
		return &AccelResolution{Family: acc.Family, Tier: TierName(tier), Path: exact}, nil
	}

	if dirExists(filepath.Join(opts.InstallRoot, AccelDir, acc.Family, TierName(tier))) {
		accelResolveTotal.WithLabelValues("resolved").Inc()
		return &AccelResolution{Family: acc.Family, Tier: TierName(tier), Path: exact}, nil
	}

	policy := opts.Policy
	if policy == nil {
		policy = fallbackPolicies[acc.Family]
	}
	if policy != nil {
		if fallback, ok := policy(tier); ok {
			if dirExists(filepath.Join(opts.InstallRoot, AccelDir, acc.Family, TierName(fallback))) {
				slog.Warn("exact accelerator target not installed, falling back",
					slog.String("wanted", exact),
					slog.String("using", AccelPath(acc.Family, fallback)),
				)
				accelResolveTotal.WithLabelValues("fallback").Inc()
				return &AccelResolution{
					Family:   acc.Family,
					Tier:     TierName(fallback),
					Path:     AccelPath(acc.Family, fallback),
					Fallback: true,
				}, nil
			}
		}
	}

	accelResolveTotal.WithLabelValues("unavailable").Inc()
	return nil, errors.Newf(errors.ErrCodeAccelUnavailable,
		"no %s target installed for compute capability %s under %s",
		acc.Family, acc.ComputeCapability, opts.InstallRoot)
}

// Knows reports whether the table lists the given tier name.
func (t *AccelTable) Knows(tier string) bool {
	for _, known := range t.Tiers {
		if known == tier {
			return true
		}
	}
	return false
}

// ParseComputeCapability converts a dotted compute capability ("8.6") to
// its tier number (86).
func ParseComputeCapability(cc string) (int, error) {
	trimmed := strings.TrimSpace(cc)
	if trimmed == "" {
		return 0, errors.New(errors.ErrCodeProbeFailure, "empty compute capability")
	}

	majorStr, minorStr, dotted := strings.Cut(trimmed, ".")
	major, err := strconv.Atoi(majorStr)
	if err != nil || major <= 0 {
		return 0, errors.Newf(errors.ErrCodeProbeFailure, "malformed compute capability %q", cc)
	}
	minor := 0
	if dotted {
		minor, err = strconv.Atoi(minorStr)
		if err != nil || minor < 0 || minor > 9 {
			return 0, errors.Newf(errors.ErrCodeProbeFailure, "malformed compute capability %q", cc)
		}
	}
	return major*10 + minor, nil
}

// TierName formats a tier number as its directory name (80 becomes "cc80").
func TierName(tier int) string {
	return fmt.Sprintf("cc%d", tier)
}

// TierNumber parses a tier directory name ("cc80" becomes 80).
func TierNumber(name string) (int, error) {
	digits, ok := strings.CutPrefix(name, "cc")
	if !ok || digits == "" {
		return 0, fmt.Errorf("malformed tier name %q", name)
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("malformed tier name %q", name)
	}
	return n, nil
}

// AccelPath joins the accelerator path segments ("accel/nvidia/cc80").
func AccelPath(family string, tier int) string {
	return path.Join(AccelDir, family, TierName(tier))
}

// ParseAccelPath splits and validates an accelerator target path of the
// form "accel/<family>/cc<digits>".
func ParseAccelPath(p string) (string, int, error) {
	segments := strings.Split(p, "/")
	if len(segments) != 3 || segments[0] != AccelDir || segments[1] == "" {
		return "", 0, errors.Newf(errors.ErrCodeInvalidOverride,
			"accelerator target %q must have the form accel/<family>/cc<digits>", p)
	}
	tier, err := TierNumber(segments[2])
	if err != nil {
		return "", 0, errors.Newf(errors.ErrCodeInvalidOverride,
			"accelerator target %q must have the form accel/<family>/cc<digits>", p)
	}
	return segments[1], tier, nil
}

// dirExists reports whether path exists and is a directory.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
