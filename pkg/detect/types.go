// Package detect runs the host probes and target resolutions and assembles
// the outcome into a serializable report.
package detect

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/EESSI/stackinit/pkg/header"
	"github.com/EESSI/stackinit/pkg/host"
	"github.com/EESSI/stackinit/pkg/serializer"
	"github.com/EESSI/stackinit/pkg/target"
)

// KindReport is the resource kind for detection reports.
const KindReport = "Report"

// CPUProber reads host processor snapshots.
type CPUProber interface {
	Probe(ctx context.Context) (*host.CPU, error)
}

// GPUProber reads host accelerator snapshots.
type GPUProber interface {
	Probe(ctx context.Context) (*host.Accelerator, error)
}

// Report is the full outcome of host detection and target resolution.
type Report struct {
	header.Header `json:",inline" yaml:",inline"`

	// CPU is the probed processor snapshot. Unset when the CPU target was
	// forced by an override.
	CPU *host.CPU `json:"cpu,omitempty" yaml:"cpu,omitempty"`

	// Accelerator is the probed device snapshot, if any.
	Accelerator *host.Accelerator `json:"accelerator,omitempty" yaml:"accelerator,omitempty"`

	// Resolution is the CPU target resolution.
	Resolution *target.Resolution `json:"resolution" yaml:"resolution"`

	// AccelResolution is the accelerator target resolution, if one applies.
	AccelResolution *target.AccelResolution `json:"accelResolution,omitempty" yaml:"accelResolution,omitempty"`

	// Warnings records the soft failures encountered while detecting.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// NewReport creates an empty report with its header stamped.
func NewReport(version string) *Report {
	r := &Report{}
	r.Set(KindReport)
	r.Metadata["report-id"] = uuid.NewString()
	r.Metadata["detector-version"] = version
	return r
}

// ReportFromFile loads a report from the specified file path, inferring the
// format from the extension.
func ReportFromFile(path string) (*Report, error) {
	report, err := serializer.FromFile[Report](path)
	if err != nil {
		return nil, fmt.Errorf("failed to load report from %q: %w", path, err)
	}

	slog.Debug("loaded detection report",
		slog.String("path", path),
		slog.String("kind", report.Kind),
		slog.String("apiVersion", report.APIVersion),
	)

	return report, nil
}
