package detect

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/EESSI/stackinit/pkg/errors"
	"github.com/EESSI/stackinit/pkg/host"
	cpuprobe "github.com/EESSI/stackinit/pkg/probe/cpu"
	gpuprobe "github.com/EESSI/stackinit/pkg/probe/gpu"
	"github.com/EESSI/stackinit/pkg/target"
)

// Options carries the resolution inputs derived from configuration.
type Options struct {
	// CPUOverride forces the CPU software subdirectory; probing is skipped.
	CPUOverride string

	// AccelOverride forces the accelerator target; probing is skipped.
	AccelOverride string

	// Allowed restricts CPU targets to a colon separated list of wildcard
	// patterns. Empty admits everything.
	Allowed string

	// TablePath names a flat text site table merged over the built-in
	// target tables.
	TablePath string

	// InstallBase is the absolute directory the CPU target trees live
	// under. Empty skips accelerator existence checks.
	InstallBase string

	// AccelCPUSubdir overrides which CPU subdirectory the accelerator tree
	// is checked under, for hosts whose accelerator stack targets a newer
	// microarchitecture than the base stack.
	AccelCPUSubdir string
}

// Detector probes the host and resolves its targets. The zero value is
// usable; nil probers are replaced by the defaults.
type Detector struct {
	// Version stamps the report metadata.
	Version string

	// CPU is the processor prober. If nil, the default prober is used.
	CPU CPUProber

	// GPU is the accelerator prober. If nil, the default prober is used.
	GPU GPUProber

	// Options carries the resolution inputs.
	Options Options
}

// Detect runs both probes concurrently, resolves the targets and assembles
// the report. CPU failures are fatal; accelerator failures degrade to
// report warnings so the base environment can still initialize.
func (d *Detector) Detect(ctx context.Context) (*Report, error) {
	if d.CPU == nil {
		d.CPU = cpuprobe.New()
	}
	if d.GPU == nil {
		d.GPU = gpuprobe.New()
	}

	slog.Debug("starting host detection")

	start := time.Now()
	defer func() {
		detectDuration.Observe(time.Since(start).Seconds())
	}()

	report := NewReport(d.Version)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	// Probe and resolve the CPU target
	g.Go(func() error {
		probeStart := time.Now()
		defer func() {
			probeDuration.WithLabelValues("cpu").Observe(time.Since(probeStart).Seconds())
		}()

		snapshot, res, err := d.DetectCPU(gctx)
		if err != nil {
			return err
		}

		mu.Lock()
		report.CPU = snapshot
		report.Resolution = res
		mu.Unlock()
		return nil
	})

	// Probe the accelerator
	g.Go(func() error {
		probeStart := time.Now()
		defer func() {
			probeDuration.WithLabelValues("gpu").Observe(time.Since(probeStart).Seconds())
		}()

		if d.Options.AccelOverride != "" {
			return nil
		}

		slog.Debug("probing accelerator devices")
		acc, err := d.GPU.Probe(gctx)
		if err != nil {
			// Soft failure: the base environment works without devices.
			slog.Warn("failed to probe accelerator devices", slog.String("error", err.Error()))
			mu.Lock()
			report.Warnings = append(report.Warnings, fmt.Sprintf("accelerator probe failed: %v", err))
			mu.Unlock()
			return nil
		}

		mu.Lock()
		report.Accelerator = acc
		mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		detectTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	// The accelerator existence check hangs off the resolved CPU
	// subdirectory, so this resolution runs after the fan-out.
	accelRes, err := d.resolveAccel(report.Accelerator, report.Resolution)
	if err != nil {
		switch {
		case errors.HasCode(err, errors.ErrCodeAccelUnavailable),
			errors.HasCode(err, errors.ErrCodeProbeFailure):
			slog.Warn("accelerator target unresolved", slog.String("error", err.Error()))
			report.Warnings = append(report.Warnings, err.Error())
		default:
			detectTotal.WithLabelValues("error").Inc()
			return nil, err
		}
	} else {
		report.AccelResolution = accelRes
	}

	detectTotal.WithLabelValues("success").Inc()
	slog.Debug("host detection complete",
		slog.String("best", report.Resolution.Best),
		slog.Int("compatible", len(report.Resolution.Compatible)),
		slog.Bool("accelerator", report.AccelResolution != nil),
	)

	return report, nil
}

// DetectCPU probes the processor and resolves the CPU target. Under an
// override the probe never runs and the returned snapshot is nil.
func (d *Detector) DetectCPU(ctx context.Context) (*host.CPU, *target.Resolution, error) {
	if d.CPU == nil {
		d.CPU = cpuprobe.New()
	}

	opts := target.ResolveOptions{Override: d.Options.CPUOverride, Allowed: d.Options.Allowed}

	if d.Options.CPUOverride != "" {
		tbl, err := d.tableFor(target.MachineOf(d.Options.CPUOverride))
		if err != nil {
			return nil, nil, err
		}
		res, err := target.ResolveCPU(nil, tbl, opts)
		if err != nil {
			return nil, nil, err
		}
		return nil, res, nil
	}

	slog.Debug("probing processor")
	snapshot, err := d.CPU.Probe(ctx)
	if err != nil {
		slog.Error("failed to probe processor", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to probe processor: %w", err)
	}

	tbl, err := d.tableFor(snapshot.MachineType)
	if err != nil {
		return nil, nil, err
	}
	res, err := target.ResolveCPU(snapshot, tbl, opts)
	if err != nil {
		return nil, nil, err
	}
	return snapshot, res, nil
}

// DetectAccel probes the accelerator and resolves its target. cpuRes
// anchors the installed tree check when an install base is configured.
// A host without an accelerator resolves to (nil, nil, nil).
func (d *Detector) DetectAccel(ctx context.Context, cpuRes *target.Resolution) (*host.Accelerator, *target.AccelResolution, error) {
	if d.GPU == nil {
		d.GPU = gpuprobe.New()
	}

	var acc *host.Accelerator
	if d.Options.AccelOverride == "" {
		slog.Debug("probing accelerator devices")
		var err error
		acc, err = d.GPU.Probe(ctx)
		if err != nil {
			return nil, nil, err
		}
	}

	res, err := d.resolveAccel(acc, cpuRes)
	if err != nil {
		return acc, nil, err
	}
	return acc, res, nil
}

// resolveAccel maps the probed accelerator (or the override) to its target
// path, checking the installed tree when an install base is configured.
func (d *Detector) resolveAccel(acc *host.Accelerator, cpuRes *target.Resolution) (*target.AccelResolution, error) {
	opts := target.AccelOptions{Override: d.Options.AccelOverride}

	if d.Options.InstallBase != "" && cpuRes != nil {
		subdir := cpuRes.Best
		if d.Options.AccelCPUSubdir != "" {
			if err := target.ValidateSubdir(d.Options.AccelCPUSubdir); err != nil {
				return nil, err
			}
			subdir = d.Options.AccelCPUSubdir
		}
		opts.InstallRoot = filepath.Join(d.Options.InstallBase, subdir)
	}

	var tbl *target.AccelTable
	if acc != nil {
		var err error
		tbl, err = target.AccelTableFor(acc.Family)
		if err != nil {
			return nil, err
		}
	}

	return target.ResolveAccel(acc, tbl, opts)
}

// tableFor loads the target table for a machine type, merging in the site
// table when one is configured.
func (d *Detector) tableFor(machine string) (*target.Table, error) {
	tbl, err := target.TableFor(machine)
	if err != nil {
		return nil, err
	}
	if d.Options.TablePath == "" {
		return tbl, nil
	}

	extra, err := target.LoadFlatTable(d.Options.TablePath)
	if err != nil {
		return nil, err
	}
	if tbl == nil {
		tbl = &target.Table{Machine: machine}
	}
	return target.MergeTable(tbl, extra), nil
}
