// Package cpu probes host processor identity and feature flags.
//
// The primary source is the kernel cpuinfo file. When it is unreadable the
// prober falls back to the architecture feature registers and synthesizes a
// reduced flag set; only when both sources fail is the probe an error.
package cpu

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/EESSI/stackinit/pkg/errors"
	"github.com/EESSI/stackinit/pkg/host"
)

const (
	// DefaultCPUInfoPath is the kernel's processor description file.
	DefaultCPUInfoPath = "/proc/cpuinfo"

	// SourceRegisters marks snapshots synthesized from feature registers.
	SourceRegisters = "registers"
)

// Prober reads host processor snapshots.
type Prober struct {
	cpuinfoPath string
	machine     string
}

// Option configures a Prober.
type Option func(*Prober)

// WithCPUInfoPath overrides the cpuinfo file location.
func WithCPUInfoPath(path string) Option {
	return func(p *Prober) {
		if path != "" {
			p.cpuinfoPath = path
		}
	}
}

// WithMachineType overrides the machine type instead of deriving it from
// the runtime architecture.
func WithMachineType(machine string) Option {
	return func(p *Prober) {
		if machine != "" {
			p.machine = machine
		}
	}
}

// New creates a Prober with the provided options applied.
func New(opts ...Option) *Prober {
	p := &Prober{
		cpuinfoPath: DefaultCPUInfoPath,
		machine:     machineType(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe reads the processor snapshot for this host.
func (p *Prober) Probe(ctx context.Context) (*host.CPU, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(p.cpuinfoPath)
	if err != nil {
		flags := registerFlags()
		if len(flags) == 0 {
			return nil, errors.Wrap(errors.ErrCodeProbeFailure,
				fmt.Sprintf("no cpuinfo at %q and no usable feature registers", p.cpuinfoPath), err)
		}
		slog.Warn("cpuinfo unavailable, synthesizing flags from feature registers",
			slog.String("path", p.cpuinfoPath),
			slog.Any("error", err),
		)
		return &host.CPU{
			MachineType: p.machine,
			Flags:       flags,
			Source:      SourceRegisters,
		}, nil
	}
	defer f.Close()

	info, err := parseCPUInfo(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeProbeFailure,
			fmt.Sprintf("failed to parse %q", p.cpuinfoPath), err)
	}

	return info.snapshot(p.machine, p.cpuinfoPath), nil
}

// machineType maps the runtime architecture to the kernel machine name.
func machineType() string {
	switch runtime.GOARCH {
	case "amd64":
		return host.MachineX86_64
	case "arm64":
		return host.MachineAarch64
	case "ppc64le":
		return host.MachinePPC64LE
	case "riscv64":
		return host.MachineRISCV64
	default:
		return runtime.GOARCH
	}
}
