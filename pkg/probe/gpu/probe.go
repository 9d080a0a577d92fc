// Package gpu probes accelerator devices through their vendor query tool.
//
// A host without the tool, or with the tool reporting zero devices, is a
// normal no-accelerator outcome and never an error.
package gpu

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/EESSI/stackinit/pkg/errors"
	"github.com/EESSI/stackinit/pkg/host"
	"github.com/EESSI/stackinit/pkg/target"
)

const (
	// DefaultTool is the NVIDIA device query tool.
	DefaultTool = "nvidia-smi"

	// DefaultTimeout bounds one query tool invocation.
	DefaultTimeout = 10 * time.Second

	queryArgs  = "--query-gpu=gpu_name,count,driver_version,compute_cap"
	formatArgs = "--format=csv,noheader"
)

// Prober queries the host for accelerator devices.
type Prober struct {
	tool    string
	timeout time.Duration
}

// Option configures a Prober.
type Option func(*Prober)

// WithTool overrides the query tool name or path.
func WithTool(tool string) Option {
	return func(p *Prober) {
		if tool != "" {
			p.tool = tool
		}
	}
}

// WithTimeout overrides the invocation timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Prober) {
		if timeout > 0 {
			p.timeout = timeout
		}
	}
}

// New creates a Prober with the provided options applied.
func New(opts ...Option) *Prober {
	p := &Prober{
		tool:    DefaultTool,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe queries the accelerator snapshot for this host. It returns nil with
// no error when the query tool is absent, fails to run, or reports zero
// devices.
func (p *Prober) Probe(ctx context.Context) (*host.Accelerator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tool, err := exec.LookPath(p.tool)
	if err != nil {
		slog.Debug("accelerator query tool not found", slog.String("tool", p.tool))
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, tool, queryArgs, formatArgs)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		// The tool is installed but cannot talk to a device, typically
		// because no driver is loaded. Not an accelerator host.
		slog.Warn("accelerator query failed",
			slog.String("tool", tool),
			slog.Any("error", err),
		)
		return nil, nil
	}

	return parseQueryOutput(&stdout)
}

// parseQueryOutput reads the CSV rows produced by the query tool, one row
// per device holding name, device count, driver version and compute
// capability. With heterogeneous devices the highest capability wins. The
// count column repeats the total per device; the row count is authoritative.
func parseQueryOutput(r io.Reader) (*host.Accelerator, error) {
	var (
		acc      *host.Accelerator
		bestTier int
		rows     int
		mixed    bool
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.Contains(line, "[Insufficient Permissions]") {
			return nil, errors.New(errors.ErrCodeProbeFailure,
				"insufficient permissions to query accelerator devices")
		}

		fields := strings.Split(line, ",")
		if len(fields) != 4 {
			return nil, errors.Newf(errors.ErrCodeProbeFailure,
				"unexpected accelerator query output %q", line)
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		if _, err := strconv.Atoi(fields[1]); err != nil {
			return nil, errors.Newf(errors.ErrCodeProbeFailure,
				"unexpected device count %q in accelerator query output", fields[1])
		}

		tier, err := target.ParseComputeCapability(fields[3])
		if err != nil {
			return nil, err
		}

		rows++
		if acc != nil && tier != bestTier {
			mixed = true
		}
		if acc == nil || tier > bestTier {
			bestTier = tier
			acc = &host.Accelerator{
				Family:            target.FamilyNVIDIA,
				Model:             fields[0],
				DriverVersion:     fields[2],
				ComputeCapability: fields[3],
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if acc == nil {
		return nil, nil
	}
	acc.Count = rows

	if mixed {
		slog.Warn("heterogeneous accelerator capabilities, using highest",
			slog.String("model", acc.Model),
			slog.String("computeCapability", acc.ComputeCapability),
		)
	}

	return acc, nil
}
