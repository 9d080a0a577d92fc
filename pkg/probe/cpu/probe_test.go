package cpu

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EESSI/stackinit/pkg/errors"
	"github.com/EESSI/stackinit/pkg/host"
)

func TestProbe_X86CPUInfo(t *testing.T) {
	path := filepath.Join("testdata", "cpuinfo_x86_64_zen3")
	p := New(WithCPUInfoPath(path), WithMachineType(host.MachineX86_64))

	cpu, err := p.Probe(context.Background())
	require.NoError(t, err)

	assert.Equal(t, host.MachineX86_64, cpu.MachineType)
	assert.Equal(t, "AuthenticAMD", cpu.VendorID)
	assert.Equal(t, "AMD EPYC 7763 64-Core Processor", cpu.ModelName)
	assert.Equal(t, path, cpu.Source)

	assert.Contains(t, cpu.Flags, "avx2")
	assert.Contains(t, cpu.Flags, "fma")
	assert.Contains(t, cpu.Flags, "vaes")
	assert.NotContains(t, cpu.Flags, "avx512f")
}

func TestProbe_Aarch64CPUInfo(t *testing.T) {
	path := filepath.Join("testdata", "cpuinfo_aarch64_grace")
	p := New(WithCPUInfoPath(path), WithMachineType(host.MachineAarch64))

	cpu, err := p.Probe(context.Background())
	require.NoError(t, err)

	assert.Equal(t, host.MachineAarch64, cpu.MachineType)
	// aarch64 reports no vendor_id; the implementer code stands in.
	assert.Equal(t, "ARM", cpu.VendorID)
	assert.Equal(t, "Neoverse-V2", cpu.ModelName)

	assert.Contains(t, cpu.Flags, "asimd")
	assert.Contains(t, cpu.Flags, "sve2")
	assert.Contains(t, cpu.Flags, "svei8mm")
}

func TestProbe_PPC64LECPUInfo(t *testing.T) {
	path := filepath.Join("testdata", "cpuinfo_ppc64le")
	p := New(WithCPUInfoPath(path), WithMachineType(host.MachinePPC64LE))

	cpu, err := p.Probe(context.Background())
	require.NoError(t, err)

	assert.Equal(t, host.MachinePPC64LE, cpu.MachineType)
	assert.Empty(t, cpu.VendorID)
	assert.Equal(t, "POWER9 (architected), altivec supported", cpu.ModelName)
	// No flags line on this platform; only generic targets can match.
	assert.Empty(t, cpu.Flags)
}

func TestProbe_MissingFileFallsBackToRegisters(t *testing.T) {
	p := New(WithCPUInfoPath(filepath.Join(t.TempDir(), "cpuinfo")))

	cpu, err := p.Probe(context.Background())
	if err != nil {
		// Architectures without a feature register source report a probe
		// failure when cpuinfo is unreadable.
		assert.True(t, errors.HasCode(err, errors.ErrCodeProbeFailure))
		return
	}

	assert.Equal(t, SourceRegisters, cpu.Source)
	assert.NotEmpty(t, cpu.Flags)
}

func TestProbe_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Probe(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProbe_DefaultsApplied(t *testing.T) {
	p := New(WithCPUInfoPath(""), WithMachineType(""))

	assert.Equal(t, DefaultCPUInfoPath, p.cpuinfoPath)
	assert.Equal(t, machineType(), p.machine)
}
