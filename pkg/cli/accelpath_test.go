/*
Copyright © 2025 The EESSI Project
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/EESSI/stackinit/pkg/environment"
)

func TestAccelpathCmd_CommandStructure(t *testing.T) {
	cmd := accelpathCmd()

	if cmd.Name != "accelpath" {
		t.Errorf("Name = %v, want accelpath", cmd.Name)
	}
	if cmd.Usage == "" {
		t.Error("Usage should not be empty")
	}
	if cmd.Description == "" {
		t.Error("Description should not be empty")
	}
	if cmd.Action == nil {
		t.Error("Action should not be nil")
	}

	requireFlags(t, cmd, []string{"cpuinfo", "machine", "table", "install-base"})
}

func TestAccelpath_NoDevicePrintsNothing(t *testing.T) {
	emptyPath(t)

	out, err := runCommand(t, nil, "accelpath")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "" {
		t.Errorf("output = %q, want empty", out)
	}
}

func TestAccelpath_ProbedDevice(t *testing.T) {
	fakeQueryTool(t, `echo "NVIDIA A100-SXM4-80GB, 4, 550.54.15, 8.0"`)

	out, err := runCommand(t, nil, "accelpath")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "accel/nvidia/cc80\n" {
		t.Errorf("output = %q, want %q", out, "accel/nvidia/cc80\n")
	}
}

func TestAccelpath_OverrideSkipsProbing(t *testing.T) {
	emptyPath(t)

	out, err := runCommand(t,
		map[string]string{environment.EnvAccelOverride: "accel/nvidia/cc90"},
		"accelpath")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "accel/nvidia/cc90\n" {
		t.Errorf("output = %q, want %q", out, "accel/nvidia/cc90\n")
	}
}

func TestAccelpath_MalformedOverride(t *testing.T) {
	emptyPath(t)

	_, err := runCommand(t,
		map[string]string{environment.EnvAccelOverride: "nvidia-cc90"},
		"accelpath")
	if err == nil {
		t.Fatal("expected error but got nil")
	}
	if !strings.Contains(err.Error(), "INVALID_OVERRIDE") {
		t.Errorf("error = %v, want INVALID_OVERRIDE error", err)
	}
}

func TestAccelpath_FallbackThroughInstallBase(t *testing.T) {
	base := t.TempDir()
	installed := filepath.Join(base, "x86_64/amd/zen3/accel/nvidia/cc70")
	if err := os.MkdirAll(installed, 0o755); err != nil {
		t.Fatalf("failed to build install tree: %v", err)
	}

	// Device reports capability 7.7, only the cc70 tier is installed.
	fakeQueryTool(t, `echo "NVIDIA TITAN V, 1, 550.54.15, 7.7"`)

	out, err := runCommand(t, nil,
		"accelpath",
		"--cpuinfo", "testdata/cpuinfo_zen3", "--machine", "x86_64",
		"--install-base", base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "accel/nvidia/cc70\n" {
		t.Errorf("output = %q, want %q", out, "accel/nvidia/cc70\n")
	}
}

func TestAccelpath_NothingInstalledIsAnError(t *testing.T) {
	fakeQueryTool(t, `echo "NVIDIA H100 80GB HBM3, 8, 550.54.15, 9.0"`)

	_, err := runCommand(t, nil,
		"accelpath",
		"--cpuinfo", "testdata/cpuinfo_zen3", "--machine", "x86_64",
		"--install-base", t.TempDir())
	if err == nil {
		t.Fatal("expected error but got nil")
	}
	if !strings.Contains(err.Error(), "ACCEL_UNAVAILABLE") {
		t.Errorf("error = %v, want ACCEL_UNAVAILABLE error", err)
	}
}
