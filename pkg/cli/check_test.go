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

	"github.com/EESSI/stackinit/pkg/check"
	"github.com/EESSI/stackinit/pkg/serializer"
)

// stackTree creates the non-optional zen3 directories under a fresh repo
// mount and returns its path.
func stackTree(t *testing.T) string {
	t.Helper()
	repo := t.TempDir()
	prefix := filepath.Join(repo, "versions", "2025.06")
	for _, dir := range []string{
		filepath.Join(prefix, "compat", "linux", "x86_64"),
		filepath.Join(prefix, "software", "linux", "x86_64", "amd", "zen3", "modules", "all"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}
	return repo
}

func TestCheckCmd_CommandStructure(t *testing.T) {
	cmd := checkCmd()

	if cmd.Name != "check" {
		t.Errorf("Name = %v, want check", cmd.Name)
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

	requireFlags(t, cmd, []string{
		"report", "eessi-version", "repo", "os-type",
		"install-cvmfs", "install-site", "install-project", "install-user",
		"cpuinfo", "machine", "table", "install-base", "output", "format",
	})
}

func TestCheck_BuiltTreePasses(t *testing.T) {
	emptyPath(t)
	repo := stackTree(t)
	out := filepath.Join(t.TempDir(), "result.json")

	_, err := runCommand(t, nil,
		"check",
		"--cpuinfo", "testdata/cpuinfo_zen3", "--machine", "x86_64",
		"--repo", repo,
		"--output", out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := serializer.FromFile[check.Result](out)
	if err != nil {
		t.Fatalf("failed to load result: %v", err)
	}

	if result.Summary.Failed != 0 {
		t.Errorf("Failed = %d, want 0\nchecks: %+v", result.Summary.Failed, result.Checks)
	}
	// Site directories are optional and absent here.
	if result.Summary.Status != check.SummaryPartial {
		t.Errorf("Status = %v, want %v", result.Summary.Status, check.SummaryPartial)
	}
}

func TestCheck_MissingTreeFails(t *testing.T) {
	emptyPath(t)
	out := filepath.Join(t.TempDir(), "result.json")

	_, err := runCommand(t, nil,
		"check",
		"--cpuinfo", "testdata/cpuinfo_zen3", "--machine", "x86_64",
		"--repo", t.TempDir(),
		"--output", out)
	if err == nil {
		t.Fatal("expected error but got nil")
	}
	if !strings.Contains(err.Error(), "verification failed") {
		t.Errorf("error = %v, want error containing 'verification failed'", err)
	}

	// The result is still written before the command fails.
	result, err := serializer.FromFile[check.Result](out)
	if err != nil {
		t.Fatalf("failed to load result: %v", err)
	}
	if result.Summary.Status != check.SummaryFail {
		t.Errorf("Status = %v, want %v", result.Summary.Status, check.SummaryFail)
	}
}

func TestCheck_FromSavedReport(t *testing.T) {
	emptyPath(t)
	repo := stackTree(t)
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "report.json")

	_, err := runCommand(t, nil,
		"detect",
		"--cpuinfo", "testdata/cpuinfo_zen3", "--machine", "x86_64",
		"--output", reportPath)
	if err != nil {
		t.Fatalf("unexpected detect error: %v", err)
	}

	out := filepath.Join(dir, "result.json")
	_, err = runCommand(t, nil,
		"check", "--report", reportPath, "--repo", repo, "--output", out)
	if err != nil {
		t.Fatalf("unexpected check error: %v", err)
	}

	result, err := serializer.FromFile[check.Result](out)
	if err != nil {
		t.Fatalf("failed to load result: %v", err)
	}
	if result.Summary.Failed != 0 {
		t.Errorf("Failed = %d, want 0\nchecks: %+v", result.Summary.Failed, result.Checks)
	}
}
