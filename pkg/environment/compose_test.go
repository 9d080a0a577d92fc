package environment

import (
	"reflect"
	"strings"
	"testing"

	"github.com/EESSI/stackinit/pkg/errors"
	"github.com/EESSI/stackinit/pkg/target"
)

func zen3Resolution() *target.Resolution {
	return &target.Resolution{
		Best:       "x86_64/amd/zen3",
		Compatible: []string{"x86_64/amd/zen3", "x86_64/amd/zen2", "x86_64/generic"},
	}
}

func cc80Resolution() *target.AccelResolution {
	return &target.AccelResolution{
		Family: "nvidia",
		Tier:   "cc80",
		Path:   "accel/nvidia/cc80",
	}
}

func TestCompose_BaseVariables(t *testing.T) {
	env, err := Compose(DefaultConfig(), zen3Resolution(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]string{
		VarVersion:          "2025.06",
		VarCVMFSRepo:        "/cvmfs/software.eessi.io",
		VarPrefix:           "/cvmfs/software.eessi.io/versions/2025.06",
		VarOSType:           "linux",
		VarCPUFamily:        "x86_64",
		VarSoftwareSubdir:   "x86_64/amd/zen3",
		VarSoftwarePath:     "/cvmfs/software.eessi.io/versions/2025.06/software/linux/x86_64/amd/zen3",
		VarModulePath:       "/cvmfs/software.eessi.io/versions/2025.06/software/linux/x86_64/amd/zen3/modules/all",
		VarSiteSoftwarePath: "/cvmfs/software.eessi.io/host_injections/2025.06/software/linux/x86_64/amd/zen3",
		VarSiteModulePath:   "/cvmfs/software.eessi.io/host_injections/2025.06/software/linux/x86_64/amd/zen3/modules/all",
		VarCompatPrefix:     "/cvmfs/software.eessi.io/versions/2025.06/compat/linux/x86_64",
		VarEPrefix:          "/cvmfs/software.eessi.io/versions/2025.06/compat/linux/x86_64",
	}
	for key, value := range want {
		got, ok := env.Lookup(key)
		if !ok {
			t.Errorf("missing variable %s", key)
			continue
		}
		if got != value {
			t.Errorf("%s: expected %q, got %q", key, value, got)
		}
	}

	if _, ok := env.Lookup(VarAccelTarget); ok {
		t.Error("expected no accelerator target without an accelerator")
	}
	if _, ok := env.Lookup(VarInstallPath); ok {
		t.Error("expected no install path without an install mode")
	}

	modulepath, _ := env.Lookup(VarModuleSearchPath)
	wantPath := want[VarSiteModulePath] + ":" + want[VarModulePath]
	if modulepath != wantPath {
		t.Errorf("expected MODULEPATH %q, got %q", wantPath, modulepath)
	}
}

func TestCompose_VariableOrderIsStable(t *testing.T) {
	env, err := Compose(DefaultConfig(), zen3Resolution(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		VarVersion,
		VarCVMFSRepo,
		VarPrefix,
		VarOSType,
		VarCPUFamily,
		VarSoftwareSubdir,
		VarSoftwarePath,
		VarModulePath,
		VarSiteSoftwarePath,
		VarSiteModulePath,
		VarCompatPrefix,
		VarEPrefix,
		VarModuleSearchPath,
	}
	if got := env.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected variable order %v, got %v", want, got)
	}

	again, err := Compose(DefaultConfig(), zen3Resolution(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(env, again) {
		t.Error("expected identical environments for identical inputs")
	}
}

func TestCompose_AcceleratorPaths(t *testing.T) {
	env, err := Compose(DefaultConfig(), zen3Resolution(), cc80Resolution())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	accelTarget, ok := env.Lookup(VarAccelTarget)
	if !ok || accelTarget != "accel/nvidia/cc80" {
		t.Errorf("expected accelerator target accel/nvidia/cc80, got %q", accelTarget)
	}

	wantAccelModules := "/cvmfs/software.eessi.io/versions/2025.06/software/linux/x86_64/amd/zen3/accel/nvidia/cc80/modules/all"
	accelModules, ok := env.Lookup(VarAccelModulePath)
	if !ok || accelModules != wantAccelModules {
		t.Errorf("expected accel module path %q, got %q", wantAccelModules, accelModules)
	}

	if len(env.ModulePaths) != 3 {
		t.Fatalf("expected 3 module paths, got %v", env.ModulePaths)
	}
	if env.ModulePaths[0] != wantAccelModules {
		t.Errorf("expected the accelerator module path first, got %v", env.ModulePaths)
	}
	if !strings.Contains(env.ModulePaths[1], "host_injections") {
		t.Errorf("expected the site module path second, got %v", env.ModulePaths)
	}
}

func TestCompose_InstallModes(t *testing.T) {
	const (
		softwarePath = "/cvmfs/software.eessi.io/versions/2025.06/software/linux/x86_64/amd/zen3"
		sitePath     = "/cvmfs/software.eessi.io/host_injections/2025.06/software/linux/x86_64/amd/zen3"
	)

	tests := []struct {
		name        string
		install     Install
		modeVar     string
		modeValue   string
		installPath string
		localFirst  bool
	}{
		{
			name:        "cvmfs",
			install:     Install{CVMFS: true},
			modeVar:     VarCVMFSInstall,
			modeValue:   "1",
			installPath: softwarePath,
		},
		{
			name:        "site",
			install:     Install{Site: true},
			modeVar:     VarSiteInstall,
			modeValue:   "1",
			installPath: sitePath,
		},
		{
			name:        "project",
			install:     Install{Project: "/shared/proj"},
			modeVar:     VarProjectInstall,
			modeValue:   "/shared/proj",
			installPath: "/shared/proj/versions/2025.06/software/linux/x86_64/amd/zen3",
			localFirst:  true,
		},
		{
			name:        "user",
			install:     Install{User: "/home/alice/eessi"},
			modeVar:     VarUserInstall,
			modeValue:   "/home/alice/eessi",
			installPath: "/home/alice/eessi/versions/2025.06/software/linux/x86_64/amd/zen3",
			localFirst:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Install = tt.install

			env, err := Compose(cfg, zen3Resolution(), nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got, _ := env.Lookup(tt.modeVar); got != tt.modeValue {
				t.Errorf("expected %s=%q, got %q", tt.modeVar, tt.modeValue, got)
			}
			if got, _ := env.Lookup(VarInstallPath); got != tt.installPath {
				t.Errorf("expected install path %q, got %q", tt.installPath, got)
			}

			if tt.localFirst {
				want := tt.installPath + "/modules/all"
				if len(env.ModulePaths) == 0 || env.ModulePaths[0] != want {
					t.Errorf("expected leading module path %q, got %v", want, env.ModulePaths)
				}
			}
		})
	}
}

func TestCompose_InstallModeConflict(t *testing.T) {
	tests := []struct {
		name    string
		install Install
	}{
		{"cvmfs and site", Install{CVMFS: true, Site: true}},
		{"cvmfs and user", Install{CVMFS: true, User: "/home/alice/eessi"}},
		{"project and user", Install{Project: "/shared/proj", User: "/home/alice/eessi"}},
		{"all modes", Install{CVMFS: true, Site: true, Project: "/p", User: "/u"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Install = tt.install

			_, err := Compose(cfg, zen3Resolution(), nil)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.HasCode(err, errors.ErrCodeInstallConflict) {
				t.Errorf("expected INSTALL_CONFLICT, got %v", err)
			}
		})
	}
}

func TestCompose_MissingResolution(t *testing.T) {
	if _, err := Compose(DefaultConfig(), nil, nil); err == nil {
		t.Fatal("expected error for nil resolution")
	}
	if _, err := Compose(DefaultConfig(), &target.Resolution{}, nil); err == nil {
		t.Fatal("expected error for empty resolution")
	}
}

func TestCompose_ConfigDefaultsApplied(t *testing.T) {
	env, err := Compose(Config{Version: "2023.06"}, zen3Resolution(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, _ := env.Lookup(VarPrefix); got != "/cvmfs/software.eessi.io/versions/2023.06" {
		t.Errorf("expected the default repo with the configured version, got %q", got)
	}
	if got, _ := env.Lookup(VarOSType); got != "linux" {
		t.Errorf("expected the default os type, got %q", got)
	}
}

func TestInstallModes(t *testing.T) {
	if modes := (Install{}).Modes(); len(modes) != 0 {
		t.Errorf("expected no modes for the zero value, got %v", modes)
	}

	got := Install{CVMFS: true, User: "/u"}.Modes()
	if !reflect.DeepEqual(got, []string{"cvmfs", "user"}) {
		t.Errorf("expected [cvmfs user], got %v", got)
	}
}
