package environment

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/EESSI/stackinit/pkg/errors"
	"github.com/EESSI/stackinit/pkg/target"
)

// Compose builds the shell environment pointing a session at the resolved
// software stack subtree.
//
// Variables are emitted in a stable order. MODULEPATH comes last and its
// entries are ordered most specific first, so the module system prefers
// local installations over accelerator builds, accelerator builds over
// site builds, and site builds over the base stack.
func Compose(cfg Config, res *target.Resolution, accel *target.AccelResolution) (*Environment, error) {
	start := time.Now()
	defer func() {
		composeDuration.Observe(time.Since(start).Seconds())
	}()

	if res == nil {
		return nil, fmt.Errorf("resolution cannot be nil")
	}
	if res.Best == "" {
		return nil, fmt.Errorf("resolution carries no target subdirectory")
	}

	cfg = cfg.withDefaults()

	if modes := cfg.Install.Modes(); len(modes) > 1 {
		composeTotal.WithLabelValues("conflict").Inc()
		return nil, errors.Newf(errors.ErrCodeInstallConflict,
			"install modes are mutually exclusive, got %s", strings.Join(modes, " and "))
	}

	subdir := res.Best
	machine := target.MachineOf(subdir)
	prefix := filepath.Join(cfg.Repo, "versions", cfg.Version)
	softwarePath := filepath.Join(prefix, "software", cfg.OSType, subdir)
	modulePath := filepath.Join(softwarePath, "modules", "all")
	// Site additions live in a host_injections mirror of the versions tree.
	sitePath := strings.Replace(softwarePath, "/versions/", "/host_injections/", 1)
	siteModulePath := filepath.Join(sitePath, "modules", "all")
	compatPath := filepath.Join(prefix, "compat", cfg.OSType, machine)

	env := &Environment{}
	env.set(VarVersion, cfg.Version)
	env.set(VarCVMFSRepo, cfg.Repo)
	env.set(VarPrefix, prefix)
	env.set(VarOSType, cfg.OSType)
	env.set(VarCPUFamily, machine)
	env.set(VarSoftwareSubdir, subdir)
	env.set(VarSoftwarePath, softwarePath)
	env.set(VarModulePath, modulePath)
	env.set(VarSiteSoftwarePath, sitePath)
	env.set(VarSiteModulePath, siteModulePath)
	env.set(VarCompatPrefix, compatPath)
	env.set(VarEPrefix, compatPath)

	var accelModulePath string
	if accel != nil && accel.Path != "" {
		accelModulePath = filepath.Join(softwarePath, accel.Path, "modules", "all")
		env.set(VarAccelTarget, accel.Path)
		env.set(VarAccelModulePath, accelModulePath)
	}

	localModulePath, mode := applyInstallMode(env, cfg, subdir, softwarePath, sitePath)

	if localModulePath != "" {
		env.ModulePaths = append(env.ModulePaths, localModulePath)
	}
	if accelModulePath != "" {
		env.ModulePaths = append(env.ModulePaths, accelModulePath)
	}
	env.ModulePaths = append(env.ModulePaths, siteModulePath, modulePath)
	env.set(VarModuleSearchPath, strings.Join(env.ModulePaths, ":"))

	composeTotal.WithLabelValues(mode).Inc()
	return env, nil
}

// applyInstallMode emits the variables for the configured installation
// mode and returns the extra module path local installations contribute.
// Exclusivity is checked by the caller.
func applyInstallMode(env *Environment, cfg Config, subdir, softwarePath, sitePath string) (string, string) {
	switch {
	case cfg.Install.CVMFS:
		env.set(VarCVMFSInstall, "1")
		env.set(VarInstallPath, softwarePath)
		return "", "cvmfs"

	case cfg.Install.Site:
		env.set(VarSiteInstall, "1")
		env.set(VarInstallPath, sitePath)
		return "", "site"

	case cfg.Install.Project != "":
		installPath := localInstallPath(cfg, cfg.Install.Project, subdir)
		env.set(VarProjectInstall, cfg.Install.Project)
		env.set(VarInstallPath, installPath)
		return filepath.Join(installPath, "modules", "all"), "project"

	case cfg.Install.User != "":
		installPath := localInstallPath(cfg, cfg.Install.User, subdir)
		env.set(VarUserInstall, cfg.Install.User)
		env.set(VarInstallPath, installPath)
		return filepath.Join(installPath, "modules", "all"), "user"
	}

	return "", "none"
}

// localInstallPath mirrors the stack tree layout under a project or user
// directory, so locally built software lands in a versions subtree keyed
// by the same stack version and target subdirectory.
func localInstallPath(cfg Config, dir, subdir string) string {
	return filepath.Join(dir, "versions", cfg.Version, "software", cfg.OSType, subdir)
}
