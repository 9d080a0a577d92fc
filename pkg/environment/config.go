/*
Copyright © 2025 The EESSI Project
SPDX-License-Identifier: Apache-2.0
*/

package environment

// Defaults for the production software stack.
const (
	DefaultVersion = "2025.06"
	DefaultRepo    = "/cvmfs/software.eessi.io"
	DefaultOSType  = "linux"
)

// Names of the process environment variables honored as overrides. The
// core packages never read the process environment; the CLI parses these
// into an Overrides value at startup.
const (
	EnvCPUOverride         = "EESSI_SOFTWARE_SUBDIR_OVERRIDE"
	EnvAccelOverride       = "EESSI_ACCELERATOR_TARGET_OVERRIDE"
	EnvAccelSubdirOverride = "EESSI_ACCEL_SOFTWARE_SUBDIR_OVERRIDE"
	EnvArchdetectOptions   = "EESSI_ARCHDETECT_OPTIONS"
)

// Install selects where EasyBuild installations land. The modes are
// mutually exclusive; the zero value means read-only usage of the stack.
type Install struct {
	// CVMFS targets the distributed stack itself (stack maintainers only).
	CVMFS bool `json:"cvmfs,omitempty" yaml:"cvmfs,omitempty"`

	// Site targets the host_injections mirror of the stack.
	Site bool `json:"site,omitempty" yaml:"site,omitempty"`

	// Project is a shared directory for group-local installations.
	Project string `json:"project,omitempty" yaml:"project,omitempty"`

	// User is a personal directory for user-local installations.
	User string `json:"user,omitempty" yaml:"user,omitempty"`
}

// Modes returns the names of all configured installation modes.
func (i Install) Modes() []string {
	var modes []string
	if i.CVMFS {
		modes = append(modes, "cvmfs")
	}
	if i.Site {
		modes = append(modes, "site")
	}
	if i.Project != "" {
		modes = append(modes, "project")
	}
	if i.User != "" {
		modes = append(modes, "user")
	}
	return modes
}

// Config describes the software stack to compose an environment for.
type Config struct {
	// Version is the stack version, such as "2025.06".
	Version string `json:"version" yaml:"version"`

	// Repo is the mount point of the CVMFS repository.
	Repo string `json:"repo" yaml:"repo"`

	// OSType is the operating system layer of the stack tree.
	OSType string `json:"osType" yaml:"osType"`

	// Install selects the optional EasyBuild installation mode.
	Install Install `json:"install,omitempty" yaml:"install,omitempty"`
}

// DefaultConfig returns a Config pointing at the production stack.
func DefaultConfig() Config {
	return Config{
		Version: DefaultVersion,
		Repo:    DefaultRepo,
		OSType:  DefaultOSType,
	}
}

// withDefaults fills empty fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Version == "" {
		c.Version = d.Version
	}
	if c.Repo == "" {
		c.Repo = d.Repo
	}
	if c.OSType == "" {
		c.OSType = d.OSType
	}
	return c
}

// Overrides carries the detection overrides the CLI parses from the
// documented environment variables.
type Overrides struct {
	// CPUTarget forces the CPU software subdirectory, bypassing detection.
	CPUTarget string

	// AccelTarget forces the accelerator target, bypassing the GPU probe.
	AccelTarget string

	// AccelCPUSubdir overrides the CPU subdirectory the accelerator tree
	// check runs under. Accelerator builds may target a newer
	// microarchitecture than the base stack.
	AccelCPUSubdir string

	// ArchdetectOptions is a colon separated allowlist restricting which
	// CPU targets may be chosen.
	ArchdetectOptions string
}
