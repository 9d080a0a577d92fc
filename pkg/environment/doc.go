// Package environment composes the shell environment for a software stack
// session.
//
// # Overview
//
// Given a resolved CPU target (and optionally an accelerator target), the
// package derives every path variable a session needs to use the stack:
// the software and module directories of the matching subtree, the
// host_injections mirror for site additions, the compatibility layer
// prefix, and the MODULEPATH search order.
//
// # Variables
//
// Compose emits, in order:
//
//	EESSI_VERSION             stack version, e.g. 2025.06
//	EESSI_CVMFS_REPO          repository mount point
//	EESSI_PREFIX              <repo>/versions/<version>
//	EESSI_OS_TYPE             operating system layer, e.g. linux
//	EESSI_CPU_FAMILY          machine type, e.g. x86_64
//	EESSI_SOFTWARE_SUBDIR     resolved target, e.g. x86_64/amd/zen3
//	EESSI_SOFTWARE_PATH       <prefix>/software/<os>/<subdir>
//	EESSI_MODULE_PATH         <software path>/modules/all
//	EESSI_SITE_SOFTWARE_PATH  host_injections mirror of the software path
//	EESSI_SITE_MODULE_PATH    <site software path>/modules/all
//	EESSI_EPREFIX, EPREFIX    <prefix>/compat/<os>/<machine>
//	EESSI_ACCELERATOR_TARGET  accel/<family>/cc<NN>, when resolved
//	EESSI_ACCEL_MODULE_PATH   accelerator module directory, when resolved
//	MODULEPATH                search paths, most specific first
//
// # Install Modes
//
// An optional installation mode adds EasyBuild installation-path
// variables. The modes are mutually exclusive:
//
//   - CVMFS: installs into the stack itself (EESSI_CVMFS_INSTALL)
//   - Site: installs into the host_injections mirror (EESSI_SITE_INSTALL)
//   - Project, User: install into a local directory laid out as a
//     versions subtree; these also contribute a leading MODULEPATH entry
//
// Configuring more than one mode fails with an INSTALL_CONFLICT error.
//
// # Rendering
//
// Environment.Render produces source-able script for bash family shells
// (export lines) or csh family shells (setenv lines):
//
//	env, err := environment.Compose(environment.DefaultConfig(), res, accel)
//	if err != nil {
//	    return err
//	}
//	script, err := env.Render(environment.ShellBash)
//
// Overrides and Config are plain structs. Nothing in this package reads
// the process environment; the CLI parses the documented EESSI_* override
// variables and passes them in.
package environment
