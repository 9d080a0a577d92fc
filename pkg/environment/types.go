package environment

// Variable names composed into the session environment.
const (
	VarVersion          = "EESSI_VERSION"
	VarCVMFSRepo        = "EESSI_CVMFS_REPO"
	VarPrefix           = "EESSI_PREFIX"
	VarOSType           = "EESSI_OS_TYPE"
	VarCPUFamily        = "EESSI_CPU_FAMILY"
	VarSoftwareSubdir   = "EESSI_SOFTWARE_SUBDIR"
	VarSoftwarePath     = "EESSI_SOFTWARE_PATH"
	VarModulePath       = "EESSI_MODULE_PATH"
	VarSiteSoftwarePath = "EESSI_SITE_SOFTWARE_PATH"
	VarSiteModulePath   = "EESSI_SITE_MODULE_PATH"
	VarCompatPrefix     = "EESSI_EPREFIX"
	VarEPrefix          = "EPREFIX"
	VarAccelTarget      = "EESSI_ACCELERATOR_TARGET"
	VarAccelModulePath  = "EESSI_ACCEL_MODULE_PATH"
	VarCVMFSInstall     = "EESSI_CVMFS_INSTALL"
	VarSiteInstall      = "EESSI_SITE_INSTALL"
	VarProjectInstall   = "EESSI_PROJECT_INSTALL"
	VarUserInstall      = "EESSI_USER_INSTALL"
	VarInstallPath      = "EASYBUILD_INSTALLPATH"
	VarModuleSearchPath = "MODULEPATH"
)

// Variable is a single environment variable assignment.
type Variable struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Environment is an ordered list of variable assignments produced by
// Compose. Order is stable across invocations; MODULEPATH is always the
// last entry.
type Environment struct {
	Variables []Variable `json:"variables" yaml:"variables"`

	// ModulePaths holds the MODULEPATH entries in search order, most
	// specific first.
	ModulePaths []string `json:"modulePaths" yaml:"modulePaths"`
}

// Lookup returns the value of the named variable.
func (e *Environment) Lookup(key string) (string, bool) {
	for _, v := range e.Variables {
		if v.Key == key {
			return v.Value, true
		}
	}
	return "", false
}

// Keys returns the variable names in assignment order.
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.Variables))
	for _, v := range e.Variables {
		keys = append(keys, v.Key)
	}
	return keys
}

func (e *Environment) set(key, value string) {
	e.Variables = append(e.Variables, Variable{Key: key, Value: value})
}
