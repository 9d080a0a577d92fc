// Package version exposes build-time version information for stackinit.
package version

// Defaults used when the binary is built without ldflags.
const (
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/EESSI/stackinit/pkg/version.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Info holds the version identity of a stackinit build.
type Info struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

// Get returns the build version information.
func Get() Info {
	return Info{
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// String returns the bare version string.
func String() string {
	return version
}
