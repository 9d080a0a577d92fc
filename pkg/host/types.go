// Package host defines immutable snapshots of detected host hardware.
//
// Snapshots are produced once per invocation by the probe packages and
// consumed by the target resolvers. They carry plain data only; nothing in
// this package touches the system.
package host

// Machine types as reported by the kernel and used as the first segment of
// software subdirectory paths.
const (
	MachineX86_64  = "x86_64"
	MachineAarch64 = "aarch64"
	MachinePPC64LE = "ppc64le"
	MachineRISCV64 = "riscv64"
)

// CPU is an immutable snapshot of the host processor identity.
type CPU struct {
	// MachineType is the hardware platform (e.g. "x86_64", "aarch64").
	MachineType string `json:"machineType" yaml:"machineType"`

	// VendorID identifies the CPU vendor as reported by the hardware
	// (e.g. "GenuineIntel", "AuthenticAMD", "ARM").
	VendorID string `json:"vendorId,omitempty" yaml:"vendorId,omitempty"`

	// ModelName is the human-readable processor name.
	ModelName string `json:"modelName,omitempty" yaml:"modelName,omitempty"`

	// Flags holds the detected CPU feature flags in source order.
	Flags []string `json:"flags" yaml:"flags"`

	// Source records where the snapshot came from: a cpuinfo path, or
	// "registers" when flags were synthesized from feature registers.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// FlagSet returns the feature flags as a set for subset matching.
func (c *CPU) FlagSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Flags))
	for _, f := range c.Flags {
		set[f] = struct{}{}
	}
	return set
}

// HasFlags reports whether every flag in required is present on the host.
// An empty requirement list always matches.
func (c *CPU) HasFlags(required []string) bool {
	set := c.FlagSet()
	for _, f := range required {
		if _, ok := set[f]; !ok {
			return false
		}
	}
	return true
}

// Accelerator is an immutable snapshot of detected accelerator hardware.
type Accelerator struct {
	// Family is the device family (e.g. "nvidia").
	Family string `json:"family" yaml:"family"`

	// Model is the device model name as reported by the query tool.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// Count is the number of devices present.
	Count int `json:"count" yaml:"count"`

	// DriverVersion is the installed driver version.
	DriverVersion string `json:"driverVersion,omitempty" yaml:"driverVersion,omitempty"`

	// ComputeCapability is the vendor compute capability (e.g. "8.0").
	// When devices with different capabilities are present this holds the
	// highest one.
	ComputeCapability string `json:"computeCapability" yaml:"computeCapability"`
}
