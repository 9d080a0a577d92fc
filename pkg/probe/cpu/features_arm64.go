package cpu

import "golang.org/x/sys/cpu"

// registerFlags synthesizes cpuinfo flag names from the arm64 feature
// registers. svei8mm has no dedicated register bit; SVE hosts carrying the
// Int8 matrix multiply extension advertise it.
func registerFlags() []string {
	checks := []struct {
		flag string
		has  bool
	}{
		{"asimd", cpu.ARM64.HasASIMD},
		{"fphp", cpu.ARM64.HasFPHP},
		{"asimdhp", cpu.ARM64.HasASIMDHP},
		{"asimddp", cpu.ARM64.HasASIMDDP},
		{"sve", cpu.ARM64.HasSVE},
		{"sve2", cpu.ARM64.HasSVE2},
		{"i8mm", cpu.ARM64.HasI8MM},
		{"svei8mm", cpu.ARM64.HasSVE && cpu.ARM64.HasI8MM},
	}

	var flags []string
	for _, c := range checks {
		if c.has {
			flags = append(flags, c.flag)
		}
	}
	return flags
}
