package cpu

import "golang.org/x/sys/cpu"

// registerFlags synthesizes cpuinfo flag names from the x86-64 feature
// registers. Only the flags the target tables key on are probed; each is
// checked individually, never implied by another.
func registerFlags() []string {
	checks := []struct {
		flag string
		has  bool
	}{
		{"sse2", cpu.X86.HasSSE2},
		{"sse4_2", cpu.X86.HasSSE42},
		{"avx", cpu.X86.HasAVX},
		{"avx2", cpu.X86.HasAVX2},
		{"fma", cpu.X86.HasFMA},
		{"vaes", cpu.X86.HasAVX512VAES},
		{"avx512f", cpu.X86.HasAVX512F},
		{"avx512bw", cpu.X86.HasAVX512BW},
		{"avx512cd", cpu.X86.HasAVX512CD},
		{"avx512dq", cpu.X86.HasAVX512DQ},
		{"avx512vl", cpu.X86.HasAVX512VL},
		{"avx512ifma", cpu.X86.HasAVX512IFMA},
		{"avx512vbmi", cpu.X86.HasAVX512VBMI},
		{"amx_bf16", cpu.X86.HasAMXBF16},
		{"amx_int8", cpu.X86.HasAMXInt8},
		{"amx_tile", cpu.X86.HasAMXTile},
	}

	var flags []string
	for _, c := range checks {
		if c.has {
			flags = append(flags, c.flag)
		}
	}
	return flags
}
