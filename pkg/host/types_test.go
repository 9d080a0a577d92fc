package host

import "testing"

func TestCPUHasFlags(t *testing.T) {
	cpu := &CPU{
		MachineType: MachineX86_64,
		VendorID:    "AuthenticAMD",
		Flags:       []string{"fpu", "avx2", "fma", "vaes"},
	}

	tests := []struct {
		name     string
		required []string
		want     bool
	}{
		{"empty requirement", nil, true},
		{"single present", []string{"avx2"}, true},
		{"all present", []string{"avx2", "fma", "vaes"}, true},
		{"one missing", []string{"avx2", "avx512f"}, false},
		{"all missing", []string{"sve"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cpu.HasFlags(tt.required); got != tt.want {
				t.Errorf("HasFlags(%v) = %v, want %v", tt.required, got, tt.want)
			}
		})
	}
}

func TestCPUFlagSet(t *testing.T) {
	cpu := &CPU{Flags: []string{"avx2", "fma", "avx2"}}

	set := cpu.FlagSet()
	if len(set) != 2 {
		t.Fatalf("expected deduplicated set of 2 flags, got %d", len(set))
	}
	if _, ok := set["fma"]; !ok {
		t.Error("expected fma in flag set")
	}
}
