package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"testing"
)

func TestStructuredError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *StructuredError
		want string
	}{
		{
			name: "code and message",
			err:  New(ErrCodeNoMatch, "no compatible architecture"),
			want: "NO_MATCH: no compatible architecture",
		},
		{
			name: "wrapped cause",
			err:  Wrap(ErrCodeProbeFailure, "reading cpuinfo", os.ErrNotExist),
			want: "PROBE_FAILURE: reading cpuinfo: file does not exist",
		},
		{
			name: "formatted message",
			err:  Newf(ErrCodeInvalidOverride, "bad override %q", "zen3"),
			want: `INVALID_OVERRIDE: bad override "zen3"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStructuredError_Unwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(ErrCodeInternal, "wrapped", cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}

	// Wrapping through fmt.Errorf must still expose the structured error.
	outer := fmt.Errorf("outer context: %w", err)
	var se *StructuredError
	if !stderrors.As(outer, &se) {
		t.Fatalf("expected StructuredError, got %T", outer)
	}
	if se.Code != ErrCodeInternal {
		t.Errorf("Code = %q, want %q", se.Code, ErrCodeInternal)
	}
}

func TestWrap_NilError(t *testing.T) {
	if err := Wrap(ErrCodeInternal, "nothing", nil); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"structured", New(ErrCodeNoMatch, "x"), ErrCodeNoMatch},
		{"wrapped structured", fmt.Errorf("ctx: %w", New(ErrCodeAccelUnavailable, "x")), ErrCodeAccelUnavailable},
		{"plain error", stderrors.New("plain"), ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("resolving: %w", New(ErrCodeInstallConflict, "two install modes"))

	if !HasCode(err, ErrCodeInstallConflict) {
		t.Error("expected HasCode to match wrapped code")
	}
	if HasCode(err, ErrCodeNoMatch) {
		t.Error("HasCode matched the wrong code")
	}
	if HasCode(stderrors.New("plain"), ErrCodeInternal) {
		t.Error("HasCode should not match plain errors")
	}
}
