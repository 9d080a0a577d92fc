//go:build !amd64 && !arm64

package cpu

// registerFlags has no feature register source on this architecture.
func registerFlags() []string {
	return nil
}
