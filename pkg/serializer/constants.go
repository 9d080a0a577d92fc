package serializer

// URI constants for output destinations
const (
	// StdoutURI is the special path indicating output should be written to stdout.
	StdoutURI = "-"
)
