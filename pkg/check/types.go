package check

import (
	"time"

	"github.com/EESSI/stackinit/pkg/header"
)

// KindCheckResult is the kind for tree check results.
const KindCheckResult = "CheckResult"

// Status is the outcome of a single tree check.
type Status string

const (
	// StatusPassed means the checked directory exists.
	StatusPassed Status = "passed"

	// StatusFailed means a required directory is missing or unusable.
	StatusFailed Status = "failed"

	// StatusSkipped means an optional directory is absent. Site additions
	// are optional; a stack without them is still usable.
	StatusSkipped Status = "skipped"

	// StatusWarned means an expected directory is absent but the base
	// stack remains usable without it.
	StatusWarned Status = "warned"
)

// SummaryStatus is the overall outcome of a check run.
type SummaryStatus string

const (
	// SummaryPass means every check passed.
	SummaryPass SummaryStatus = "pass"

	// SummaryFail means at least one required check failed.
	SummaryFail SummaryStatus = "fail"

	// SummaryPartial means nothing failed but some checks were skipped
	// or produced warnings.
	SummaryPartial SummaryStatus = "partial"
)

// Check is the result of verifying one directory of the installed tree.
type Check struct {
	Name    string `json:"name" yaml:"name"`
	Path    string `json:"path" yaml:"path"`
	Status  Status `json:"status" yaml:"status"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Summary aggregates check outcomes.
type Summary struct {
	Total    int           `json:"total" yaml:"total"`
	Passed   int           `json:"passed" yaml:"passed"`
	Failed   int           `json:"failed" yaml:"failed"`
	Skipped  int           `json:"skipped" yaml:"skipped"`
	Warned   int           `json:"warned" yaml:"warned"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Status   SummaryStatus `json:"status" yaml:"status"`
}

// Result is the full outcome of a tree check run.
type Result struct {
	header.Header `json:",inline" yaml:",inline"`

	Checks  []Check `json:"checks" yaml:"checks"`
	Summary Summary `json:"summary" yaml:"summary"`
}

// NewResult creates an empty Result with a populated header.
func NewResult(version string) *Result {
	r := &Result{}
	r.Set(KindCheckResult)
	r.Metadata["checker-version"] = version
	return r
}
