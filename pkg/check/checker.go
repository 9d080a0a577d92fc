/*
Copyright © 2025 The EESSI Project
SPDX-License-Identifier: Apache-2.0
*/

package check

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/EESSI/stackinit/pkg/detect"
	"github.com/EESSI/stackinit/pkg/environment"
)

// Checker verifies that the installed software tree backs the paths a
// detection report resolves to.
type Checker struct {
	// Version is the checker version (typically the CLI version).
	Version string
}

// Option is a functional option for configuring Checker instances.
type Option func(*Checker)

// WithVersion returns an Option that sets the Checker version string.
func WithVersion(version string) Option {
	return func(c *Checker) {
		c.Version = version
	}
}

// New creates a new Checker with the provided options.
func New(opts ...Option) *Checker {
	c := &Checker{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check composes the environment for the report and verifies every derived
// directory against the filesystem. Returns a Result containing per-check
// outcomes and a summary.
func (c *Checker) Check(ctx context.Context, report *detect.Report, cfg environment.Config) (*Result, error) {
	start := time.Now()

	if report == nil {
		return nil, fmt.Errorf("report cannot be nil")
	}
	if report.Resolution == nil || report.Resolution.Best == "" {
		return nil, fmt.Errorf("report carries no resolved target")
	}

	env, err := environment.Compose(cfg, report.Resolution, report.AccelResolution)
	if err != nil {
		return nil, fmt.Errorf("failed to compose environment: %w", err)
	}

	result := NewResult(c.Version)

	for _, tc := range treeChecks(env) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		check := tc.evaluate()
		result.Checks = append(result.Checks, check)

		switch check.Status {
		case StatusPassed:
			result.Summary.Passed++
		case StatusFailed:
			result.Summary.Failed++
		case StatusSkipped:
			result.Summary.Skipped++
		case StatusWarned:
			result.Summary.Warned++
		}
	}

	result.Summary.Total = len(result.Checks)
	result.Summary.Duration = time.Since(start)

	switch {
	case result.Summary.Failed > 0:
		result.Summary.Status = SummaryFail
	case result.Summary.Skipped > 0 || result.Summary.Warned > 0:
		result.Summary.Status = SummaryPartial
	default:
		result.Summary.Status = SummaryPass
	}

	slog.Debug("tree check completed",
		"passed", result.Summary.Passed,
		"failed", result.Summary.Failed,
		"skipped", result.Summary.Skipped,
		"warned", result.Summary.Warned,
		"status", result.Summary.Status,
		"duration", result.Summary.Duration)

	return result, nil
}

// treeCheck pairs a directory with the status it takes when absent.
type treeCheck struct {
	name   string
	path   string
	absent Status
}

// treeChecks derives the directories to verify from a composed environment.
// Required directories fail when missing, site directories are optional,
// and the accelerator tree only warns because the base stack works without
// it.
func treeChecks(env *environment.Environment) []treeCheck {
	var checks []treeCheck

	add := func(name, key string, absent Status) {
		if path, ok := env.Lookup(key); ok {
			checks = append(checks, treeCheck{name: name, path: path, absent: absent})
		}
	}

	add("prefix", environment.VarPrefix, StatusFailed)
	add("compat layer", environment.VarEPrefix, StatusFailed)
	add("software directory", environment.VarSoftwarePath, StatusFailed)
	add("module directory", environment.VarModulePath, StatusFailed)
	add("site software directory", environment.VarSiteSoftwarePath, StatusSkipped)
	add("site module directory", environment.VarSiteModulePath, StatusSkipped)
	add("accelerator modules", environment.VarAccelModulePath, StatusWarned)
	add("install directory", environment.VarInstallPath, StatusWarned)

	return checks
}

// evaluate stats the directory and grades the outcome.
func (tc treeCheck) evaluate() Check {
	check := Check{Name: tc.name, Path: tc.path, Status: StatusPassed}

	info, err := os.Stat(tc.path)
	switch {
	case err == nil && info.IsDir():
		slog.Debug("check passed", "name", tc.name, "path", tc.path)

	case err == nil:
		check.Status = StatusFailed
		check.Message = "not a directory"
		slog.Debug("check failed", "name", tc.name, "path", tc.path, "reason", check.Message)

	case os.IsNotExist(err):
		check.Status = tc.absent
		check.Message = "directory does not exist"
		slog.Debug("directory missing", "name", tc.name, "path", tc.path, "status", check.Status)

	default:
		check.Status = StatusFailed
		check.Message = err.Error()
		slog.Warn("check could not stat path", "name", tc.name, "path", tc.path, slog.Any("error", err))
	}

	return check
}
