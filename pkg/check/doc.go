/*
Copyright © 2025 The EESSI Project
SPDX-License-Identifier: Apache-2.0
*/

// Package check verifies the installed software tree against a detection
// report.
//
// # Overview
//
// The check package composes the environment a report resolves to and
// stats every derived directory. Each directory is graded: the prefix,
// compat layer, software, and module directories are required; the
// host_injections site directories are optional; the accelerator module
// tree and a configured local install directory only warn when absent.
//
// # Statuses
//
// Per-check:
//   - passed: the directory exists
//   - failed: a required directory is missing or not a directory
//   - skipped: an optional directory is absent
//   - warned: an expected directory is absent but the stack is usable
//
// Summary:
//   - pass: every check passed
//   - fail: at least one required check failed
//   - partial: nothing failed, but some checks were skipped or warned
//
// # Usage
//
//	checker := check.New(check.WithVersion(version))
//	result, err := checker.Check(ctx, report, cfg)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Status: %s\n", result.Summary.Status)
//	for _, c := range result.Checks {
//	    fmt.Printf("  %-28s %-8s %s\n", c.Name, c.Status, c.Path)
//	}
package check
