/*
Copyright © 2025 The EESSI Project
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/EESSI/stackinit/pkg/check"
	"github.com/EESSI/stackinit/pkg/detect"
)

func checkCmd() *cli.Command {
	return &cli.Command{
		Name:                  "check",
		EnableShellCompletion: true,
		Usage:                 "Verify the software stack tree for the resolved targets",
		Description: `Composes the environment for the host targets and verifies that the
directories it points at exist: the stack prefix, the compat layer, the
software and module directories, their host_injections site mirrors, and
the accelerator module tree when one resolved.

Site directories are optional; a missing one is reported as skipped and
the summary degrades to partial. Missing accelerator or installation
directories are warnings. Missing required directories fail the check
and the command exits non-zero.

# Examples

Check the tree for this host:
  stackinit check

Check a previously saved detection report:
  stackinit detect --output report.json
  stackinit check --report report.json

Check a user installation directory:
  stackinit check --install-user ~/eessi`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "report",
				Aliases: []string{"r"},
				Usage:   "Previously saved detection report to check instead of probing the host",
			},
			stackVersionFlag,
			repoFlag,
			osTypeFlag,
			installCVMFSFlag,
			installSiteFlag,
			installProjectFlag,
			installUserFlag,
			cpuinfoFlag,
			machineFlag,
			tableFlag,
			installBaseFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var report *detect.Report
			var err error

			if path := cmd.String("report"); path != "" {
				report, err = detect.ReportFromFile(path)
				if err != nil {
					slog.Error("failed to load detection report", "error", err, "path", path)
					return err
				}
			} else {
				report, err = detectorFromCmd(cmd).Detect(ctx)
				if err != nil {
					return err
				}
			}

			checker := check.New(check.WithVersion(version))
			result, err := checker.Check(ctx, report, configFromCmd(cmd))
			if err != nil {
				return err
			}

			if err := writeResource(ctx, cmd, result); err != nil {
				return err
			}

			if result.Summary.Status == check.SummaryFail {
				return fmt.Errorf("stack tree verification failed: %d of %d checks failed",
					result.Summary.Failed, result.Summary.Total)
			}
			return nil
		},
	}
}
