/*
Copyright © 2025 The EESSI Project
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"
)

func detectCmd() *cli.Command {
	return &cli.Command{
		Name:                  "detect",
		EnableShellCompletion: true,
		Usage:                 "Detect host hardware and report the resolved targets",
		Description: `Probes the processor and the accelerator devices concurrently and writes
a detection report with:
  - The processor snapshot (vendor, model, feature flags)
  - The resolved CPU target and the full compatibility list
  - The accelerator devices and their resolved target, when present
  - Warnings for soft failures such as an unusable accelerator probe

The report can be written in JSON, YAML, or table format, and fed back
into the check command later.

# Examples

Print the report:
  stackinit detect

Save the report for a later tree check:
  stackinit detect --format yaml --output report.yaml
  stackinit check --report report.yaml`,
		Flags: []cli.Flag{
			cpuinfoFlag,
			machineFlag,
			tableFlag,
			installBaseFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			detector := detectorFromCmd(cmd)

			report, err := detector.Detect(ctx)
			if err != nil {
				slog.Error("host detection failed", "error", err)
				return err
			}

			return writeResource(ctx, cmd, report)
		},
	}
}
