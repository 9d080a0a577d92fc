/*
Copyright © 2025 The EESSI Project
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/EESSI/stackinit/pkg/environment"
	"github.com/EESSI/stackinit/pkg/errors"
)

func envCmd() *cli.Command {
	return &cli.Command{
		Name:                  "env",
		EnableShellCompletion: true,
		Usage:                 "Compose the software stack environment for the host",
		Description: `Resolves the host targets and prints the environment variables that
initialize the software stack, as source-able shell script:

  eval "$(stackinit env)"

The composed environment carries the stack version and prefix, the
resolved software and module paths, their host_injections site mirrors,
the compat layer prefix, and accelerator module paths when an
accelerator resolved. Accelerator failures degrade to a warning and the
base environment is still composed.

At most one EasyBuild installation mode may be configured; the cvmfs,
site, project, and user modes are mutually exclusive.

# Examples

Initialize the default stack in the current shell:
  eval "$(stackinit env)"

Compose for csh:
  stackinit env --shell csh

Compose an older stack version with a user installation directory:
  stackinit env --eessi-version 2023.06 --install-user ~/eessi

Inspect the environment as a resource instead of script:
  stackinit env --format yaml`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "shell",
				Value: environment.ShellBash,
				Usage: "Shell dialect to render: bash, sh, zsh, ksh, csh, or tcsh",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Serialize the environment as a resource (json, yaml, or table) instead of rendering script",
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
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			detector := detectorFromCmd(cmd)

			_, res, err := detector.DetectCPU(ctx)
			if err != nil {
				return err
			}

			_, accelRes, err := detector.DetectAccel(ctx, res)
			if err != nil {
				if errors.HasCode(err, errors.ErrCodeInvalidOverride) {
					return err
				}
				// Soft failure: compose the base environment without the
				// accelerator paths.
				slog.Warn("accelerator target unresolved, composing base environment", "error", err)
				accelRes = nil
			}

			env, err := environment.Compose(configFromCmd(cmd), res, accelRes)
			if err != nil {
				return err
			}

			if cmd.String("format") != "" {
				return writeResource(ctx, cmd, env)
			}

			script, err := env.Render(cmd.String("shell"))
			if err != nil {
				return err
			}

			if out := cmd.String("output"); out != "" {
				return os.WriteFile(out, []byte(script), 0o644)
			}
			fmt.Fprint(stdout(cmd), script)
			return nil
		},
	}
}
