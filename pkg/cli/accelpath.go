/*
Copyright © 2025 The EESSI Project
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/EESSI/stackinit/pkg/target"
)

func accelpathCmd() *cli.Command {
	return &cli.Command{
		Name:                  "accelpath",
		EnableShellCompletion: true,
		Usage:                 "Print the accelerator target subdirectory for the host GPU",
		Description: `Probes the host accelerator devices and prints the accelerator target
subdirectory, for example accel/nvidia/cc80. A host without accelerators
prints nothing and exits zero.

With --install-base, the resolved target is checked against the installed
software tree; when the exact tier directory is missing, one lower
installed tier is substituted and a notice is logged. Without it the
target derived from the device is printed as is.

Setting EESSI_ACCELERATOR_TARGET_OVERRIDE forces the result without
probing. EESSI_ACCEL_SOFTWARE_SUBDIR_OVERRIDE repoints the install check
at another CPU subdirectory for hosts whose accelerator stack targets a
newer microarchitecture than the base stack.

# Examples

Print the accelerator target for this host:
  stackinit accelpath

Check the target against the installed tree:
  stackinit accelpath --install-base /cvmfs/software.eessi.io/versions/2025.06/software/linux`,
		Flags: []cli.Flag{
			cpuinfoFlag,
			machineFlag,
			tableFlag,
			installBaseFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			detector := detectorFromCmd(cmd)

			// The install check hangs off the CPU subdirectory, so the CPU
			// side only runs when a base was given.
			var cpuRes *target.Resolution
			if cmd.String("install-base") != "" {
				var err error
				_, cpuRes, err = detector.DetectCPU(ctx)
				if err != nil {
					return err
				}
			}

			_, res, err := detector.DetectAccel(ctx, cpuRes)
			if err != nil {
				return err
			}
			if res == nil {
				// No accelerator on this host.
				return nil
			}

			fmt.Fprintln(stdout(cmd), res.Path)
			return nil
		},
	}
}
