/*
Copyright © 2025 The EESSI Project
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
)

func cpupathCmd() *cli.Command {
	return &cli.Command{
		Name:                  "cpupath",
		EnableShellCompletion: true,
		Usage:                 "Print the software subdirectory matching the host processor",
		Description: `Probes the host processor and resolves it against the supported target
tables to the most specific software subdirectory, for example
x86_64/amd/zen3. With --all, every compatible subdirectory is printed on
one line, most specific first, colon separated.

Setting EESSI_SOFTWARE_SUBDIR_OVERRIDE forces the result without probing,
and EESSI_ARCHDETECT_OPTIONS restricts the candidates to a colon separated
list of wildcard patterns.

# Examples

Print the best target for this host:
  stackinit cpupath

Print every compatible target:
  stackinit cpupath --all

Resolve a saved processor description instead of the host:
  stackinit cpupath --cpuinfo ./cpuinfo --machine x86_64

A host with no compatible target exits non-zero.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Print every compatible target, most specific first, colon separated",
			},
			cpuinfoFlag,
			machineFlag,
			tableFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			detector := detectorFromCmd(cmd)

			_, res, err := detector.DetectCPU(ctx)
			if err != nil {
				return err
			}

			if cmd.Bool("all") {
				fmt.Fprintln(stdout(cmd), strings.Join(res.Compatible, ":"))
				return nil
			}

			fmt.Fprintln(stdout(cmd), res.Best)
			return nil
		},
	}
}
