/*
Copyright © 2025 The EESSI Project
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/EESSI/stackinit/pkg/environment"
	"github.com/EESSI/stackinit/pkg/logging"
	cpuprobe "github.com/EESSI/stackinit/pkg/probe/cpu"
	ver "github.com/EESSI/stackinit/pkg/version"
)

// version stamps serialized resources and the version command output.
var version = ver.String()

// Flags shared across commands.
var (
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:  "format",
		Value: "json",
		Usage: "Output format: json, yaml, or table",
	}

	cpuinfoFlag = &cli.StringFlag{
		Name:  "cpuinfo",
		Value: cpuprobe.DefaultCPUInfoPath,
		Usage: "Processor description file to probe",
	}

	machineFlag = &cli.StringFlag{
		Name:  "machine",
		Usage: "Machine type to resolve for (default: the host machine type)",
	}

	tableFlag = &cli.StringFlag{
		Name:  "table",
		Usage: "Flat text target table merged over the built-in tables",
	}

	installBaseFlag = &cli.StringFlag{
		Name:  "install-base",
		Usage: "Software tree directory for accelerator install checks (e.g. /cvmfs/software.eessi.io/versions/2025.06/software/linux)",
	}
)

// Stack configuration flags shared by the env and check commands.
var (
	stackVersionFlag = &cli.StringFlag{
		Name:    "eessi-version",
		Aliases: []string{"V"},
		Value:   environment.DefaultVersion,
		Usage:   "Software stack version",
	}

	repoFlag = &cli.StringFlag{
		Name:  "repo",
		Value: environment.DefaultRepo,
		Usage: "CVMFS repository mount point",
	}

	osTypeFlag = &cli.StringFlag{
		Name:  "os-type",
		Value: environment.DefaultOSType,
		Usage: "Operating system layer of the stack tree",
	}

	installCVMFSFlag = &cli.BoolFlag{
		Name:  "install-cvmfs",
		Usage: "Configure EasyBuild installations to target the CVMFS stack itself (stack maintainers only)",
	}

	installSiteFlag = &cli.BoolFlag{
		Name:  "install-site",
		Usage: "Configure EasyBuild installations to target the site host_injections mirror",
	}

	installProjectFlag = &cli.StringFlag{
		Name:  "install-project",
		Usage: "Shared directory for group-local EasyBuild installations",
	}

	installUserFlag = &cli.StringFlag{
		Name:  "install-user",
		Usage: "Personal directory for user-local EasyBuild installations",
	}
)

// New assembles the stackinit command tree.
func New() *cli.Command {
	return &cli.Command{
		Name:                  "stackinit",
		Usage:                 "Resolve hardware targets and initialize the software stack environment",
		Version:               version,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "Log verbosity: debug, info, warn, or error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: logging.FormatText,
				Usage: "Log output format: text or json",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level, ok := logging.ParseLevel(cmd.String("log-level"))
			if !ok {
				return ctx, fmt.Errorf("unknown log level: %q, valid levels are: debug, info, warn, error", cmd.String("log-level"))
			}
			logging.SetDefaultStructuredLogger("stackinit", version,
				logging.WithLevel(level),
				logging.WithFormat(cmd.String("log-format")),
			)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cpupathCmd(),
			accelpathCmd(),
			detectCmd(),
			envCmd(),
			targetsCmd(),
			checkCmd(),
			versionCmd(),
		},
	}
}

// Run executes the stackinit command tree against the given arguments.
func Run(ctx context.Context, args []string) error {
	return New().Run(ctx, args)
}
