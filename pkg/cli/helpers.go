/*
Copyright © 2025 The EESSI Project
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/EESSI/stackinit/pkg/detect"
	"github.com/EESSI/stackinit/pkg/environment"
	cpuprobe "github.com/EESSI/stackinit/pkg/probe/cpu"
	"github.com/EESSI/stackinit/pkg/serializer"
)

// parseOutputFormat extracts and validates the output format from CLI flags.
// Returns the validated format or an error if the format is unknown.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	outFormat := serializer.Format(cmd.String("format"))
	if outFormat.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, valid formats are: yaml, json, table", outFormat)
	}
	return outFormat, nil
}

// overridesFromEnv reads the documented override variables from the process
// environment. Nothing below the CLI touches the environment directly.
func overridesFromEnv() environment.Overrides {
	return environment.Overrides{
		CPUTarget:         os.Getenv(environment.EnvCPUOverride),
		AccelTarget:       os.Getenv(environment.EnvAccelOverride),
		AccelCPUSubdir:    os.Getenv(environment.EnvAccelSubdirOverride),
		ArchdetectOptions: os.Getenv(environment.EnvArchdetectOptions),
	}
}

// detectorFromCmd builds a detector from the probe flags and the override
// environment.
func detectorFromCmd(cmd *cli.Command) *detect.Detector {
	overrides := overridesFromEnv()
	return &detect.Detector{
		Version: version,
		CPU: cpuprobe.New(
			cpuprobe.WithCPUInfoPath(cmd.String("cpuinfo")),
			cpuprobe.WithMachineType(cmd.String("machine")),
		),
		Options: detect.Options{
			CPUOverride:    overrides.CPUTarget,
			AccelOverride:  overrides.AccelTarget,
			AccelCPUSubdir: overrides.AccelCPUSubdir,
			Allowed:        overrides.ArchdetectOptions,
			TablePath:      cmd.String("table"),
			InstallBase:    cmd.String("install-base"),
		},
	}
}

// configFromCmd builds the stack configuration from the env and check
// command flags.
func configFromCmd(cmd *cli.Command) environment.Config {
	return environment.Config{
		Version: cmd.String("eessi-version"),
		Repo:    cmd.String("repo"),
		OSType:  cmd.String("os-type"),
		Install: environment.Install{
			CVMFS:   cmd.Bool("install-cvmfs"),
			Site:    cmd.Bool("install-site"),
			Project: cmd.String("install-project"),
			User:    cmd.String("install-user"),
		},
	}
}

// writeResource serializes v to the destination selected by the format and
// output flags.
func writeResource(ctx context.Context, cmd *cli.Command, v any) error {
	outFormat, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	ser, err := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
	if err != nil {
		return err
	}
	defer closeSerializer(ser)

	return ser.Serialize(ctx, v)
}

// closeSerializer closes ser when it holds an open file.
func closeSerializer(ser serializer.Serializer) {
	c, ok := ser.(serializer.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		slog.Warn("failed to close serializer", "error", err)
	}
}

// stdout returns the command tree's output writer. Resolution paths and
// rendered scripts go here; logs go to stderr.
func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
