package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	ver "github.com/EESSI/stackinit/pkg/version"
)

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Flags: []cli.Flag{
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return writeResource(ctx, cmd, ver.Get())
		},
	}
}
