/*
Copyright © 2025 The EESSI Project
SPDX-License-Identifier: Apache-2.0
*/
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/EESSI/stackinit/pkg/cli"
)

func main() {
	if err := cli.Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}
