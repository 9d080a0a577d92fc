/*
Copyright © 2025 The EESSI Project
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/EESSI/stackinit/pkg/serializer"
	"github.com/EESSI/stackinit/pkg/target"
)

// targetListing is the serializable form of the supported target tables.
type targetListing struct {
	CPU   []*target.Table     `json:"cpu" yaml:"cpu"`
	Accel []target.AccelTable `json:"accel" yaml:"accel"`
}

func targetsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "targets",
		EnableShellCompletion: true,
		Usage:                 "List the supported CPU and accelerator targets",
		Description: `Lists every CPU target the built-in tables declare, ordered least
specific first per machine type, together with the known accelerator
target tiers. Site tables given with --table are merged into the
listing the same way the resolver merges them.

# Examples

List everything:
  stackinit targets

List one machine type:
  stackinit targets --machine aarch64

List the AMD targets only:
  stackinit targets --filter 'x86_64/amd/*'

Inspect the merged view of a site table:
  stackinit targets --table /etc/eessi/targets.txt --format yaml`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "machine",
				Usage: "Only list targets for this machine type",
			},
			&cli.StringFlag{
				Name:  "filter",
				Usage: "Only list target paths matching this wildcard pattern (e.g. 'x86_64/*')",
			},
			tableFlag,
			outputFlag,
			&cli.StringFlag{
				Name:  "format",
				Value: "table",
				Usage: "Output format: table, json, or yaml",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			machines, err := target.Machines()
			if err != nil {
				return err
			}

			if m := cmd.String("machine"); m != "" {
				known := false
				for _, have := range machines {
					if have == m {
						known = true
						break
					}
				}
				if !known {
					return fmt.Errorf("unknown machine type %q, did you mean %q?", m, nearestMachine(m, machines))
				}
				machines = []string{m}
			}

			listing := targetListing{}
			for _, m := range machines {
				tbl, err := loadMergedTable(cmd, m)
				if err != nil {
					return err
				}
				if tbl = filterTable(tbl, cmd.String("filter")); tbl != nil {
					listing.CPU = append(listing.CPU, tbl)
				}
			}

			listing.Accel, err = target.AccelTables()
			if err != nil {
				return err
			}

			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}
			if outFormat != serializer.FormatTable {
				return writeResource(ctx, cmd, listing)
			}

			renderTargets(stdout(cmd), listing)
			return nil
		},
	}
}

// loadMergedTable loads the built-in table for a machine type with the site
// table from the --table flag merged in.
func loadMergedTable(cmd *cli.Command, machine string) (*target.Table, error) {
	tbl, err := target.TableFor(machine)
	if err != nil {
		return nil, err
	}

	tablePath := cmd.String("table")
	if tablePath == "" {
		return tbl, nil
	}

	extra, err := target.LoadFlatTable(tablePath)
	if err != nil {
		return nil, err
	}
	if tbl == nil {
		tbl = &target.Table{Machine: machine}
	}
	return target.MergeTable(tbl, extra), nil
}

// filterTable keeps the entries matching the wildcard pattern. Returns nil
// when nothing is left.
func filterTable(tbl *target.Table, pattern string) *target.Table {
	if tbl == nil || pattern == "" {
		return tbl
	}

	out := &target.Table{Machine: tbl.Machine}
	for _, e := range tbl.Entries {
		if target.MatchesPattern(e.Path, pattern) {
			out.Entries = append(out.Entries, e)
		}
	}
	if len(out.Entries) == 0 {
		return nil
	}
	return out
}

// renderTargets prints the listing as terminal tables.
func renderTargets(w io.Writer, listing targetListing) {
	cpu := newListingTable(w, []string{"MACHINE", "TARGET", "VENDOR", "BASED ON"})
	for _, tbl := range listing.CPU {
		for _, e := range tbl.Entries {
			cpu.Append([]string{tbl.Machine, e.Path, orDash(e.Vendor), orDash(e.Parent)})
		}
	}
	cpu.Render()

	if len(listing.Accel) == 0 {
		return
	}

	fmt.Fprintln(w)
	accel := newListingTable(w, []string{"FAMILY", "TIERS"})
	for _, tbl := range listing.Accel {
		accel.Append([]string{tbl.Family, strings.Join(tbl.Tiers, " ")})
	}
	accel.Render()
}

// newListingTable configures a borderless left-aligned table.
func newListingTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetColumnSeparator("")
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	return table
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// nearestMachine returns the known machine type closest to name by edit
// distance.
func nearestMachine(name string, machines []string) string {
	nearest := ""
	score := math.MaxInt
	for _, m := range machines {
		if d := levenshtein.ComputeDistance(name, m); d < score {
			score = d
			nearest = m
		}
	}
	return nearest
}
