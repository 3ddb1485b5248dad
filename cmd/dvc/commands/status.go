// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/HelloBroBro/dvc/cmd/dvc/cli"
)

type statusParams struct {
	cli.JSONOutput
	Strict bool   `flag:"strict" desc:"exact path matches only"`
	Rev    string `flag:"rev" desc:"query the stage graph of a git revision"`
}

type outEntry struct {
	Query string `json:"query"`
	Path  string `json:"path"`
	ID    string `json:"id,omitempty"`
	IsDir bool   `json:"is_dir,omitempty"`
	Stage string `json:"stage"`
}

func statusCommand() *cli.Command {
	var params statusParams

	return &cli.Command{
		Name:    "status",
		Summary: "Resolve paths to the tracked outputs that cover them",
		Usage:   "dvc status <path>... [flags]",
		Description: `For each path, list the tracked outputs it touches and the
stage files that declare them. A path inside a tracked directory
resolves to that directory's output; a directory path resolves to
every output beneath it. With --strict, only exact matches count.

With --rev, the query runs against the stage graph of that git
revision instead of the working tree.`,
		Examples: []cli.Example{
			{
				Description: "Which output covers this file?",
				Command:     "dvc status data/raw/day1.csv",
			},
			{
				Description: "Query a historical revision",
				Command:     "dvc status data/raw --rev v1.2",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("status", &params)
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("status requires at least one path")
			}
			ctx := context.Background()

			r, err := openRepo(ctx, params.Rev)
			if err != nil {
				return err
			}
			defer r.Close()

			var entries []outEntry
			for _, path := range args {
				refs, err := r.FindOutsByPath(path, params.Strict)
				if err != nil {
					return err
				}
				for _, ref := range refs {
					entry := outEntry{
						Query: path,
						Path:  ref.Out.Path,
						IsDir: ref.Out.IsDir,
						Stage: ref.Stage.Ident(),
					}
					if !ref.Out.ID.IsZero() {
						entry.ID = ref.Out.ID.String()
					}
					entries = append(entries, entry)
				}
			}

			if done, err := params.EmitJSON(entries); done {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No tracked outputs match.")
				return &cli.ExitError{Code: 1}
			}
			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			for _, entry := range entries {
				id := entry.ID
				if id == "" {
					id = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", entry.Path, id, entry.Stage)
			}
			return tw.Flush()
		},
	}
}
