// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/HelloBroBro/dvc/cmd/dvc/cli"
)

type addParams struct {
	cli.JSONOutput
}

type addedEntry struct {
	Path  string `json:"path"`
	ID    string `json:"id"`
	Stage string `json:"stage"`
}

func addCommand() *cli.Command {
	var params addParams

	return &cli.Command{
		Name:    "add",
		Summary: "Track files or directories by content hash",
		Usage:   "dvc add <path>... [flags]",
		Description: `Hash each path, store its objects in the local cache, and
write a stage file next to it. Directories are stored as a tree
object plus one object per member file.

The stage file is what gets committed in git; the data itself stays
in the cache.`,
		Examples: []cli.Example{
			{
				Description: "Track a single file",
				Command:     "dvc add model.pkl",
			},
			{
				Description: "Track a directory",
				Command:     "dvc add data/raw",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("add", &params)
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("add requires at least one path")
			}
			ctx := context.Background()
			logger := cli.NewCommandLogger().With("command", "add")

			r, err := openRepo(ctx, "")
			if err != nil {
				return err
			}
			defer r.Close()

			var added []addedEntry
			for _, path := range args {
				stage, err := r.Add(ctx, path)
				if err != nil {
					return fmt.Errorf("adding %s: %w", path, err)
				}
				out := stage.Outs[0]
				added = append(added, addedEntry{
					Path:  out.Path,
					ID:    out.ID.String(),
					Stage: stage.Path,
				})
				logger.Info("tracked", "path", out.Path, "id", out.ID.String())
			}

			if done, err := params.EmitJSON(added); done {
				return err
			}
			for _, entry := range added {
				fmt.Printf("%s  %s\n", entry.ID, entry.Path)
			}
			return nil
		},
	}
}
