// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/HelloBroBro/dvc/cmd/dvc/cli"
)

type pushParams struct {
	Remote string `flag:"remote,r" desc:"remote to push default-scope objects to (default: configured default remote)"`
}

func pushCommand() *cli.Command {
	var params pushParams

	return &cli.Command{
		Name:    "push",
		Summary: "Upload cached objects to remotes",
		Usage:   "dvc push [path]... [flags]",
		Description: `Upload the objects the given paths reference to their
remotes; with no paths, every tracked output is pushed. Outputs
scoped to a named remote in their stage file go there; everything
else goes to --remote or the configured default remote.

Objects already present on the remote are skipped.`,
		Examples: []cli.Example{
			{
				Description: "Push everything to the default remote",
				Command:     "dvc push",
			},
			{
				Description: "Push one dataset to a specific remote",
				Command:     "dvc push data/raw --remote backup",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("push", &params)
		},
		Run: func(args []string) error {
			ctx := context.Background()
			logger := cli.NewCommandLogger().With("command", "push")

			r, err := openRepo(ctx, "")
			if err != nil {
				return err
			}
			defer r.Close()

			transferred, err := r.Push(params.Remote, args...)
			if err != nil {
				return err
			}
			logger.Info("push complete", "transferred", transferred)
			fmt.Printf("%d object(s) transferred.\n", transferred)
			return nil
		},
	}
}
