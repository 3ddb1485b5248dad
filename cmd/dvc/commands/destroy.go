// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/HelloBroBro/dvc/cmd/dvc/cli"
)

type destroyParams struct {
	Force bool `flag:"force,f" desc:"confirm removal of the repository bookkeeping"`
}

func destroyCommand() *cli.Command {
	var params destroyParams

	return &cli.Command{
		Name:    "destroy",
		Summary: "Remove repository bookkeeping (cache included)",
		Usage:   "dvc destroy --force",
		Description: `De-initialize the repository containing the current
directory: remove the bookkeeping directory, including the local
object cache and state database. Tracked working-tree files and
stage files are left in place.

Destructive. Requires --force.`,
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("destroy", &params)
		},
		Run: func(args []string) error {
			if !params.Force {
				return fmt.Errorf("destroy removes the object cache; pass --force to confirm")
			}

			r, err := openRepo(context.Background(), "")
			if err != nil {
				return err
			}
			root := r.Root()
			if err := r.Destroy(); err != nil {
				return err
			}
			fmt.Printf("Removed repository bookkeeping at %s\n", root)
			return nil
		},
	}
}
