// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/HelloBroBro/dvc/cmd/dvc/cli"
	"github.com/HelloBroBro/dvc/lib/repo"
)

type initParams struct {
	Subdir bool `flag:"subdir" desc:"initialize inside an enclosing repository (monorepo layout)"`
	Force  bool `flag:"force,f" desc:"reinitialize over an existing repository"`
}

func initCommand() *cli.Command {
	var params initParams

	return &cli.Command{
		Name:    "init",
		Summary: "Initialize a repository in the current directory",
		Usage:   "dvc init [directory] [flags]",
		Description: `Create the repository bookkeeping directory and a default
config. With a directory argument, initializes there instead of the
current directory.

Refuses to initialize inside an enclosing repository unless --subdir
is given, and refuses to reinitialize unless --force is given.`,
		Examples: []cli.Example{
			{
				Description: "Initialize in the current directory",
				Command:     "dvc init",
			},
			{
				Description: "Initialize a nested project inside a monorepo",
				Command:     "dvc init project_a --subdir",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("init", &params)
		},
		Run: func(args []string) error {
			directory := "."
			switch len(args) {
			case 0:
			case 1:
				directory = args[0]
			default:
				return fmt.Errorf("init takes at most one directory argument, got %d", len(args))
			}

			r, err := repo.Init(context.Background(), directory, repo.InitOptions{
				Subdir: params.Subdir,
				Force:  params.Force,
			})
			if err != nil {
				return err
			}
			defer r.Close()

			fmt.Printf("Initialized repository at %s\n", r.Root())
			return nil
		},
	}
}
