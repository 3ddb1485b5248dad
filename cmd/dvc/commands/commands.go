// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the dvc CLI command tree. Each command
// wraps an operation of [repo.Repo]; the CLI layer owns flag parsing
// and output formatting, nothing else.
package commands

import (
	"context"

	"github.com/HelloBroBro/dvc/cmd/dvc/cli"
	"github.com/HelloBroBro/dvc/lib/repo"
)

// Root builds and returns the complete dvc CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "dvc",
		Description: `dvc: content-addressed data versioning.

Tracks files and directories by content hash alongside a git
repository. Tracked data lives in a local object cache and is
described by small stage files that are committed in git; push
uploads cached objects to configured remotes.`,
		Subcommands: []*cli.Command{
			initCommand(),
			addCommand(),
			statusCommand(),
			objectsCommand(),
			pushCommand(),
			doctorCommand(),
			destroyCommand(),
			versionCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Initialize a repository and track a dataset",
				Command:     "dvc init && dvc add data/raw",
			},
			{
				Description: "Resolve a path to the outputs that cover it",
				Command:     "dvc status data/raw/day1.csv",
			},
			{
				Description: "Upload all tracked objects to the default remote",
				Command:     "dvc push",
			},
		},
	}
}

// openRepo opens the repository containing the working directory,
// pinned to rev when non-empty.
func openRepo(ctx context.Context, rev string) (*repo.Repo, error) {
	var options []repo.Option
	if rev != "" {
		options = append(options, repo.WithRev(rev))
	}
	return repo.Open(ctx, ".", options...)
}
