// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/pflag"

	"github.com/HelloBroBro/dvc/cmd/dvc/cli"
)

type objectsParams struct {
	cli.JSONOutput
	Rev string `flag:"rev" desc:"query the stage graph of a git revision"`
}

func objectsCommand() *cli.Command {
	var params objectsParams

	return &cli.Command{
		Name:    "objects",
		Summary: "List the cache objects the given paths reference",
		Usage:   "dvc objects [path]... [flags]",
		Description: `Collect the object identifiers the given paths reference,
grouped by remote scope. With no paths, every tracked output is
included. Directory outputs contribute their tree object plus the
file objects under the queried sub-path.

This is the set push would transfer and garbage collection would
retain.`,
		Examples: []cli.Example{
			{
				Description: "Objects referenced by one file inside a tracked directory",
				Command:     "dvc objects data/raw/day1.csv",
			},
			{
				Description: "Everything, as JSON",
				Command:     "dvc objects --json",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("objects", &params)
		},
		Run: func(args []string) error {
			ctx := context.Background()

			r, err := openRepo(ctx, params.Rev)
			if err != nil {
				return err
			}
			defer r.Close()

			if len(args) == 0 {
				args = []string{"."}
			}
			used, err := r.UsedObjects(args...)
			if err != nil {
				return err
			}

			// Deterministic output: scopes and identifiers sorted.
			grouped := make(map[string][]string, len(used))
			var scopes []string
			for scope, ids := range used {
				for id := range ids {
					grouped[scope] = append(grouped[scope], id.String())
				}
				sort.Strings(grouped[scope])
				scopes = append(scopes, scope)
			}
			sort.Strings(scopes)

			if done, err := params.EmitJSON(grouped); done {
				return err
			}
			for _, scope := range scopes {
				label := scope
				if label == "" {
					label = "(default)"
				}
				fmt.Printf("%s:\n", label)
				for _, id := range grouped[scope] {
					fmt.Printf("  %s\n", id)
				}
			}
			return nil
		},
	}
}
