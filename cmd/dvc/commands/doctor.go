// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"github.com/HelloBroBro/dvc/cmd/dvc/cli"
	"github.com/HelloBroBro/dvc/cmd/dvc/cli/doctor"
	"github.com/HelloBroBro/dvc/lib/remote"
	"github.com/HelloBroBro/dvc/lib/repo"
	"github.com/HelloBroBro/dvc/lib/repofs"
)

type doctorParams struct {
	cli.JSONOutput
	Fix    bool `flag:"fix" desc:"attempt to repair failed checks"`
	DryRun bool `flag:"dry-run" desc:"show what --fix would repair without applying"`
}

func doctorCommand() *cli.Command {
	var params doctorParams

	return &cli.Command{
		Name:    "doctor",
		Summary: "Check repository health",
		Usage:   "dvc doctor [flags]",
		Description: `Run health checks against the repository containing the
current directory: config syntax, remote configuration, cache
directory, state database, and stage graph validity. Exit code 1
when any check fails.

Some failures carry an automatic repair; --fix applies them,
--dry-run previews them.`,
		Examples: []cli.Example{
			{
				Description: "Check and repair",
				Command:     "dvc doctor --fix",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("doctor", &params)
		},
		Run: func(args []string) error {
			ctx := context.Background()

			results := runChecks(ctx)
			outcome := doctor.Outcome{}
			if params.Fix || params.DryRun {
				// Record pre-fix failures so checks repaired as a
				// side effect of another fix report as fixed, then
				// re-run the whole suite.
				failed := make(map[string]bool)
				for _, result := range results {
					if result.Status == doctor.StatusFail {
						failed[result.Name] = true
					}
				}
				outcome = doctor.ExecuteFixes(ctx, results, params.DryRun)
				if !params.DryRun && outcome.FixedCount > 0 {
					results = runChecks(ctx)
					doctor.MarkRepaired(results, failed)
				}
			}

			if done, err := params.EmitJSON(doctor.BuildReport(results, params.DryRun, outcome)); done {
				if err != nil {
					return err
				}
				for _, result := range results {
					if result.Status == doctor.StatusFail {
						return &cli.ExitError{Code: 1}
					}
				}
				return nil
			}
			return doctor.PrintChecklist(results, params.Fix, params.DryRun, outcome)
		},
	}
}

// runChecks produces the full check list. Later checks depend on
// earlier ones and are skipped when a prerequisite failed.
func runChecks(ctx context.Context) []doctor.Result {
	var results []doctor.Result

	r, err := repo.Open(ctx, ".")
	if err != nil {
		results = append(results, doctor.Fail("repository", err.Error()))
		for _, name := range []string{"config", "remotes", "cache-dir", "state-db", "stage-graph"} {
			results = append(results, doctor.Skip(name, "no repository"))
		}
		return results
	}
	defer r.Close()
	results = append(results, doctor.Pass("repository", fmt.Sprintf("found at %s", r.Root())))

	// Open already parsed the config; reaching here means it loads.
	results = append(results, doctor.Pass("config", "config parses"))

	results = append(results, checkRemotes(r))

	cacheDir := filepath.FromSlash(repofs.Join(r.Root(), repo.InternalDir, "cache"))
	if info, err := os.Stat(cacheDir); err != nil {
		results = append(results, doctor.FailWithFix("cache-dir",
			"cache directory missing", "create the cache directory",
			func(ctx context.Context) error {
				return os.MkdirAll(cacheDir, 0o755)
			}))
	} else if !info.IsDir() {
		results = append(results, doctor.Fail("cache-dir",
			fmt.Sprintf("%s exists but is not a directory", cacheDir)))
	} else {
		results = append(results, doctor.Pass("cache-dir", "cache directory present"))
	}

	statePath := filepath.FromSlash(repofs.Join(r.Root(), repo.InternalDir, "state.db"))
	if _, err := os.Stat(statePath); err != nil {
		// The state database is created lazily; absence is normal
		// before the first add.
		results = append(results, doctor.Warn("state-db", "state database not yet created"))
	} else {
		results = append(results, doctor.Pass("state-db", "state database present"))
	}

	if _, err := r.Index(); err != nil {
		results = append(results, doctor.Fail("stage-graph", err.Error()))
	} else {
		results = append(results, doctor.Pass("stage-graph", "stage graph valid"))
	}

	return results
}

// checkRemotes verifies every configured remote names a URL whose
// scheme has a registered backend. Unconfigured remotes are fine —
// push fails only when one is actually used.
func checkRemotes(r *repo.Repo) doctor.Result {
	section := r.Config().Section("remote")
	if len(section) == 0 {
		return doctor.Pass("remotes", "no remotes configured")
	}

	registered := make(map[string]bool)
	for _, scheme := range r.RemoteSchemes() {
		registered[scheme] = true
	}

	names := make([]string, 0, len(section))
	for name := range section {
		names = append(names, name)
	}
	sort.Strings(names)

	var problems []string
	for _, name := range names {
		url, ok := r.Config().RemoteURL(name)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s: no url", name))
			continue
		}
		if scheme := remote.SchemeOf(url); !registered[scheme] {
			problems = append(problems, fmt.Sprintf("%s: no backend for scheme %q", name, scheme))
		}
	}
	if len(problems) > 0 {
		return doctor.Fail("remotes", strings.Join(problems, "; "))
	}
	return doctor.Pass("remotes", fmt.Sprintf("%d remote(s) resolvable", len(names)))
}
