// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"runtime/debug"

	"github.com/HelloBroBro/dvc/cmd/dvc/cli"
)

// Version is the release version, overridden at build time via
// -ldflags "-X .../commands.Version=v1.2.3".
var Version = "dev"

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Run: func(args []string) error {
			revision := ""
			if info, ok := debug.ReadBuildInfo(); ok {
				for _, setting := range info.Settings {
					if setting.Key == "vcs.revision" {
						revision = setting.Value
					}
				}
			}
			if revision != "" {
				fmt.Printf("dvc %s (%s)\n", Version, revision)
			} else {
				fmt.Printf("dvc %s\n", Version)
			}
			return nil
		},
	}
}
