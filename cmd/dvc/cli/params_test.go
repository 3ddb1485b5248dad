// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

type pushParamsFixture struct {
	Remote   string `flag:"remote,r" desc:"remote name"    default:"origin"`
	Strict   bool   `flag:"strict"   desc:"exact matches"`
	Force    bool   `flag:"force,f"  desc:"skip checks"    default:"false"`
	Untagged string
}

func TestBindFlagsTaggedFields(t *testing.T) {
	t.Parallel()

	var params pushParamsFixture
	flagSet := FlagsFromParams("push", &params)

	if err := flagSet.Parse([]string{"-r", "backup", "--strict"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if params.Remote != "backup" {
		t.Errorf("Remote = %q, want backup", params.Remote)
	}
	if !params.Strict {
		t.Error("Strict = false, want true")
	}
	if params.Force {
		t.Error("Force = true, want false")
	}
}

func TestBindFlagsDefaults(t *testing.T) {
	t.Parallel()

	var params pushParamsFixture
	flagSet := FlagsFromParams("push", &params)
	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if params.Remote != "origin" {
		t.Errorf("Remote default = %q, want origin", params.Remote)
	}
}

func TestBindFlagsUntaggedSkipped(t *testing.T) {
	t.Parallel()

	var params pushParamsFixture
	flagSet := FlagsFromParams("push", &params)
	if flagSet.Lookup("Untagged") != nil || flagSet.Lookup("untagged") != nil {
		t.Error("untagged field was bound")
	}
}

type embeddedParams struct {
	JSONOutput
	Rev string `flag:"rev" desc:"revision"`
}

func TestBindFlagsEmbedded(t *testing.T) {
	t.Parallel()

	var params embeddedParams
	flagSet := FlagsFromParams("status", &params)
	if err := flagSet.Parse([]string{"--json", "--rev", "main"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !params.OutputJSON {
		t.Error("embedded --json flag was not bound")
	}
	if params.Rev != "main" {
		t.Errorf("Rev = %q, want main", params.Rev)
	}
}

func TestBindFlagsRejectsNonPointer(t *testing.T) {
	t.Parallel()

	flagSet := pflag.NewFlagSet("push", pflag.ContinueOnError)
	if err := BindFlags(pushParamsFixture{}, flagSet); err == nil {
		t.Fatal("BindFlags of non-pointer succeeded, want error")
	}
}

func TestBindFlagsRejectsUnsupportedType(t *testing.T) {
	t.Parallel()

	var params struct {
		Jobs int `flag:"jobs" desc:"parallelism"`
	}
	flagSet := pflag.NewFlagSet("push", pflag.ContinueOnError)
	if err := BindFlags(&params, flagSet); err == nil {
		t.Fatal("BindFlags of unsupported field type succeeded, want error")
	}
}
