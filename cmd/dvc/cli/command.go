// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command is one node of the CLI tree: a group (Subcommands set) or
// a leaf (Run set).
type Command struct {
	// Name as typed by the user, e.g. "add".
	Name string

	// Summary is the one-liner shown in the parent's command listing.
	Summary string

	// Description is the long help text shown by --help.
	Description string

	// Usage overrides the synthesized usage line, e.g.
	// "dvc add <path>... [flags]".
	Usage string

	// Examples are appended to the help output.
	Examples []Example

	// Flags builds the command's flag set. Called fresh for each
	// parse so state never leaks between invocations. Nil means no
	// flags.
	Flags func() *pflag.FlagSet

	// Subcommands dispatched by the first positional argument.
	Subcommands []*Command

	// Run executes a leaf command with the positional arguments left
	// after flag parsing.
	Run func(args []string) error

	// parent is set during dispatch; fullName walks it.
	parent *Command
}

// Example is one usage example in help output.
type Example struct {
	Description string
	Command     string
}

// Execute dispatches args against the command tree: help flags,
// subcommand lookup, flag parsing, then Run.
func (c *Command) Execute(args []string) error {
	if len(args) > 0 && isHelpFlag(args[0]) {
		c.PrintHelp(os.Stderr)
		return nil
	}

	if len(c.Subcommands) > 0 {
		if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
			return c.dispatch(args)
		}
		if c.Run == nil {
			c.PrintHelp(os.Stderr)
			return fmt.Errorf("subcommand required")
		}
	}

	if c.Flags != nil {
		rest, err := c.parseFlags(args)
		if err != nil {
			return err
		}
		args = rest
	}

	if c.Run == nil {
		c.PrintHelp(os.Stderr)
		return fmt.Errorf("no action defined for %q", c.fullName())
	}
	return c.Run(args)
}

// dispatch resolves args[0] to a subcommand, suggesting the closest
// name on a miss.
func (c *Command) dispatch(args []string) error {
	name := args[0]
	for _, sub := range c.Subcommands {
		if sub.Name == name {
			sub.parent = c
			return sub.Execute(args[1:])
		}
	}

	if suggestion := suggestCommand(name, c.Subcommands); suggestion != "" {
		return fmt.Errorf("unknown command %q (did you mean %q?)\n\nRun '%s --help' for usage.",
			name, suggestion, c.fullName())
	}
	return fmt.Errorf("unknown command %q\n\nRun '%s --help' for usage.",
		name, c.fullName())
}

// parseFlags parses args through the command's flag set and returns
// the positional remainder. pflag's own error output is suppressed;
// errors are reformatted with a typo suggestion when one exists.
func (c *Command) parseFlags(args []string) ([]string, error) {
	flagSet := c.Flags()
	flagSet.SetOutput(io.Discard)

	err := flagSet.Parse(args)
	if err == nil {
		return flagSet.Args(), nil
	}
	if strings.Contains(err.Error(), "unknown flag") {
		// Suggest against a fresh flag set; the failed parse may
		// have half-consumed this one.
		if suggestion := suggestFlag(args, c.Flags()); suggestion != "" {
			return nil, fmt.Errorf("%s (did you mean %s?)\n\nRun '%s --help' for usage.",
				err, suggestion, c.fullName())
		}
	}
	return nil, fmt.Errorf("%s\n\nRun '%s --help' for usage.", err, c.fullName())
}

// PrintHelp writes the command's help text to w.
func (c *Command) PrintHelp(w io.Writer) {
	name := c.fullName()

	switch {
	case c.Description != "":
		fmt.Fprintf(w, "%s\n\n", c.Description)
	case c.Summary != "":
		fmt.Fprintf(w, "%s\n\n", c.Summary)
	}

	switch {
	case c.Usage != "":
		fmt.Fprintf(w, "Usage:\n  %s\n", c.Usage)
	case len(c.Subcommands) > 0:
		fmt.Fprintf(w, "Usage:\n  %s <command> [flags]\n", name)
	default:
		fmt.Fprintf(w, "Usage:\n  %s [flags]\n", name)
	}

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nCommands:\n")
		tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
		for _, sub := range c.Subcommands {
			fmt.Fprintf(tw, "  %s\t%s\n", sub.Name, sub.Summary)
		}
		tw.Flush()
	}

	if c.Flags != nil {
		flagSet := c.Flags()
		var defaults strings.Builder
		flagSet.SetOutput(&defaults)
		flagSet.PrintDefaults()
		if defaults.Len() > 0 {
			fmt.Fprintf(w, "\nFlags:\n%s", defaults.String())
		}
	}

	if len(c.Examples) > 0 {
		fmt.Fprintf(w, "\nExamples:\n")
		for _, example := range c.Examples {
			if example.Description != "" {
				fmt.Fprintf(w, "  # %s\n", example.Description)
			}
			fmt.Fprintf(w, "  %s\n", example.Command)
			if example.Description != "" {
				fmt.Fprintln(w)
			}
		}
	}

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nRun '%s <command> --help' for more information on a command.\n", name)
	}
}

// fullName is the full path of the command, e.g. "dvc remote add".
func (c *Command) fullName() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.fullName() + " " + c.Name
}

func isHelpFlag(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "help"
}
