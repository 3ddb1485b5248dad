// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

// Package gitcli provides typed access to the git CLI for the
// version-control capabilities the engine consumes: resolving refs,
// reading trees and blobs at a revision, and checking out refs. All
// commands target a specific repository directory via the -C flag,
// which is automatically injected by all Repository methods. The
// engine never parses .git internals itself.
package gitcli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Repository represents a git repository at a specific directory. All
// operations target this directory via "git -C <dir>". There is no
// default directory — callers must always specify which repository
// they mean.
type Repository struct {
	dir string
}

// NewRepository returns a Repository targeting the given directory.
func NewRepository(dir string) *Repository {
	return &Repository{dir: dir}
}

// Dir returns the repository directory.
func (r *Repository) Dir() string {
	return r.dir
}

// Run executes a git command targeting this repository and returns
// stdout. Stderr is captured separately and included in error messages
// on failure.
func (r *Repository) Run(ctx context.Context, args ...string) (string, error) {
	fullArgs := append([]string{"-C", r.dir}, args...)
	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, "git", fullArgs...)
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return "", fmt.Errorf("git %s in %s: %w (stderr: %s)",
			strings.Join(args, " "), r.dir, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// TopLevel returns the absolute path of the working tree root that
// contains the repository directory.
func (r *Repository) TopLevel(ctx context.Context) (string, error) {
	out, err := r.Run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// RevParse resolves a revision expression (branch, tag, commit-ish)
// to a full commit hash.
func (r *Repository) RevParse(ctx context.Context, rev string) (string, error) {
	out, err := r.Run(ctx, "rev-parse", "--verify", rev+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("resolving revision %q: %w", rev, err)
	}
	return strings.TrimSpace(out), nil
}

// Checkout checks out the given ref in the working tree.
func (r *Repository) Checkout(ctx context.Context, ref string) error {
	if _, err := r.Run(ctx, "checkout", ref); err != nil {
		return fmt.Errorf("checking out %q: %w", ref, err)
	}
	return nil
}

// ReadBlob returns the content of the file at treePath as of rev.
// treePath is slash-separated and relative to the repository root.
// Returns an error wrapping the git failure when the path does not
// exist on that revision.
func (r *Repository) ReadBlob(ctx context.Context, rev, treePath string) ([]byte, error) {
	fullArgs := []string{"-C", r.dir, "cat-file", "blob", rev + ":" + treePath}
	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, "git", fullArgs...)
	command.Stdout = &stdout
	command.Stderr = &stderr
	if err := command.Run(); err != nil {
		return nil, fmt.Errorf("git cat-file %s:%s in %s: %w (stderr: %s)",
			rev, treePath, r.dir, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// TreeEntry is one entry of a tree listing at a revision.
type TreeEntry struct {
	// Name is the entry name relative to the listed directory.
	Name string

	// IsDir reports whether the entry is a subtree.
	IsDir bool
}

// ListTree lists the immediate entries of the directory at treePath
// as of rev, in the order git reports them (name-sorted). An empty
// treePath lists the root tree.
func (r *Repository) ListTree(ctx context.Context, rev, treePath string) ([]TreeEntry, error) {
	spec := rev
	if treePath != "" {
		spec = rev + ":" + treePath
	}
	out, err := r.Run(ctx, "ls-tree", "-z", spec)
	if err != nil {
		return nil, fmt.Errorf("listing tree %s:%s: %w", rev, treePath, err)
	}

	var entries []TreeEntry
	for _, line := range strings.Split(out, "\x00") {
		if line == "" {
			continue
		}
		// Format: "<mode> <type> <hash>\t<name>".
		meta, name, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("malformed ls-tree line %q", line)
		}
		fields := strings.Fields(meta)
		if len(fields) < 2 {
			return nil, fmt.Errorf("malformed ls-tree line %q", line)
		}
		entries = append(entries, TreeEntry{
			Name:  name,
			IsDir: fields[1] == "tree",
		})
	}
	return entries, nil
}

// PathExists reports whether treePath exists (as blob or tree) on rev.
func (r *Repository) PathExists(ctx context.Context, rev, treePath string) (bool, error) {
	spec := rev
	if treePath != "" {
		spec = rev + ":" + treePath
	}
	fullArgs := []string{"-C", r.dir, "cat-file", "-e", spec}
	command := exec.CommandContext(ctx, "git", fullArgs...)
	if err := command.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, fmt.Errorf("git cat-file -e %s in %s: %w", spec, r.dir, err)
	}
	return true, nil
}
