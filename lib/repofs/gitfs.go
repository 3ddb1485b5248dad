// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

package repofs

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"github.com/HelloBroBro/dvc/lib/gitcli"
)

// GitFileSystem serves the tree of a single revision, read-only,
// rooted at "/". A path like "/project_a/data.dvc" maps to the tree
// path "project_a/data.dvc" on the pinned revision. The revision is
// resolved to a commit hash at construction time, so the view is
// stable even if the underlying ref moves.
type GitFileSystem struct {
	repo *gitcli.Repository
	rev  string

	// ctx bounds all git invocations made through this filesystem.
	// The FS interface is synchronous and context-free; the opener
	// decides the lifetime.
	ctx context.Context
}

// NewGitFileSystem pins a revision of the given repository and
// returns a read-only filesystem over its tree.
func NewGitFileSystem(ctx context.Context, repo *gitcli.Repository, rev string) (*GitFileSystem, error) {
	commit, err := repo.RevParse(ctx, rev)
	if err != nil {
		return nil, err
	}
	return &GitFileSystem{repo: repo, rev: commit, ctx: ctx}, nil
}

// Rev returns the pinned commit hash.
func (g *GitFileSystem) Rev() string {
	return g.rev
}

// Root returns "/".
func (g *GitFileSystem) Root() string {
	return "/"
}

// treePath converts an absolute virtual path to a git tree path.
func (g *GitFileSystem) treePath(path string) string {
	return strings.TrimPrefix(Normalize(path), "/")
}

// ReadFile reads the blob at path on the pinned revision.
func (g *GitFileSystem) ReadFile(path string) ([]byte, error) {
	content, err := g.repo.ReadBlob(g.ctx, g.rev, g.treePath(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fs.ErrNotExist, err)
	}
	return content, nil
}

// ReadDir lists the immediate entries of the tree at path.
func (g *GitFileSystem) ReadDir(path string) ([]Entry, error) {
	treeEntries, err := g.repo.ListTree(g.ctx, g.rev, g.treePath(path))
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(treeEntries))
	for _, treeEntry := range treeEntries {
		entries = append(entries, Entry{Name: treeEntry.Name, IsDir: treeEntry.IsDir})
	}
	return entries, nil
}

// Stat returns metadata for path. Size and ModTime are zero: tree
// objects carry neither, and nothing that hashes content relies on
// stat shortcuts for revision-backed views.
func (g *GitFileSystem) Stat(path string) (Info, error) {
	tree := g.treePath(path)
	if tree == "" || tree == "." {
		return Info{IsDir: true}, nil
	}
	exists, err := g.repo.PathExists(g.ctx, g.rev, tree)
	if err != nil {
		return Info{}, err
	}
	if !exists {
		return Info{}, fmt.Errorf("%s on %s: %w", path, g.rev, fs.ErrNotExist)
	}

	// A path is a directory exactly when ls-tree of it succeeds
	// with the path itself addressed as a tree. Listing the parent
	// and matching the entry avoids a second process spawn for the
	// common file case only at the cost of one here; parent listing
	// is what git gives us cheaply.
	parent, name := splitParent(tree)
	entries, err := g.repo.ListTree(g.ctx, g.rev, parent)
	if err != nil {
		return Info{}, err
	}
	for _, entry := range entries {
		if entry.Name == name {
			return Info{IsDir: entry.IsDir}, nil
		}
	}
	return Info{}, fmt.Errorf("%s on %s: %w", path, g.rev, fs.ErrNotExist)
}

// Exists reports whether path exists on the pinned revision.
func (g *GitFileSystem) Exists(path string) bool {
	tree := g.treePath(path)
	if tree == "" || tree == "." {
		return true
	}
	exists, err := g.repo.PathExists(g.ctx, g.rev, tree)
	return err == nil && exists
}

func splitParent(treePath string) (parent, name string) {
	index := strings.LastIndexByte(treePath, '/')
	if index < 0 {
		return "", treePath
	}
	return treePath[:index], treePath[index+1:]
}
