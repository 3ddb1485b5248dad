// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

// Package repofs defines the filesystem capability the engine is
// written against, with two conforming implementations: [Local] for
// the live working tree and [GitFileSystem] for a read-only view of
// a historical revision. Graph building, hashing, and resolution are
// written once against [FS] and never branch on which variant is
// active.
//
// All paths crossing the FS boundary are absolute and slash-separated
// regardless of platform. For a GitFileSystem the root is always "/"
// and paths are virtual; for Local they map to real filesystem paths.
package repofs

import (
	"time"
)

// Entry is one directory entry: its name relative to the listed
// directory, and whether it is itself a directory.
type Entry struct {
	Name  string
	IsDir bool
}

// Info is the stat subset the engine consumes. ModTime and Size are
// zero on filesystems that do not track them (revision-backed views).
type Info struct {
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// FS is the filesystem capability interface. Implementations must be
// safe for concurrent readers. Reads are synchronous; any retry or
// timeout policy belongs to the implementation, invisible to callers.
type FS interface {
	// ReadFile returns the entire content of the file at path.
	ReadFile(path string) ([]byte, error)

	// ReadDir lists the immediate entries of the directory at path,
	// sorted by name.
	ReadDir(path string) ([]Entry, error)

	// Stat returns metadata for path.
	Stat(path string) (Info, error)

	// Exists reports whether path exists.
	Exists(path string) bool

	// Root returns the filesystem root path.
	Root() string
}

// Walk visits every file under root in deterministic name-sorted
// order, calling fn with the full path and stat info of each entry
// (directories included, visited before their contents). fn returning
// [SkipDir] for a directory skips its contents.
func Walk(fsys FS, root string, fn func(path string, info Info) error) error {
	info, err := fsys.Stat(root)
	if err != nil {
		return err
	}
	return walk(fsys, root, info, fn)
}

// SkipDir is returned by a Walk callback to skip a directory's
// contents without aborting the walk.
var SkipDir = errSkipDir{}

type errSkipDir struct{}

func (errSkipDir) Error() string { return "skip directory" }

func walk(fsys FS, path string, info Info, fn func(string, Info) error) error {
	if err := fn(path, info); err != nil {
		if err == SkipDir && info.IsDir {
			return nil
		}
		return err
	}
	if !info.IsDir {
		return nil
	}
	entries, err := fsys.ReadDir(path)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		child := Join(path, entry.Name)
		childInfo, err := fsys.Stat(child)
		if err != nil {
			return err
		}
		if err := walk(fsys, child, childInfo, fn); err != nil {
			return err
		}
	}
	return nil
}
