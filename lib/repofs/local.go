// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

package repofs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Local is the live working-tree filesystem. Paths are absolute
// slash-separated paths mapped directly onto the host filesystem.
type Local struct{}

// NewLocal returns the live-tree filesystem.
func NewLocal() *Local {
	return &Local{}
}

// Root returns "/". The live filesystem is rooted at the machine
// root, so a repo nested anywhere in the tree has a non-empty
// subrepo relpath against it only when compared to an enclosing
// monorepo root, not against Root itself.
func (l *Local) Root() string {
	return "/"
}

// ReadFile reads the file at path.
func (l *Local) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(filepath.FromSlash(path))
}

// ReadDir lists the immediate entries of path, sorted by name.
func (l *Local) ReadDir(path string) ([]Entry, error) {
	osEntries, err := os.ReadDir(filepath.FromSlash(path))
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(osEntries))
	for _, osEntry := range osEntries {
		entries = append(entries, Entry{
			Name:  osEntry.Name(),
			IsDir: osEntry.IsDir(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Stat returns metadata for path.
func (l *Local) Stat(path string) (Info, error) {
	fileInfo, err := os.Stat(filepath.FromSlash(path))
	if err != nil {
		return Info{}, err
	}
	return Info{
		IsDir:   fileInfo.IsDir(),
		Size:    fileInfo.Size(),
		ModTime: fileInfo.ModTime(),
	}, nil
}

// Exists reports whether path exists.
func (l *Local) Exists(path string) bool {
	_, err := os.Stat(filepath.FromSlash(path))
	return err == nil
}

// Abs normalizes an OS path (possibly relative) into the absolute
// slash-separated form used with Local.
func Abs(p string) (string, error) {
	absolute, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path of %q: %w", p, err)
	}
	return Normalize(absolute), nil
}
