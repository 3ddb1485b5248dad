// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

package repofs

import (
	gopath "path"
	"path/filepath"
	"strings"
)

// Normalize converts an OS path to the slash-separated, cleaned form
// used throughout the engine.
func Normalize(p string) string {
	return gopath.Clean(filepath.ToSlash(p))
}

// Join joins slash-separated path elements and cleans the result.
func Join(elements ...string) string {
	return gopath.Join(elements...)
}

// Contains reports whether child is parent itself or nested anywhere
// below it. Both paths must already be normalized.
func Contains(parent, child string) bool {
	if parent == child {
		return true
	}
	if parent == "/" {
		return strings.HasPrefix(child, "/")
	}
	return strings.HasPrefix(child, parent+"/")
}

// Rel returns the path of child relative to parent, or "" when they
// are equal. Pure path arithmetic: no filesystem access, so it
// behaves identically for live and revision-backed roots. Returns
// ok=false when child is not under parent.
func Rel(parent, child string) (string, bool) {
	parent = Normalize(parent)
	child = Normalize(child)
	if parent == child {
		return "", true
	}
	if !Contains(parent, child) {
		return "", false
	}
	if parent == "/" {
		return strings.TrimPrefix(child, "/"), true
	}
	return strings.TrimPrefix(child, parent+"/"), true
}
