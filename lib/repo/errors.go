// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

package repo

import "fmt"

// NotRepositoryError reports that no repository marker was found at
// or above a path. When the search ran against a historical
// revision, Rev names it — a marker present on another revision or
// on the live tree does not satisfy the search.
type NotRepositoryError struct {
	Path string
	Rev  string
}

func (e *NotRepositoryError) Error() string {
	if e.Rev != "" {
		return fmt.Sprintf("%s is not a repository on revision %s", e.Path, e.Rev)
	}
	return fmt.Sprintf("%s is not part of a repository", e.Path)
}
