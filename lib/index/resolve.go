// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"sort"

	"github.com/HelloBroBro/dvc/lib/repofs"
)

// FindOutsByPath returns the outputs matching path, with their
// owning stages. In strict mode only exact path equality matches. In
// non-strict mode an output also matches when the queried path lies
// inside a directory output, or when the output lies inside the
// queried directory — the "what touches this subtree" query.
//
// An empty result is a valid answer, not an error. Results are
// sorted by output path for deterministic iteration.
func (idx *Index) FindOutsByPath(path string, strict bool) []OutRef {
	path = repofs.Normalize(path)

	var matches []OutRef
	for outPath, ref := range idx.outs {
		switch {
		case outPath == path:
			matches = append(matches, ref)
		case strict:
			// Exact match only.
		case repofs.Contains(outPath, path) || repofs.Contains(path, outPath):
			matches = append(matches, ref)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Out.Path < matches[j].Out.Path
	})
	return matches
}
