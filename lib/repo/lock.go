// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

package repo

import "github.com/HelloBroBro/dvc/lib/index"

// WithLock runs fn inside the repository operation guard. The guard
// is reentrant: nested calls share the outermost acquisition, and
// only the outermost exit marks the cached graph index stale. While
// skip-graph-checks is set the exit leaves the cache intact.
//
// The stale mark is set whether fn succeeds or fails: a failed
// operation may still have mutated stage files on disk.
func (r *Repo) WithLock(fn func() error) error {
	r.lockDepth++
	defer func() {
		r.lockDepth--
		if r.lockDepth == 0 && !r.skipGraphChecks {
			r.idxStale = true
		}
	}()
	return fn()
}

// Index returns the stage graph index, rebuilding it from the
// filesystem when it has never been built or has been marked stale.
// Build errors (parse failures, duplicate outputs, cycles) leave the
// index unbuilt, so every subsequent access re-attempts the build and
// re-raises the error until the tree is fixed.
//
// While skip-graph-checks is set a previously built index is reused
// even when stale; a never-built index is still built once.
func (r *Repo) Index() (*index.Index, error) {
	if r.idx != nil && (!r.idxStale || r.skipGraphChecks) {
		return r.idx, nil
	}
	idx, err := index.Build(r.fs, r.rootDir)
	if err != nil {
		return nil, err
	}
	r.idx = idx
	r.idxStale = false
	return idx, nil
}
