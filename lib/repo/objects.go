// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

package repo

import (
	"context"
	"fmt"
	"sort"

	"github.com/HelloBroBro/dvc/lib/hashfile"
	"github.com/HelloBroBro/dvc/lib/index"
	"github.com/HelloBroBro/dvc/lib/objectid"
	"github.com/HelloBroBro/dvc/lib/repofs"
	"github.com/HelloBroBro/dvc/lib/stagefile"
)

// IDSet is a set of object identifiers.
type IDSet map[objectid.ID]struct{}

// FindOutsByPath resolves a path (absolute or repo-root-relative) to
// the tracked outputs it touches. Strict mode requires exact
// equality; otherwise containment in either direction matches.
//
// Runs under the operation guard like every other public operation,
// so stage files edited between two calls are picked up by the
// second one.
func (r *Repo) FindOutsByPath(path string, strict bool) ([]index.OutRef, error) {
	var refs []index.OutRef
	err := r.WithLock(func() error {
		idx, err := r.Index()
		if err != nil {
			return err
		}
		refs = idx.FindOutsByPath(r.absPath(path), strict)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// UsedObjects collects the object identifiers the given paths
// reference, grouped by remote scope ("" is the default scope). A
// directory output contributes its own tree identifier plus the file
// identifiers under the queried sub-path; querying a path inside a
// directory output narrows the file set to that sub-path without
// dropping the tree identifier.
func (r *Repo) UsedObjects(paths ...string) (map[string]IDSet, error) {
	used := make(map[string]IDSet)
	add := func(scope string, id objectid.ID) {
		if _, ok := used[scope]; !ok {
			used[scope] = make(IDSet)
		}
		used[scope][id] = struct{}{}
	}

	err := r.WithLock(func() error {
		for _, path := range paths {
			refs, err := r.FindOutsByPath(path, false)
			if err != nil {
				return err
			}
			query := r.absPath(path)
			for _, ref := range refs {
				if ref.Out.ID.IsZero() {
					continue
				}
				add(ref.Out.Remote, ref.Out.ID)
				if !ref.Out.IsDir {
					continue
				}
				tree, err := r.loadTree(ref.Out.ID)
				if err != nil {
					return fmt.Errorf("output %s: %w", ref.Out.Path, err)
				}
				// Querying the output itself (or an ancestor)
				// keeps the whole tree; a sub-path keeps only
				// the entries beneath it.
				prefix := ""
				if sub, ok := repofs.Rel(ref.Out.Path, query); ok {
					prefix = sub
				}
				for _, entry := range tree.Filter(prefix) {
					add(ref.Out.Remote, entry.ID)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return used, nil
}

// loadTree fetches and parses a directory tree object from the
// cache.
func (r *Repo) loadTree(id objectid.ID) (*hashfile.Tree, error) {
	data, err := r.cache.Get(id)
	if err != nil {
		return nil, fmt.Errorf("loading tree object: %w", err)
	}
	return hashfile.ParseTree(data, id.Algorithm)
}

// hashPath computes the identifier for an absolute path, consulting
// the hash state database for files whose stat signature has not
// changed since the last computation.
func (r *Repo) hashPath(ctx context.Context, path string) (objectid.ID, *hashfile.Tree, error) {
	info, err := r.fs.Stat(path)
	if err != nil {
		return objectid.ID{}, nil, fmt.Errorf("hashing %s: %w", path, err)
	}
	if info.IsDir {
		return hashfile.HashDir(r.fs, path, r.algorithm)
	}

	if r.stateDB != nil {
		id, ok, err := r.stateDB.Lookup(ctx, path, info.ModTime, info.Size)
		if err != nil {
			return objectid.ID{}, nil, err
		}
		if ok && id.Algorithm == r.algorithm {
			return id, nil, nil
		}
	}
	id, err := hashfile.HashFile(r.fs, path, r.algorithm)
	if err != nil {
		return objectid.ID{}, nil, err
	}
	if r.stateDB != nil {
		if err := r.stateDB.Save(ctx, path, info.ModTime, info.Size, id); err != nil {
			return objectid.ID{}, nil, err
		}
	}
	return id, nil, nil
}

// Add starts tracking path: it hashes the content, stores the
// objects in the cache, and writes the single-stage definition file
// next to the target. Returns the written stage.
func (r *Repo) Add(ctx context.Context, path string) (*stagefile.Stage, error) {
	if r.rev != "" {
		return nil, fmt.Errorf("cannot add to a repository opened at a revision")
	}
	target := r.absPath(path)
	if r.IsInternal(target) {
		return nil, fmt.Errorf("%s is inside repository bookkeeping", target)
	}

	var stage *stagefile.Stage
	err := r.WithLock(func() error {
		id, tree, err := r.hashPath(ctx, target)
		if err != nil {
			return err
		}
		if err := r.storeObjects(target, id, tree); err != nil {
			return err
		}

		stage = &stagefile.Stage{
			Path: target + stagefile.TrackedSuffix,
			Outs: []stagefile.Out{{
				Path:  target,
				ID:    id,
				IsDir: id.IsDir(),
			}},
		}
		if issues := stagefile.Validate(stage); len(issues) > 0 {
			return fmt.Errorf("invalid stage for %s: %s", target, issues[0])
		}
		data, err := stagefile.WriteTracked(stage)
		if err != nil {
			return err
		}
		return r.writeFile(stage.Path, data)
	})
	if err != nil {
		return nil, err
	}
	return stage, nil
}

// storeObjects writes a hashed target's objects into the cache: the
// file content for plain files, each member file plus the serialized
// tree for directories.
func (r *Repo) storeObjects(target string, id objectid.ID, tree *hashfile.Tree) error {
	if tree == nil {
		content, err := r.fs.ReadFile(target)
		if err != nil {
			return err
		}
		return r.cache.Put(id, content)
	}

	for _, entry := range tree.Entries {
		content, err := r.fs.ReadFile(repofs.Join(target, entry.Relpath))
		if err != nil {
			return err
		}
		if err := r.cache.Put(entry.ID, content); err != nil {
			return err
		}
	}
	serialized, err := tree.Serialize()
	if err != nil {
		return err
	}
	return r.cache.Put(id, serialized)
}

// Push uploads the objects the given paths reference to their
// remotes; with no paths, every tracked output is pushed. Objects
// scoped to a named remote go there; default-scope objects go to
// remoteName (or the configured default remote when empty).
// Already-present objects are skipped. Returns the number of objects
// transferred.
func (r *Repo) Push(remoteName string, paths ...string) (int, error) {
	transferred := 0
	err := r.WithLock(func() error {
		if len(paths) == 0 {
			idx, err := r.Index()
			if err != nil {
				return err
			}
			for _, stage := range idx.Stages() {
				for _, out := range stage.Outs {
					paths = append(paths, out.Path)
				}
			}
		}
		used, err := r.UsedObjects(paths...)
		if err != nil {
			return err
		}

		for scope, ids := range used {
			name := scope
			if name == "" {
				name = remoteName
			}
			store, err := r.Remote(name)
			if err != nil {
				return err
			}
			for _, id := range sortedIDs(ids) {
				if store.Has(id) {
					continue
				}
				content, err := r.cache.Get(id)
				if err != nil {
					return fmt.Errorf("reading %s from cache: %w", id, err)
				}
				if err := store.Put(id, content); err != nil {
					return fmt.Errorf("uploading %s: %w", id, err)
				}
				transferred++
			}
		}
		return nil
	})
	return transferred, err
}

func sortedIDs(ids IDSet) []objectid.ID {
	ordered := make([]objectid.ID, 0, len(ids))
	for id := range ids {
		ordered = append(ordered, id)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].String() < ordered[j].String()
	})
	return ordered
}
