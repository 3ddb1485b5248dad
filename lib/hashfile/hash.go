// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

// Package hashfile computes content identifiers for files and
// directory trees.
//
// Files are hashed with a configurable algorithm; md5 remains the
// default because object identity must stay byte-compatible with
// caches written by earlier versions — changing the default would
// orphan every existing object. blake3 and sha256 are registered for
// callers that opt in per call or via config.
//
// A directory's identifier is derived from the identifiers of the
// files it contains: the flat list of (relpath, digest) pairs is
// serialized deterministically and hashed, and the resulting digest
// carries the ".dir" suffix so directory identity is a distinct kind
// from file identity. Every contained file must therefore be hashed
// before its directory (bottom-up).
package hashfile

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"

	"github.com/zeebo/blake3"

	"github.com/HelloBroBro/dvc/lib/objectid"
	"github.com/HelloBroBro/dvc/lib/repofs"
)

// DefaultAlgorithm is used when the caller does not select one.
const DefaultAlgorithm = "md5"

// newHasher returns a hash.Hash for the named algorithm.
func newHasher(algorithm string) (hash.Hash, error) {
	switch algorithm {
	case "md5":
		return md5.New(), nil
	case "sha256":
		return sha256.New(), nil
	case "blake3":
		return blake3.New(), nil
	default:
		return nil, fmt.Errorf("unknown hash algorithm %q", algorithm)
	}
}

// HashBytes computes the file-kind content identifier of data.
func HashBytes(algorithm string, data []byte) (objectid.ID, error) {
	hasher, err := newHasher(algorithm)
	if err != nil {
		return objectid.ID{}, err
	}
	hasher.Write(data)
	return objectid.New(algorithm, hex.EncodeToString(hasher.Sum(nil))), nil
}

// HashFile reads the file at path through fsys and computes its
// content identifier. A missing or unreadable file surfaces as an
// error satisfying errors.Is(err, fs.ErrNotExist) where the
// filesystem reports it as such.
func HashFile(fsys repofs.FS, path, algorithm string) (objectid.ID, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return objectid.ID{}, fmt.Errorf("hashing %s: %w", path, err)
	}
	return HashBytes(algorithm, data)
}

// HashDir walks the directory at path, hashes every contained file
// bottom-up, and returns the directory's identifier together with
// the tree recording each file's relpath and identifier. An empty
// directory is valid and hashes deterministically.
func HashDir(fsys repofs.FS, path, algorithm string) (objectid.ID, *Tree, error) {
	tree := &Tree{Algorithm: algorithm}
	err := repofs.Walk(fsys, path, func(child string, info repofs.Info) error {
		if info.IsDir {
			return nil
		}
		id, err := HashFile(fsys, child, algorithm)
		if err != nil {
			return err
		}
		relative, ok := repofs.Rel(path, child)
		if !ok {
			return fmt.Errorf("walk escaped %s at %s", path, child)
		}
		tree.Entries = append(tree.Entries, TreeEntry{Relpath: relative, ID: id})
		return nil
	})
	if err != nil {
		return objectid.ID{}, nil, err
	}
	id, err := tree.ID()
	if err != nil {
		return objectid.ID{}, nil, err
	}
	return id, tree, nil
}

// Hash computes the identifier for path, dispatching on whether it
// is a file or a directory. For directories the returned tree is
// non-nil.
func Hash(fsys repofs.FS, path, algorithm string) (objectid.ID, *Tree, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return objectid.ID{}, nil, fmt.Errorf("hashing %s: %w", path, err)
	}
	if info.IsDir {
		return HashDir(fsys, path, algorithm)
	}
	id, err := HashFile(fsys, path, algorithm)
	return id, nil, err
}
