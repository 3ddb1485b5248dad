// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

package hashfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/HelloBroBro/dvc/lib/objectid"
)

// TreeEntry records one file inside a directory tree: its path
// relative to the tree root (slash-separated, files only — nested
// directories appear implicitly as relpath components) and its
// content identifier.
type TreeEntry struct {
	Relpath string
	ID      objectid.ID
}

// Tree is the flat file listing of a directory. It is both the input
// to directory hashing and the persisted object stored in the cache
// under the directory's identifier, so its serialization is part of
// the object format and must never change.
type Tree struct {
	Algorithm string
	Entries   []TreeEntry
}

// Serialize returns the canonical byte encoding of the tree: a JSON
// array of {"<algorithm>": "<digest>", "relpath": "<path>"} objects,
// sorted by relpath, with keys sorted inside each object and a space
// after each ":" and ",". The spacing is load-bearing: existing
// directory objects were written in this exact form and their digests
// are derived from it.
func (t *Tree) Serialize() ([]byte, error) {
	entries := make([]TreeEntry, len(t.Entries))
	copy(entries, t.Entries)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Relpath < entries[j].Relpath })

	var buffer bytes.Buffer
	buffer.WriteByte('[')
	for i, entry := range entries {
		if i > 0 {
			buffer.WriteString(", ")
		}
		if entry.ID.Algorithm != t.Algorithm {
			return nil, fmt.Errorf("tree entry %s uses algorithm %q, tree uses %q",
				entry.Relpath, entry.ID.Algorithm, t.Algorithm)
		}
		keys := []string{t.Algorithm, "relpath"}
		values := map[string]string{t.Algorithm: entry.ID.Digest, "relpath": entry.Relpath}
		sort.Strings(keys)

		buffer.WriteByte('{')
		for k, key := range keys {
			if k > 0 {
				buffer.WriteString(", ")
			}
			if err := writeJSONString(&buffer, key); err != nil {
				return nil, err
			}
			buffer.WriteString(": ")
			if err := writeJSONString(&buffer, values[key]); err != nil {
				return nil, err
			}
		}
		buffer.WriteByte('}')
	}
	buffer.WriteByte(']')
	return buffer.Bytes(), nil
}

// ID computes the directory identifier: the hash of the canonical
// serialization, digest suffixed ".dir".
func (t *Tree) ID() (objectid.ID, error) {
	serialized, err := t.Serialize()
	if err != nil {
		return objectid.ID{}, err
	}
	fileKind, err := HashBytes(t.Algorithm, serialized)
	if err != nil {
		return objectid.ID{}, err
	}
	return objectid.NewDir(t.Algorithm, fileKind.Digest), nil
}

// ParseTree decodes a serialized tree object. The algorithm names the
// digest key to read from each entry.
func ParseTree(data []byte, algorithm string) (*Tree, error) {
	var raw []map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing tree object: %w", err)
	}
	tree := &Tree{Algorithm: algorithm}
	for i, entry := range raw {
		relpath, ok := entry["relpath"]
		if !ok {
			return nil, fmt.Errorf("tree entry %d has no relpath", i)
		}
		digest, ok := entry[algorithm]
		if !ok {
			return nil, fmt.Errorf("tree entry %q has no %s digest", relpath, algorithm)
		}
		tree.Entries = append(tree.Entries, TreeEntry{
			Relpath: relpath,
			ID:      objectid.New(algorithm, digest),
		})
	}
	return tree, nil
}

// Filter returns the entries whose relpath equals prefix or lies
// under it ("" keeps everything). Used to enumerate the objects a
// sub-path of a directory output actually references.
func (t *Tree) Filter(prefix string) []TreeEntry {
	if prefix == "" || prefix == "." {
		return t.Entries
	}
	var kept []TreeEntry
	for _, entry := range t.Entries {
		if entry.Relpath == prefix || strings.HasPrefix(entry.Relpath, prefix+"/") {
			kept = append(kept, entry)
		}
	}
	return kept
}

// writeJSONString writes s as a JSON string literal.
func writeJSONString(buffer *bytes.Buffer, s string) error {
	encoded, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buffer.Write(encoded)
	return nil
}
