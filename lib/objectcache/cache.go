// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

// Package objectcache is the local content-addressable object store.
//
// Objects are addressed by their content identifier and laid out as
// <root>/<algorithm>/<first two digest hex chars>/<rest of digest>,
// the classic fan-out that keeps directory sizes bounded. Stored
// bytes may be compressed; each object has a CBOR sidecar recording
// the codec and original size so reads are self-describing. Tree
// objects (".dir") keep their digest-bearing serialization as the
// logical content — compression applies only to the stored encoding,
// never to identity.
//
// Writes are atomic: content goes to a temp file in the same
// directory and is renamed into place. An object that exists is
// never rewritten — content addressing makes rewrites pointless.
package objectcache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/HelloBroBro/dvc/lib/codec"
	"github.com/HelloBroBro/dvc/lib/objectid"
)

// metaSuffix is appended to an object path for its sidecar file.
const metaSuffix = ".meta"

// objectMeta is the CBOR sidecar describing how an object is stored.
type objectMeta struct {
	// Size is the uncompressed content length in bytes.
	Size int64 `cbor:"size"`

	// Codec names the compression codec (CompressionTag.String).
	Codec string `cbor:"codec"`
}

// Cache is a local object store rooted at a directory.
type Cache struct {
	root        string
	compression CompressionTag
}

// Open returns a cache rooted at root, creating the directory if
// needed. New objects are written with the given codec; objects
// written with any codec remain readable regardless of the setting.
func Open(root string, compression CompressionTag) (*Cache, error) {
	if root == "" {
		return nil, fmt.Errorf("object cache root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating object cache at %s: %w", root, err)
	}
	return &Cache{root: root, compression: compression}, nil
}

// Root returns the cache root directory.
func (c *Cache) Root() string {
	return c.root
}

// objectPath returns the on-disk path for an identifier. Malformed
// identifiers are rejected rather than mapped to a bogus path:
// digests come from hand-editable stage files.
func (c *Cache) objectPath(id objectid.ID) (string, error) {
	if err := id.Validate(); err != nil {
		return "", err
	}
	digest := id.Digest
	return filepath.Join(c.root, id.Algorithm, digest[:2], digest[2:]), nil
}

// Has reports whether the object is present.
func (c *Cache) Has(id objectid.ID) bool {
	path, err := c.objectPath(id)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Put stores content under id. Storing an already-present object is
// a no-op.
func (c *Cache) Put(id objectid.ID, content []byte) error {
	if id.IsZero() {
		return fmt.Errorf("storing object with zero identifier")
	}
	target, err := c.objectPath(id)
	if err != nil {
		return err
	}
	if _, err := os.Stat(target); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating object directory: %w", err)
	}

	stored, tag, err := compress(content, c.compression)
	if err != nil {
		return fmt.Errorf("compressing object %s: %w", id, err)
	}
	meta, err := codec.Marshal(objectMeta{Size: int64(len(content)), Codec: tag.String()})
	if err != nil {
		return fmt.Errorf("encoding object metadata: %w", err)
	}

	if err := writeAtomic(target+metaSuffix, meta); err != nil {
		return fmt.Errorf("writing object metadata %s: %w", id, err)
	}
	if err := writeAtomic(target, stored); err != nil {
		return fmt.Errorf("writing object %s: %w", id, err)
	}
	return nil
}

// Get returns the content stored under id.
func (c *Cache) Get(id objectid.ID) ([]byte, error) {
	target, err := c.objectPath(id)
	if err != nil {
		return nil, err
	}
	stored, err := os.ReadFile(target)
	if err != nil {
		return nil, fmt.Errorf("reading object %s: %w", id, err)
	}

	metaBytes, err := os.ReadFile(target + metaSuffix)
	if err != nil {
		// Sidecar missing: treat the bytes as stored raw. This keeps
		// caches populated by other tools readable.
		return stored, nil
	}
	var meta objectMeta
	if err := codec.Unmarshal(metaBytes, &meta); err != nil {
		return nil, fmt.Errorf("decoding metadata of object %s: %w", id, err)
	}
	tag, err := ParseCompressionTag(meta.Codec)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", id, err)
	}
	content, err := decompress(stored, tag, int(meta.Size))
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", id, err)
	}
	return content, nil
}

// writeAtomic writes data to path via a temp file and rename.
func writeAtomic(path string, data []byte) error {
	temp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tempName := temp.Name()
	if _, err := temp.Write(data); err != nil {
		temp.Close()
		os.Remove(tempName)
		return err
	}
	if err := temp.Close(); err != nil {
		os.Remove(tempName)
		return err
	}
	if err := os.Rename(tempName, path); err != nil {
		os.Remove(tempName)
		return err
	}
	return nil
}
