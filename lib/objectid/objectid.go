// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

// Package objectid defines content identifiers for versioned objects.
//
// An ID pairs a hash algorithm name with a hex digest. Directory
// objects carry a ".dir" suffix on the digest so that a directory and
// a file with coincidentally equal digest bytes can never be confused
// — the suffix is part of the object's identity, not presentation.
package objectid

import (
	"fmt"
	"strings"
)

// DirSuffix marks a digest as identifying a directory tree object.
// It is stored as part of the digest string wherever IDs are
// persisted (stage files, cache metadata, state database).
const DirSuffix = ".dir"

// ID identifies object content by algorithm and digest. The zero
// value is "no identifier" (content never hashed). IDs are immutable
// values; equality is structural, so they are usable as map keys.
type ID struct {
	// Algorithm is the hash algorithm name, e.g. "md5" or "blake3".
	Algorithm string

	// Digest is the lowercase hex digest, with DirSuffix appended
	// for directory tree objects.
	Digest string
}

// New returns a file ID for the given algorithm and digest.
func New(algorithm, digest string) ID {
	return ID{Algorithm: algorithm, Digest: digest}
}

// NewDir returns a directory ID for the given algorithm and raw
// digest. The DirSuffix is appended if not already present.
func NewDir(algorithm, digest string) ID {
	if !strings.HasSuffix(digest, DirSuffix) {
		digest += DirSuffix
	}
	return ID{Algorithm: algorithm, Digest: digest}
}

// IsZero reports whether the ID is the zero value (no identifier).
func (id ID) IsZero() bool {
	return id.Algorithm == "" && id.Digest == ""
}

// IsDir reports whether the ID identifies a directory tree object.
func (id ID) IsDir() bool {
	return strings.HasSuffix(id.Digest, DirSuffix)
}

// Raw returns the digest without the directory suffix. For file IDs
// this is the digest unchanged.
func (id ID) Raw() string {
	return strings.TrimSuffix(id.Digest, DirSuffix)
}

// Validate checks that the identifier is well formed: a named
// algorithm and a lowercase hex digest of even length, at least
// md5-sized, optionally carrying DirSuffix. Stage files are
// hand-editable, so anything turning a persisted digest into a cache
// path validates it first.
func (id ID) Validate() error {
	if id.Algorithm == "" {
		return fmt.Errorf("object ID %q: missing algorithm", id.Digest)
	}
	raw := id.Raw()
	if len(raw) < 32 || len(raw)%2 != 0 {
		return fmt.Errorf("object ID %s: malformed digest length %d", id, len(raw))
	}
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return fmt.Errorf("object ID %s: digest is not lowercase hex", id)
		}
	}
	return nil
}

// String returns the canonical "algorithm:digest" form used in logs
// and CLI output, e.g. "md5:8c7dd922ad47494fc02c388e12c00eac".
func (id ID) String() string {
	return id.Algorithm + ":" + id.Digest
}

// Parse parses the canonical "algorithm:digest" form produced by
// [ID.String].
func Parse(s string) (ID, error) {
	algorithm, digest, ok := strings.Cut(s, ":")
	if !ok || algorithm == "" || digest == "" {
		return ID{}, fmt.Errorf("parsing object ID %q: want algorithm:digest", s)
	}
	return ID{Algorithm: algorithm, Digest: digest}, nil
}
