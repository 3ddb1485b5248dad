// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

package objectcache

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HelloBroBro/dvc/lib/hashfile"
	"github.com/HelloBroBro/dvc/lib/objectid"
)

func TestPutGetRoundTrip(t *testing.T) {
	t.Parallel()

	for _, tag := range []CompressionTag{CompressionNone, CompressionLZ4, CompressionZstd} {
		tag := tag
		t.Run(tag.String(), func(t *testing.T) {
			t.Parallel()

			cache, err := Open(t.TempDir(), tag)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}

			// Repetitive content so lz4/zstd actually compress.
			content := bytes.Repeat([]byte("versioned data "), 100)
			id, err := hashfile.HashBytes("md5", content)
			if err != nil {
				t.Fatalf("HashBytes: %v", err)
			}

			if cache.Has(id) {
				t.Fatalf("Has before Put = true")
			}
			if err := cache.Put(id, content); err != nil {
				t.Fatalf("Put: %v", err)
			}
			if !cache.Has(id) {
				t.Errorf("Has after Put = false")
			}

			got, err := cache.Get(id)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if !bytes.Equal(got, content) {
				t.Errorf("Get returned %d bytes, want %d matching bytes", len(got), len(content))
			}
		})
	}
}

func TestIncompressibleFallsBackToNone(t *testing.T) {
	t.Parallel()

	cache, err := Open(t.TempDir(), CompressionZstd)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	// A short unique string does not compress; the cache must store
	// it raw and still round-trip.
	content := []byte("x")
	id, err := hashfile.HashBytes("md5", content)
	if err != nil {
		t.Fatalf("HashBytes: %v", err)
	}
	if err := cache.Put(id, content); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := cache.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("Get = %q, want %q", got, content)
	}
}

func TestFanOutLayout(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cache, err := Open(root, CompressionNone)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	id := objectid.New("md5", "8c7dd922ad47494fc02c388e12c00eac")
	if err := cache.Put(id, []byte("file")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	expected := filepath.Join(root, "md5", "8c", "7dd922ad47494fc02c388e12c00eac")
	if _, err := os.Stat(expected); err != nil {
		t.Errorf("object not at fan-out path %s: %v", expected, err)
	}
}

func TestDirObjectKeepsSuffixInPath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cache, err := Open(root, CompressionNone)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	id := objectid.NewDir("md5", "70922d6bf66eb073053a82f77d58c536")
	if err := cache.Put(id, []byte("[]")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	expected := filepath.Join(root, "md5", "70", "922d6bf66eb073053a82f77d58c536.dir")
	if _, err := os.Stat(expected); err != nil {
		t.Errorf("tree object not at %s: %v", expected, err)
	}
}

func TestGetMissingObject(t *testing.T) {
	t.Parallel()

	cache, err := Open(t.TempDir(), CompressionNone)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := cache.Get(objectid.New("md5", "ffffffffffffffffffffffffffffffff")); err == nil {
		t.Fatalf("Get of missing object succeeded, want error")
	}
}

func TestMalformedIdentifierRejected(t *testing.T) {
	t.Parallel()

	cache, err := Open(t.TempDir(), CompressionNone)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	// A hand-edited stage file can record a digest of any shape; the
	// cache must refuse it cleanly rather than build a path from it.
	for _, id := range []objectid.ID{
		objectid.New("md5", "a"),
		objectid.New("md5", ""),
		objectid.NewDir("md5", ""),
	} {
		if cache.Has(id) {
			t.Errorf("Has(%v) = true, want false", id)
		}
		if _, err := cache.Get(id); err == nil {
			t.Errorf("Get(%v) succeeded, want error", id)
		}
		if err := cache.Put(id, []byte("x")); err == nil {
			t.Errorf("Put(%v) succeeded, want error", id)
		}
	}
}

func TestGetWithoutSidecarReturnsRawBytes(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cache, err := Open(root, CompressionNone)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	// Simulate a cache populated by another tool: object file only.
	id := objectid.New("md5", "acbd18db4cc2f85cedef654fccc4a4d8")
	path := filepath.Join(root, "md5", "ac", "bd18db4cc2f85cedef654fccc4a4d8")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("foo"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := cache.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "foo" {
		t.Errorf("Get = %q, want foo", got)
	}
}

func TestParseCompressionTag(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"none", "lz4", "zstd", ""} {
		if _, err := ParseCompressionTag(name); err != nil {
			t.Errorf("ParseCompressionTag(%q): %v", name, err)
		}
	}
	if _, err := ParseCompressionTag("snappy"); err == nil || !strings.Contains(err.Error(), "unknown") {
		t.Errorf("ParseCompressionTag(snappy) = %v, want unknown codec error", err)
	}
}
