// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/HelloBroBro/dvc/lib/objectid"
)

func openDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return db
}

func TestSaveAndLookup(t *testing.T) {
	t.Parallel()

	db := openDB(t)
	ctx := context.Background()

	mtime := time.Unix(1700000000, 123456789)
	id := objectid.New("md5", "8c7dd922ad47494fc02c388e12c00eac")

	if err := db.Save(ctx, "/repo/foo", mtime, 4, id); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok, err := db.Lookup(ctx, "/repo/foo", mtime, 4)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !ok || got != id {
		t.Errorf("Lookup = %v, %v; want %v, true", got, ok, id)
	}
}

func TestLookupMissesOnStaleSignature(t *testing.T) {
	t.Parallel()

	db := openDB(t)
	ctx := context.Background()

	mtime := time.Unix(1700000000, 0)
	id := objectid.New("md5", "8c7dd922ad47494fc02c388e12c00eac")
	if err := db.Save(ctx, "/repo/foo", mtime, 4, id); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, ok, err := db.Lookup(ctx, "/repo/foo", mtime.Add(time.Second), 4); err != nil || ok {
		t.Errorf("Lookup with changed mtime = ok %v err %v, want miss", ok, err)
	}
	if _, ok, err := db.Lookup(ctx, "/repo/foo", mtime, 5); err != nil || ok {
		t.Errorf("Lookup with changed size = ok %v err %v, want miss", ok, err)
	}
	if _, ok, err := db.Lookup(ctx, "/repo/bar", mtime, 4); err != nil || ok {
		t.Errorf("Lookup of unknown path = ok %v err %v, want miss", ok, err)
	}
}

func TestSaveReplaces(t *testing.T) {
	t.Parallel()

	db := openDB(t)
	ctx := context.Background()

	first := time.Unix(1700000000, 0)
	second := first.Add(time.Minute)
	oldID := objectid.New("md5", "8c7dd922ad47494fc02c388e12c00eac")
	newID := objectid.New("md5", "acbd18db4cc2f85cedef654fccc4a4d8")

	if err := db.Save(ctx, "/repo/foo", first, 4, oldID); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := db.Save(ctx, "/repo/foo", second, 3, newID); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, ok, _ := db.Lookup(ctx, "/repo/foo", first, 4); ok {
		t.Errorf("old signature still resolves after replace")
	}
	got, ok, err := db.Lookup(ctx, "/repo/foo", second, 3)
	if err != nil || !ok || got != newID {
		t.Errorf("Lookup after replace = %v, %v, %v; want %v", got, ok, err, newID)
	}
}
