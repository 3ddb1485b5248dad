// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

// Package state caches computed content identifiers in a local
// SQLite database keyed by path, modification time, and size. When a
// file's stat signature is unchanged since the last hash, the stored
// identifier is reused and the file is not re-read.
//
// The cache is strictly an optimization: a stale or missing entry
// only costs a re-hash. It is only ever consulted for the live
// working tree — revision-backed filesystems report no stat
// signature, so their reads always hash.
package state

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/HelloBroBro/dvc/lib/objectid"
)

const schema = `
CREATE TABLE IF NOT EXISTS hashes (
	path      TEXT PRIMARY KEY,
	mtime_ns  INTEGER NOT NULL,
	size      INTEGER NOT NULL,
	algorithm TEXT NOT NULL,
	digest    TEXT NOT NULL
);
`

// DB is the hash cache database. Safe for concurrent use; individual
// connections are pooled internally.
type DB struct {
	pool *sqlitex.Pool
	path string
}

// Open opens (creating if necessary) the hash cache at path.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("state: database path is required")
	}

	poolSize := runtime.NumCPU()
	if poolSize < 4 {
		poolSize = 4
	}
	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		PoolSize:    poolSize,
		PrepareConn: prepareConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("state: opening %s: %w", path, err)
	}

	db := &DB{pool: pool, path: path}
	if err := db.migrate(context.Background()); err != nil {
		pool.Close()
		return nil, err
	}
	return db, nil
}

// prepareConnection applies the standard pragmas to every pooled
// connection: WAL for concurrent readers, NORMAL sync (the cache is
// rebuildable, fsync-per-commit buys nothing), and a busy timeout so
// concurrent writers wait instead of failing.
func prepareConnection(conn *sqlite.Conn) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("state: %s: %w", pragma, err)
		}
	}
	return nil
}

func (db *DB) migrate(ctx context.Context) error {
	conn, err := db.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("state: take connection: %w", err)
	}
	defer db.pool.Put(conn)

	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return fmt.Errorf("state: creating schema: %w", err)
	}
	return nil
}

// Close closes the pool. Blocks until borrowed connections return.
func (db *DB) Close() error {
	if err := db.pool.Close(); err != nil {
		return fmt.Errorf("state: closing %s: %w", db.path, err)
	}
	return nil
}

// Lookup returns the cached identifier for path if its recorded stat
// signature (mtime, size) still matches. ok is false on a miss or a
// stale signature.
func (db *DB) Lookup(ctx context.Context, path string, mtime time.Time, size int64) (id objectid.ID, ok bool, err error) {
	conn, err := db.pool.Take(ctx)
	if err != nil {
		return objectid.ID{}, false, fmt.Errorf("state: take connection: %w", err)
	}
	defer db.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`SELECT algorithm, digest FROM hashes WHERE path = ? AND mtime_ns = ? AND size = ?`,
		&sqlitex.ExecOptions{
			Args: []any{path, mtime.UnixNano(), size},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				id = objectid.ID{
					Algorithm: stmt.ColumnText(0),
					Digest:    stmt.ColumnText(1),
				}
				ok = true
				return nil
			},
		})
	if err != nil {
		return objectid.ID{}, false, fmt.Errorf("state: lookup %s: %w", path, err)
	}
	return id, ok, nil
}

// Save records the identifier computed for path at the given stat
// signature, replacing any previous entry for the path.
func (db *DB) Save(ctx context.Context, path string, mtime time.Time, size int64, id objectid.ID) error {
	conn, err := db.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("state: take connection: %w", err)
	}
	defer db.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`INSERT OR REPLACE INTO hashes (path, mtime_ns, size, algorithm, digest) VALUES (?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []any{path, mtime.UnixNano(), size, id.Algorithm, id.Digest},
		})
	if err != nil {
		return fmt.Errorf("state: save %s: %w", path, err)
	}
	return nil
}
