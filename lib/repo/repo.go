// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

// Package repo is the engine façade: it composes the filesystem
// abstraction, the stage graph index, the object cache, the hash
// state database, and the remote registry behind the operations
// external layers consume.
//
// A Repo serves either the live working tree or a pinned historical
// revision; everything below the open call is agnostic to which. The
// cached graph index is invalidated by the reentrant operation guard
// (see lock.go), never refreshed silently while held.
//
// A Repo assumes a single logical caller: the guard is a reentrancy
// depth counter, not a mutex. Concurrent mutation of one Repo is the
// caller's synchronization problem.
package repo

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/HelloBroBro/dvc/lib/config"
	"github.com/HelloBroBro/dvc/lib/gitcli"
	"github.com/HelloBroBro/dvc/lib/hashfile"
	"github.com/HelloBroBro/dvc/lib/index"
	"github.com/HelloBroBro/dvc/lib/objectcache"
	"github.com/HelloBroBro/dvc/lib/remote"
	"github.com/HelloBroBro/dvc/lib/repofs"
	"github.com/HelloBroBro/dvc/lib/state"
)

// InternalDir is the repository marker and bookkeeping directory.
const InternalDir = ".dvc"

// Repo is an open repository.
type Repo struct {
	// rootDir is the repository root on fs: the directory holding
	// the InternalDir marker.
	rootDir string

	// baseRoot is the enclosing root that subrepo paths are
	// computed against: the SCM top-level for live repos (rootDir
	// itself when there is none), the filesystem root for
	// revision-backed repos.
	baseRoot string

	fs      repofs.FS
	rev     string
	conf    *config.Config
	cache   *objectcache.Cache
	stateDB *state.DB
	remotes *remote.Registry

	algorithm string

	// lockDepth and skipGraphChecks drive index invalidation; see
	// lock.go.
	lockDepth       int
	skipGraphChecks bool

	// idx is the cached graph; idxStale marks it for rebuild on
	// next access. nil idx means never built.
	idx      *index.Index
	idxStale bool
}

// Option configures Open.
type Option func(*openOptions)

type openOptions struct {
	rev string
}

// WithRev opens the repository as of the given revision, served
// read-only from the version-control backend.
func WithRev(rev string) Option {
	return func(o *openOptions) { o.rev = rev }
}

// Open opens the repository containing path. Without options it
// serves the live working tree; with [WithRev] it serves the tree of
// that revision. Returns [NotRepositoryError] when no marker
// directory exists at or above path on the selected filesystem.
func Open(ctx context.Context, path string, options ...Option) (*Repo, error) {
	var opts openOptions
	for _, option := range options {
		option(&opts)
	}

	start, err := repofs.Abs(path)
	if err != nil {
		return nil, err
	}

	if opts.rev != "" {
		return openAtRev(ctx, start, opts.rev)
	}
	return openLive(ctx, start)
}

func openLive(ctx context.Context, start string) (*Repo, error) {
	fsys := repofs.NewLocal()

	rootDir, ok := findRoot(fsys, start)
	if !ok {
		return nil, &NotRepositoryError{Path: start}
	}

	baseRoot := rootDir
	if scmRoot, ok := findMarkerUp(fsys, rootDir, ".git"); ok {
		baseRoot = scmRoot
	}

	r := &Repo{
		rootDir:   rootDir,
		baseRoot:  baseRoot,
		fs:        fsys,
		algorithm: hashfile.DefaultAlgorithm,
		remotes:   remote.NewRegistry(),
	}
	if err := r.loadConfig(); err != nil {
		return nil, err
	}

	compression, err := objectcache.ParseCompressionTag(r.conf.CacheCompression())
	if err != nil {
		return nil, fmt.Errorf("config cache.compression: %w", err)
	}
	cacheDir := filepath.FromSlash(repofs.Join(rootDir, InternalDir, "cache"))
	r.cache, err = objectcache.Open(cacheDir, compression)
	if err != nil {
		return nil, err
	}

	stateDB, err := state.Open(filepath.Join(filepath.FromSlash(repofs.Join(rootDir, InternalDir)), "state.db"))
	if err != nil {
		return nil, err
	}
	r.stateDB = stateDB

	slog.Debug("repository opened", "root", rootDir, "base", baseRoot)
	return r, nil
}

func openAtRev(ctx context.Context, start string, rev string) (*Repo, error) {
	gitRepo := gitcli.NewRepository(filepath.FromSlash(start))
	topLevel, err := gitRepo.TopLevel(ctx)
	if err != nil {
		return nil, fmt.Errorf("locating version control root for %s: %w", start, err)
	}
	topLevel = repofs.Normalize(topLevel)

	fsys, err := repofs.NewGitFileSystem(ctx, gitcli.NewRepository(filepath.FromSlash(topLevel)), rev)
	if err != nil {
		return nil, err
	}

	// Translate the live start path into the revision's virtual
	// tree, then search for the marker there. A marker on the live
	// tree or another revision does not count.
	relative, ok := repofs.Rel(topLevel, start)
	if !ok {
		return nil, fmt.Errorf("%s is outside version control root %s", start, topLevel)
	}
	virtualStart := repofs.Join("/", relative)

	rootDir, ok := findRoot(fsys, virtualStart)
	if !ok {
		return nil, &NotRepositoryError{Path: start, Rev: rev}
	}

	r := &Repo{
		rootDir:   rootDir,
		baseRoot:  fsys.Root(),
		fs:        fsys,
		rev:       rev,
		algorithm: hashfile.DefaultAlgorithm,
		remotes:   remote.NewRegistry(),
	}
	if err := r.loadConfig(); err != nil {
		return nil, err
	}

	// Objects referenced by a historical revision still live in the
	// working repository's cache on the live filesystem.
	liveRoot := repofs.Join(topLevel, strings.TrimPrefix(rootDir, "/"))
	cacheDir := filepath.FromSlash(repofs.Join(liveRoot, InternalDir, "cache"))
	compression, err := objectcache.ParseCompressionTag(r.conf.CacheCompression())
	if err != nil {
		return nil, fmt.Errorf("config cache.compression: %w", err)
	}
	r.cache, err = objectcache.Open(cacheDir, compression)
	if err != nil {
		return nil, err
	}

	slog.Debug("repository opened at revision", "root", rootDir, "rev", rev)
	return r, nil
}

// loadConfig reads the repository config through the active
// filesystem, so a revision-backed repo sees that revision's config.
func (r *Repo) loadConfig() error {
	conf, err := config.Load(r.fs, repofs.Join(r.rootDir, InternalDir, config.FileName))
	if err != nil {
		return err
	}
	r.conf = conf
	r.skipGraphChecks = conf.SkipGraphChecks()
	return nil
}

// Close releases resources held by the repository.
func (r *Repo) Close() error {
	if r.stateDB != nil {
		if err := r.stateDB.Close(); err != nil {
			return err
		}
		r.stateDB = nil
	}
	return nil
}

// Root returns the repository root path on the active filesystem.
func (r *Repo) Root() string {
	return r.rootDir
}

// Rev returns the revision this repository was opened at, "" for the
// live tree.
func (r *Repo) Rev() string {
	return r.rev
}

// Config returns the loaded configuration.
func (r *Repo) Config() *config.Config {
	return r.conf
}

// SubrepoRelpath returns the path of the repository root relative to
// the enclosing monorepo (or revision) root: "" when they coincide.
// Pure path arithmetic, identical for live and revision-backed
// filesystems.
func (r *Repo) SubrepoRelpath() string {
	relative, ok := repofs.Rel(r.baseRoot, r.rootDir)
	if !ok {
		return ""
	}
	return relative
}

// IsInternal reports whether path lies inside repository
// bookkeeping: any path with an InternalDir component.
func (r *Repo) IsInternal(path string) bool {
	for _, component := range strings.Split(repofs.Normalize(filepath.ToSlash(path)), "/") {
		if component == InternalDir {
			return true
		}
	}
	return false
}

// SetSkipGraphChecks toggles the validation bypass: while set, graph
// reads reuse the cached index without re-validation and the
// operation guard leaves the cache intact on exit. An escape hatch
// for call sequences that have independently established graph
// stability — not a default.
func (r *Repo) SetSkipGraphChecks(skip bool) {
	r.skipGraphChecks = skip
}

// Remote resolves the named remote's object store through the
// scheme registry. An empty name selects the configured default
// remote.
func (r *Repo) Remote(name string) (remote.Store, error) {
	if name == "" {
		name = r.conf.DefaultRemote()
	}
	if name == "" {
		return nil, fmt.Errorf("no remote requested and no default remote configured")
	}
	url, ok := r.conf.RemoteURL(name)
	if !ok {
		return nil, fmt.Errorf("remote %q is not configured", name)
	}
	return r.remotes.Open(url)
}

// RemoteSchemes returns the backend schemes this repository's remote
// registry can open.
func (r *Repo) RemoteSchemes() []string {
	return r.remotes.Schemes()
}

// absPath resolves a caller-supplied path (absolute, or relative to
// the repository root) to the normalized absolute form.
func (r *Repo) absPath(path string) string {
	normalized := repofs.Normalize(filepath.ToSlash(path))
	if strings.HasPrefix(normalized, "/") {
		return normalized
	}
	return repofs.Join(r.rootDir, normalized)
}

// writeFile writes a file on the live filesystem. Mutating
// operations are rejected earlier for revision-backed repositories.
func (r *Repo) writeFile(path string, data []byte) error {
	return os.WriteFile(filepath.FromSlash(path), data, 0o644)
}

// findRoot walks upward from start looking for the marker directory.
func findRoot(fsys repofs.FS, start string) (string, bool) {
	return findMarkerUp(fsys, start, InternalDir)
}

func findMarkerUp(fsys repofs.FS, start, marker string) (string, bool) {
	current := repofs.Normalize(start)
	for {
		if fsys.Exists(repofs.Join(current, marker)) {
			return current, true
		}
		parent := repofs.Join(current, "..")
		if parent == current {
			return "", false
		}
		current = parent
	}
}

// InitOptions configures Init.
type InitOptions struct {
	// Subdir permits initializing a repository nested inside a
	// larger tree that already contains one (the monorepo layout).
	Subdir bool

	// Force reinitializes over an existing marker directory.
	Force bool
}

// Init creates the repository bookkeeping at path and opens it.
func Init(ctx context.Context, path string, opts InitOptions) (*Repo, error) {
	rootDir, err := repofs.Abs(path)
	if err != nil {
		return nil, err
	}
	fsys := repofs.NewLocal()

	markerPath := repofs.Join(rootDir, InternalDir)
	if fsys.Exists(markerPath) && !opts.Force {
		return nil, fmt.Errorf("%s is already initialized (use force to reinitialize)", rootDir)
	}
	if !opts.Subdir {
		if enclosing, ok := findRoot(fsys, repofs.Join(rootDir, "..")); ok {
			return nil, fmt.Errorf("%s is inside the repository at %s (pass Subdir to nest)", rootDir, enclosing)
		}
	}

	osMarker := filepath.FromSlash(markerPath)
	if err := os.MkdirAll(osMarker, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", markerPath, err)
	}
	configPath := filepath.Join(osMarker, config.FileName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) || opts.Force {
		if err := os.WriteFile(configPath, config.Default(), 0o644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}
	}

	slog.Info("initialized repository", "root", rootDir, "subdir", opts.Subdir)
	return Open(ctx, path)
}

// Destroy removes the repository's bookkeeping directory,
// de-initializing it. The working tree and any tracked data files
// are left in place. The Repo is closed and must not be used after.
func (r *Repo) Destroy() error {
	if r.rev != "" {
		return fmt.Errorf("cannot destroy a repository opened at a revision")
	}
	if err := r.Close(); err != nil {
		return err
	}
	marker := filepath.FromSlash(repofs.Join(r.rootDir, InternalDir))
	if err := os.RemoveAll(marker); err != nil {
		return fmt.Errorf("removing %s: %w", marker, err)
	}
	return nil
}
