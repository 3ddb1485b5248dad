// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

// Package remote selects object store backends by URL scheme.
//
// Backends are registered in an explicit registry mapping a scheme
// identifier to a constructor. A backend is constructed once per
// distinct URL and cached by that URL — late binding without
// repeated dynamic lookup. An unregistered scheme is an error only
// when a URL with that scheme is actually opened; merely appearing
// in configuration is fine.
package remote

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/HelloBroBro/dvc/lib/objectcache"
	"github.com/HelloBroBro/dvc/lib/objectid"
)

// Store is the capability a remote backend provides: presence
// checks and object transfer by content identifier. The engine uses
// it to decide what must exist remotely; wire protocols live
// entirely behind implementations.
type Store interface {
	Has(id objectid.ID) bool
	Get(id objectid.ID) ([]byte, error)
	Put(id objectid.ID, content []byte) error
}

// Constructor builds a Store for a URL. The URL is passed complete,
// scheme included.
type Constructor func(url string) (Store, error)

// Registry maps URL schemes to backend constructors and caches
// opened stores per URL. Safe for concurrent use.
type Registry struct {
	mu           sync.Mutex
	constructors map[string]Constructor
	opened       map[string]Store
}

// NewRegistry returns a registry with the built-in "local" backend
// (plain filesystem paths and local:// URLs) registered.
func NewRegistry() *Registry {
	registry := &Registry{
		constructors: make(map[string]Constructor),
		opened:       make(map[string]Store),
	}
	registry.Register("local", openLocal)
	return registry
}

// Register adds or replaces the constructor for a scheme.
func (r *Registry) Register(scheme string, constructor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors[scheme] = constructor
}

// Schemes returns the registered scheme names, sorted.
func (r *Registry) Schemes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	schemes := make([]string, 0, len(r.constructors))
	for scheme := range r.constructors {
		schemes = append(schemes, scheme)
	}
	sort.Strings(schemes)
	return schemes
}

// Open returns the store for url, constructing it on first use and
// returning the cached instance afterwards.
func (r *Registry) Open(url string) (Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if store, ok := r.opened[url]; ok {
		return store, nil
	}

	scheme := SchemeOf(url)
	constructor, ok := r.constructors[scheme]
	if !ok {
		return nil, fmt.Errorf("no backend registered for scheme %q (url %s)", scheme, url)
	}
	store, err := constructor(url)
	if err != nil {
		return nil, fmt.Errorf("opening remote %s: %w", url, err)
	}
	r.opened[url] = store
	return store, nil
}

// SchemeOf extracts the URL scheme; URLs without one are local
// filesystem paths.
func SchemeOf(url string) string {
	scheme, _, ok := strings.Cut(url, "://")
	if !ok {
		return "local"
	}
	return scheme
}

// openLocal builds the filesystem-backed store: an object cache
// rooted at the URL's path.
func openLocal(url string) (Store, error) {
	path := strings.TrimPrefix(url, "local://")
	cache, err := objectcache.Open(path, objectcache.CompressionNone)
	if err != nil {
		return nil, err
	}
	return localStore{cache: cache}, nil
}

type localStore struct {
	cache *objectcache.Cache
}

func (s localStore) Has(id objectid.ID) bool { return s.cache.Has(id) }

func (s localStore) Get(id objectid.ID) ([]byte, error) { return s.cache.Get(id) }

func (s localStore) Put(id objectid.ID, content []byte) error { return s.cache.Put(id, content) }
