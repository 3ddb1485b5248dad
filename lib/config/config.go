// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads repository configuration from
// <root>/.dvc/config. The file is JSONC — JSON with comments and
// trailing commas, for human annotation without a second parser
// elsewhere in the stack.
//
// The engine treats configuration as an opaque nested key-value
// structure: it reads the handful of keys it consumes (default
// remote, remote URLs, cache settings) and validates nothing else.
// Layered or merged configuration is an external concern.
package config

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"

	"github.com/HelloBroBro/dvc/lib/repofs"
)

// FileName is the config file path relative to the internal
// directory.
const FileName = "config"

// Config is a loaded configuration tree.
type Config struct {
	values map[string]any
}

// Load reads and parses the config file at path through fsys. A
// missing file yields an empty configuration, not an error — a fresh
// repository has no config until something writes one.
func Load(fsys repofs.FS, path string) (*Config, error) {
	if !fsys.Exists(path) {
		return &Config{values: map[string]any{}}, nil
	}
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses JSONC config bytes. path is used in error messages
// only.
func Parse(data []byte, path string) (*Config, error) {
	var values map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(data), &values); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if values == nil {
		values = map[string]any{}
	}
	return &Config{values: values}, nil
}

// Get walks the nested structure by keys and returns the value.
func (c *Config) Get(keys ...string) (any, bool) {
	var current any = c.values
	for _, key := range keys {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// GetString returns the string at the key path, or "" when absent or
// not a string.
func (c *Config) GetString(keys ...string) string {
	value, ok := c.Get(keys...)
	if !ok {
		return ""
	}
	s, _ := value.(string)
	return s
}

// GetBool returns the bool at the key path, false when absent or not
// a bool.
func (c *Config) GetBool(keys ...string) bool {
	value, ok := c.Get(keys...)
	if !ok {
		return false
	}
	b, _ := value.(bool)
	return b
}

// Section returns the nested map at the key path, or nil.
func (c *Config) Section(keys ...string) map[string]any {
	value, ok := c.Get(keys...)
	if !ok {
		return nil
	}
	section, _ := value.(map[string]any)
	return section
}

// DefaultRemote returns the configured default remote name.
func (c *Config) DefaultRemote() string {
	return c.GetString("core", "remote")
}

// RemoteURL returns the URL of the named remote.
func (c *Config) RemoteURL(name string) (string, bool) {
	url := c.GetString("remote", name, "url")
	return url, url != ""
}

// SkipGraphChecks returns whether graph revalidation is disabled by
// configuration.
func (c *Config) SkipGraphChecks() bool {
	return c.GetBool("core", "skip_graph_checks")
}

// CacheCompression returns the configured object cache codec name
// ("" means uncompressed).
func (c *Config) CacheCompression() string {
	return c.GetString("cache", "compression")
}

// Default returns the content written to a fresh repository's config
// file.
func Default() []byte {
	return []byte(`{
	// Engine configuration. JSON with comments and trailing commas.
	"core": {},
	"cache": {},
	"remote": {},
}
`)
}
