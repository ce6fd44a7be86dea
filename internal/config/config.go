// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package config loads the demo command's repository settings from a TOML
// file, in the same style the production CLI reads its zeta.toml.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/antgroup/zeta-smartlog/pkg/version"
)

// Config is the on-disk configuration for the smartlog demo: which branch is
// treated as main, the glyph set to render with, and the minimum server
// version required before obsolescence markers are trusted.
type Config struct {
	MainBranch    string `toml:"main_branch"`
	Glyphs        string `toml:"glyphs"`
	ServerVersion string `toml:"server_version"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		MainBranch:    "main",
		Glyphs:        "ascii",
		ServerVersion: "2.0.0",
	}
}

// Load reads and parses path, falling back to Default for any field the file
// omits; a field set to an empty string stays empty.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// ParsedServerVersion parses ServerVersion, falling back to 0.0.0 if it is
// empty or malformed.
func (c Config) ParsedServerVersion() version.Version {
	if c.ServerVersion == "" {
		return version.New(0, 0, 0)
	}
	v, err := version.Parse(c.ServerVersion)
	if err != nil {
		return version.New(0, 0, 0)
	}
	return v
}
