// Package config provides project configuration for rulestack.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the project configuration file looked up when no
// --config flag is given.
const DefaultFileName = "rulestack.yaml"

// Remote types.
const (
	RemoteDir = "dir"
	RemoteGit = "git"
)

// Config is the complete rulestack project configuration.
type Config struct {
	Rules  RulesConfig  `yaml:"rules"`
	Remote RemoteConfig `yaml:"remote"`
	Store  StoreConfig  `yaml:"store"`
}

// RulesConfig locates the project's rule directories and manifest.
type RulesConfig struct {
	// Dir holds remote-synced rule documents (default: .rules)
	Dir string `yaml:"dir"`
	// OverridesDir holds local override documents (default: .rules/local)
	OverridesDir string `yaml:"overrides_dir"`
	// ManifestPath is the sync manifest database (default: .rules/manifest.db)
	ManifestPath string `yaml:"manifest_path"`
}

// RemoteConfig describes the remote source of truth.
type RemoteConfig struct {
	// Type is "dir" (plain directory copy) or "git" (local clone at a ref)
	Type string `yaml:"type"`
	// Path is the source directory or the git clone path
	Path string `yaml:"path"`
	// Ref is the git ref to sync from (default: HEAD; git only)
	Ref string `yaml:"ref"`
	// Subdir restricts a git fetch to a directory within the repo
	Subdir string `yaml:"subdir"`
}

// StoreConfig tunes store and resolver behavior.
type StoreConfig struct {
	// Strict fails loads on same-source identifier collisions
	Strict bool `yaml:"strict"`
	// ConflictCategories makes resolve fail when two matched documents
	// share a category, instead of silently keeping both
	ConflictCategories bool `yaml:"conflict_categories"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Rules: RulesConfig{
			Dir:          ".rules",
			OverridesDir: filepath.Join(".rules", "local"),
			ManifestPath: filepath.Join(".rules", "manifest.db"),
		},
		Remote: RemoteConfig{
			Type: RemoteDir,
			Ref:  "HEAD",
		},
		Store: StoreConfig{
			ConflictCategories: true,
		},
	}
}

// Load reads configuration from a YAML file, overlaying the defaults.
// A missing file is not an error: the defaults apply unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.Rules.Dir == "" {
		return fmt.Errorf("rules.dir must not be empty")
	}
	switch c.Remote.Type {
	case RemoteDir, RemoteGit, "":
	default:
		return fmt.Errorf("remote.type %q: must be %q or %q", c.Remote.Type, RemoteDir, RemoteGit)
	}
	return nil
}
