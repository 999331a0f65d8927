// Package config provides configuration loading and management for polcheck.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/polcheck/policy"
)

// Output format values.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config represents the complete polcheck configuration.
type Config struct {
	Repo     RepoConfig     `yaml:"repo"`
	Guide    GuideConfig    `yaml:"guide"`
	Manifest ManifestConfig `yaml:"manifest"`
	Output   OutputConfig   `yaml:"output"`
}

// RepoConfig configures the repository settings.
type RepoConfig struct {
	// Path is the repository root path (auto-detected from git if empty)
	Path string `yaml:"path"`
}

// GuideConfig configures guide discovery.
type GuideConfig struct {
	// Paths are the repo-relative locations tried in order.
	Paths []string `yaml:"paths"`
	// Search holds optional glob patterns tried after Paths.
	Search []string `yaml:"search"`
}

// ManifestConfig configures the compliance manifest location.
type ManifestConfig struct {
	// Path is the repo-relative manifest path.
	Path string `yaml:"path"`
}

// OutputConfig configures result reporting.
type OutputConfig struct {
	// Format is "text" or "json".
	Format string `yaml:"format"`
}

// DefaultConfig returns a Config with the canonical defaults.
func DefaultConfig() *Config {
	return &Config{
		Repo: RepoConfig{
			Path: "", // Auto-detect
		},
		Guide: GuideConfig{
			Paths:  append([]string(nil), policy.CanonicalGuidePaths...),
			Search: nil,
		},
		Manifest: ManifestConfig{
			Path: policy.DefaultManifestPath,
		},
		Output: OutputConfig{
			Format: FormatText,
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if len(c.Guide.Paths) == 0 {
		return fmt.Errorf("guide.paths must not be empty")
	}
	if c.Manifest.Path == "" {
		return fmt.Errorf("manifest.path is required")
	}
	if c.Output.Format != FormatText && c.Output.Format != FormatJSON {
		return fmt.Errorf("output.format must be %q or %q", FormatText, FormatJSON)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for
// non-zero values).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Repo.Path != "" {
		c.Repo.Path = other.Repo.Path
	}
	if len(other.Guide.Paths) > 0 {
		c.Guide.Paths = other.Guide.Paths
	}
	if len(other.Guide.Search) > 0 {
		c.Guide.Search = other.Guide.Search
	}
	if other.Manifest.Path != "" {
		c.Manifest.Path = other.Manifest.Path
	}
	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}
}
