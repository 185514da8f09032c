// Package config handles reading and writing .veridoc/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for .veridoc/config.yaml.
type Config struct {
	Version int           `yaml:"version"`
	Backend BackendConfig `yaml:"backend"`
	Search  SearchConfig  `yaml:"search"`
	Upload  UploadConfig  `yaml:"upload"`
	Catalog CatalogConfig `yaml:"catalog"`
}

// BackendConfig describes how to reach the answer service.
type BackendConfig struct {
	URL     string `yaml:"url"`
	Timeout int    `yaml:"timeout"` // seconds, per request
}

// SearchConfig controls the query pipeline behaviour.
type SearchConfig struct {
	PacingDelayMS int `yaml:"pacing_delay_ms"` // delay between analyzing and generating stages
}

// UploadConfig controls document ingestion uploads.
type UploadConfig struct {
	MaxFileMB int `yaml:"max_file_mb"`
}

// CatalogConfig controls the document catalog cache.
type CatalogConfig struct {
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
}

const configDir = ".veridoc"
const configFile = "config.yaml"

// Dir returns the veridoc state directory inside the given base directory.
func Dir(base string) string {
	return filepath.Join(base, configDir)
}

// ReadConfig reads .veridoc/config.yaml from the given directory.
// dir is the base directory (not .veridoc/ itself).
// Returns an error if the file is not found or YAML is malformed.
func ReadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, configDir, configFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// WriteConfig writes cfg to .veridoc/config.yaml in the given directory.
// Creates the .veridoc/ directory if it does not exist.
func WriteConfig(dir string, cfg *Config) error {
	dirPath := filepath.Join(dir, configDir)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	path := filepath.Join(dirPath, configFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Backend: BackendConfig{
			URL:     "http://localhost:8000",
			Timeout: 120,
		},
		Search: SearchConfig{
			PacingDelayMS: 500,
		},
		Upload: UploadConfig{
			MaxFileMB: 50,
		},
		Catalog: CatalogConfig{
			CacheTTLSeconds: 60,
		},
	}
}
