// Package config loads assetgen settings from pubspec.yaml and assetgen.yml.
package config

import (
	"fmt"

	"github.com/wizzomafizzo/assetgen/internal/constants"
	"gopkg.in/yaml.v3"
)

// DefaultConfig returns the default assetgen configuration
func DefaultConfig() *Config {
	namedWithParent := constants.DefaultNamedWithParent
	autoDetection := constants.DefaultAutoDetection
	return &Config{
		AssetRoot:       constants.DefaultAssetRoot,
		OutputDir:       constants.DefaultOutputDir,
		OutputFilename:  constants.DefaultOutputFilename,
		ClassName:       constants.DefaultClassName,
		NamedWithParent: &namedWithParent,
		AutoDetection:   &autoDetection,
		Ignore:          []string{"**/Thumbs.db", "**/desktop.ini"},
		Debounce:        constants.DefaultDebounce,
		LogLevel:        "info",
	}
}

// DefaultConfigYAML returns the default configuration as YAML bytes
func DefaultConfigYAML() ([]byte, error) {
	return MarshalYAML(DefaultConfig())
}

// MarshalYAML renders a config the way assetgen.yml is written on disk.
func MarshalYAML(c *Config) ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to YAML: %w", err)
	}
	return data, nil
}
