package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/wizzomafizzo/assetgen/internal/assets"
	"github.com/wizzomafizzo/assetgen/internal/constants"
	"github.com/wizzomafizzo/assetgen/internal/generator"
	"github.com/wizzomafizzo/assetgen/internal/naming"
	"github.com/wizzomafizzo/assetgen/internal/project"
	"gopkg.in/yaml.v3"
)

// Config holds generator settings. Pointer fields distinguish "unset" from
// an explicit false or empty value so layers can be merged.
type Config struct {
	PathPrefix         *string       `yaml:"path_prefix,omitempty"`
	NamedWithParent    *bool         `yaml:"named_with_parent,omitempty"`
	AutoDetection      *bool         `yaml:"auto_detection,omitempty"`
	IncludeDirectories *bool         `yaml:"include_directories,omitempty"`
	PackageParameter   *bool         `yaml:"package_parameter_enabled,omitempty"`
	AssetRoot          string        `yaml:"asset_root,omitempty"`
	OutputDir          string        `yaml:"output_dir,omitempty"`
	OutputFilename     string        `yaml:"output_filename,omitempty"`
	ClassName          string        `yaml:"class_name,omitempty"`
	LogLevel           string        `yaml:"log_level,omitempty"`
	Ignore             []string      `yaml:"ignore,omitempty"`
	PathIgnore         []string      `yaml:"path_ignore,omitempty"`
	Debounce           time.Duration `yaml:"debounce,omitempty"`
}

// Load reads a standalone config file. It does not validate; call Validate
// after all layers are merged.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return LoadFromYAML(data)
}

// LoadFromYAML loads config from YAML bytes, rejecting unknown keys.
// path_ignore is accepted as an alias and folded into Ignore.
func LoadFromYAML(data []byte) (*Config, error) {
	var config Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		if errors.Is(err, io.EOF) {
			return &config, nil
		}
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if config.PathIgnore != nil {
		config.Ignore = append(config.Ignore, config.PathIgnore...)
		config.PathIgnore = nil
	}
	return &config, nil
}

// FromPubspec decodes the flutter_assets_generator section, if any, with
// the same strict rules as a standalone file.
func FromPubspec(p *project.Pubspec) (*Config, error) {
	if p == nil || !p.HasGeneratorSection() {
		return &Config{}, nil
	}
	data, err := yaml.Marshal(&p.Generator)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s section: %w", constants.ConfigSection, err)
	}
	config, err := LoadFromYAML(data)
	if err != nil {
		return nil, fmt.Errorf("invalid %s section: %w", constants.ConfigSection, err)
	}
	return config, nil
}

// LoadLayered builds the effective config: defaults, then the pubspec
// section, then the standalone file at configPath when it exists.
func LoadLayered(fs afero.Fs, configPath string, pubspec *project.Pubspec) (*Config, error) {
	merged := DefaultConfig()

	fromPubspec, err := FromPubspec(pubspec)
	if err != nil {
		return nil, err
	}
	merged = merged.Merge(fromPubspec)

	if configPath != "" {
		fromFile, err := Load(fs, configPath)
		switch {
		case err == nil:
			merged = merged.Merge(fromFile)
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, err
		}
	}

	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return merged, nil
}

// Merge returns a copy of c with every field set in override applied.
func (c *Config) Merge(override *Config) *Config {
	out := *c
	if override == nil {
		return &out
	}
	if override.AssetRoot != "" {
		out.AssetRoot = override.AssetRoot
	}
	if override.OutputDir != "" {
		out.OutputDir = override.OutputDir
	}
	if override.OutputFilename != "" {
		out.OutputFilename = override.OutputFilename
	}
	if override.ClassName != "" {
		out.ClassName = override.ClassName
	}
	if override.LogLevel != "" {
		out.LogLevel = override.LogLevel
	}
	if override.PathPrefix != nil {
		out.PathPrefix = override.PathPrefix
	}
	if override.NamedWithParent != nil {
		out.NamedWithParent = override.NamedWithParent
	}
	if override.AutoDetection != nil {
		out.AutoDetection = override.AutoDetection
	}
	if override.IncludeDirectories != nil {
		out.IncludeDirectories = override.IncludeDirectories
	}
	if override.PackageParameter != nil {
		out.PackageParameter = override.PackageParameter
	}
	if override.Ignore != nil {
		out.Ignore = override.Ignore
	}
	if override.Debounce != 0 {
		out.Debounce = override.Debounce
	}
	return &out
}

// Validate performs comprehensive config validation
func (c *Config) Validate() error {
	if strings.TrimSpace(c.AssetRoot) == "" {
		return errors.New("asset_root is required and cannot be empty")
	}
	if !naming.IsValidIdentifier(c.ClassName) {
		return fmt.Errorf("class_name %q is not a valid identifier", c.ClassName)
	}
	if strings.ContainsAny(c.OutputFilename, `/\`) {
		return fmt.Errorf("output_filename %q must not contain path separators", c.OutputFilename)
	}
	if err := assets.ValidatePatterns(c.Ignore); err != nil {
		return err
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce %s must not be negative", c.Debounce)
	}
	return nil
}

// AutoDetectionEnabled reports the effective auto_detection flag.
func (c *Config) AutoDetectionEnabled() bool {
	return boolOr(c.AutoDetection, constants.DefaultAutoDetection)
}

// DebounceWindow returns the effective debounce window.
func (c *Config) DebounceWindow() time.Duration {
	if c.Debounce == 0 {
		return constants.DefaultDebounce
	}
	return c.Debounce
}

// AssetRootPath resolves asset_root against projectRoot.
func (c *Config) AssetRootPath(projectRoot string) string {
	return resolve(projectRoot, c.AssetRoot)
}

// OutputPath resolves the generated file path. Relative output_dir values
// live under the project's lib directory.
func (c *Config) OutputPath(projectRoot string) string {
	name := strings.TrimSuffix(c.OutputFilename, constants.GeneratedExtension) + constants.GeneratedExtension
	dir := c.OutputDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(projectRoot, constants.LibDir, dir)
	}
	return filepath.Join(dir, name)
}

// Options converts the config into generator options for projectRoot.
// packageName is the pubspec name, used when package_parameter_enabled is set.
func (c *Config) Options(projectRoot, packageName string) generator.Options {
	assetRoot := c.AssetRootPath(projectRoot)

	var prefix string
	if c.PathPrefix != nil {
		prefix = *c.PathPrefix
	} else if rel, err := filepath.Rel(projectRoot, assetRoot); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
		prefix = filepath.ToSlash(rel) + "/"
	}
	if boolOr(c.PackageParameter, false) && packageName != "" {
		prefix = "packages/" + packageName + "/" + prefix
	}

	return generator.Options{
		AssetRoot:          assetRoot,
		OutputPath:         c.OutputPath(projectRoot),
		ClassName:          c.ClassName,
		PathPrefix:         prefix,
		Ignore:             c.Ignore,
		NamedWithParent:    boolOr(c.NamedWithParent, constants.DefaultNamedWithParent),
		IncludeDirectories: boolOr(c.IncludeDirectories, false),
	}
}

func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, filepath.FromSlash(p))
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
