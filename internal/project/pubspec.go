package project

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/wizzomafizzo/assetgen/internal/constants"
	"gopkg.in/yaml.v3"
)

// Pubspec holds the parts of pubspec.yaml assetgen reads.
type Pubspec struct {
	Dependencies map[string]yaml.Node `yaml:"dependencies"`
	Flutter      yaml.Node            `yaml:"flutter"`
	// Generator is the raw flutter_assets_generator section, decoded by config.
	Generator yaml.Node `yaml:"flutter_assets_generator"`
	Name      string    `yaml:"name"`
}

// ReadPubspec parses root/pubspec.yaml.
func ReadPubspec(fs afero.Fs, root string) (*Pubspec, error) {
	path := filepath.Join(root, constants.PubspecFilename)
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParsePubspec(data)
}

// ParsePubspec parses pubspec.yaml contents.
func ParsePubspec(data []byte) (*Pubspec, error) {
	var p Pubspec
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse pubspec: %w", err)
	}
	return &p, nil
}

// DeclaresFlutter reports whether the package depends on the Flutter SDK or
// declares a flutter section.
func (p *Pubspec) DeclaresFlutter() bool {
	if _, ok := p.Dependencies["flutter"]; ok {
		return true
	}
	return p.Flutter.Kind == yaml.MappingNode
}

// HasGeneratorSection reports whether the generator section is present.
func (p *Pubspec) HasGeneratorSection() bool {
	return p.Generator.Kind == yaml.MappingNode
}

// Detector decides whether a directory holds a project assetgen should act on.
type Detector func(root string) bool

// FlutterDetector returns a Detector that accepts roots whose pubspec.yaml
// declares Flutter.
func FlutterDetector(fs afero.Fs) Detector {
	return func(root string) bool {
		p, err := ReadPubspec(fs, root)
		if err != nil {
			return false
		}
		return p.DeclaresFlutter()
	}
}
