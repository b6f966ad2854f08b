// Package config loads the deck routing configuration and the template
// source produced by the external geometry-extraction collaborator.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/slideroute/internal/contract"
)

// DeckConfig holds the routing settings loaded from slideroute.yml: the four
// static mapping tables plus the path of the template source file.
type DeckConfig struct {
	TemplatePath string                 `yaml:"templatePath,omitempty"`
	Mappings     contract.MappingConfig `yaml:",inline"`
}

// Load attempts to read slideroute.yml or slideroute.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*DeckConfig, error) {
	for _, name := range []string{"slideroute.yml", "slideroute.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		return Parse(data)
	}
	return &DeckConfig{}, nil
}

// LoadFile reads a deck config from an explicit path.
func LoadFile(path string) (*DeckConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML deck config.
func Parse(data []byte) (*DeckConfig, error) {
	var cfg DeckConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadTemplate reads and validates a template source file. The external
// extractor emits JSON; only the top-level shape is checked here.
func LoadTemplate(path string) (*contract.TemplateSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading template source %s: %w", path, err)
	}
	src, err := contract.ParseSource(data)
	if err != nil {
		return nil, fmt.Errorf("config: template source %s: %w", path, err)
	}
	return src, nil
}

// LoadRuntimeMappings reads an optional runtime mapping table file (YAML),
// used by drift checks to compare against the tables actually in use.
func LoadRuntimeMappings(path string) (*contract.MappingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading runtime mappings %s: %w", path, err)
	}
	var cfg contract.MappingConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing runtime mappings %s: %w", path, err)
	}
	return &cfg, nil
}
