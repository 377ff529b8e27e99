// Package config loads and validates the optional forge.yml project file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where commands look for a project file when --config is not
// given. A missing file is not an error; defaults apply.
const DefaultPath = "forge.yml"

// Config is the top-level forge.yml configuration.
type Config struct {
	Version    string           `yaml:"version"`
	TraitsDir  string           `yaml:"traits_dir,omitempty"` // Layer image root, one subdirectory per trait-type
	Sheet      string           `yaml:"sheet,omitempty"`      // Trait catalog workbook
	Output     OutputConfig     `yaml:"output,omitempty"`
	Image      ImageConfig      `yaml:"image,omitempty"`
	Generation GenerationConfig `yaml:"generation,omitempty"`
}

// OutputConfig names the files the generate and render commands write.
type OutputConfig struct {
	Metadata string `yaml:"metadata,omitempty"`
	Traits   string `yaml:"traits,omitempty"`
	Stats    string `yaml:"stats,omitempty"`
	Images   string `yaml:"images,omitempty"` // Directory for rendered items
}

// ImageConfig controls rendering dimensions. Layers are resized to a square
// of Size pixels before compositing.
type ImageConfig struct {
	Size int `yaml:"size,omitempty"`
}

// GenerationConfig controls the engine.
type GenerationConfig struct {
	Seed        uint64 `yaml:"seed,omitempty"`         // 0 = non-deterministic
	MaxAttempts int    `yaml:"max_attempts,omitempty"` // 0 = engine default (10000)
}

// Default returns the configuration used when no forge.yml exists.
func Default() *Config {
	return &Config{
		Version:   "1.0",
		TraitsDir: "traits",
		Sheet:     "traits_info.xlsx",
		Output: OutputConfig{
			Metadata: "metadata.json",
			Traits:   "traits.json",
			Stats:    "trait_usage_statistics.json",
			Images:   "output",
		},
		Image:      ImageConfig{Size: 1000},
		Generation: GenerationConfig{},
	}
}

// Load reads and validates a forge.yml from the given path. Fields left
// empty in the file fall back to defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads the config at path, or returns defaults when the file
// does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Version == "" {
		c.Version = def.Version
	}
	if c.TraitsDir == "" {
		c.TraitsDir = def.TraitsDir
	}
	if c.Sheet == "" {
		c.Sheet = def.Sheet
	}
	if c.Output.Metadata == "" {
		c.Output.Metadata = def.Output.Metadata
	}
	if c.Output.Traits == "" {
		c.Output.Traits = def.Output.Traits
	}
	if c.Output.Stats == "" {
		c.Output.Stats = def.Output.Stats
	}
	if c.Output.Images == "" {
		c.Output.Images = def.Output.Images
	}
	if c.Image.Size == 0 {
		c.Image.Size = def.Image.Size
	}
}

// Validate performs strict validation on the configuration.
func (c *Config) Validate() error {
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}
	if c.Image.Size < 1 {
		return fmt.Errorf("image.size must be positive, got %d", c.Image.Size)
	}
	if c.Generation.MaxAttempts < 0 {
		return fmt.Errorf("generation.max_attempts must be >= 0 (0 = default), got %d", c.Generation.MaxAttempts)
	}
	return nil
}
