// Package config loads engine settings and document metadata from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Config holds the engine settings an editor host tunes per installation.
type Config struct {
	UndoLimit    int      `yaml:"undo_limit"`
	Workers      int      `yaml:"workers"`
	ResourceDirs []string `yaml:"resource_dirs"`
	Timeline     Timeline `yaml:"timeline"`
}

// Timeline holds the metrics the focus queries run against.
type Timeline struct {
	FrameWidth int `yaml:"frame_width"`
	Margin     int `yaml:"margin"`
}

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		UndoLimit: 100,
		Workers:   0, // pool picks the CPU count
		Timeline: Timeline{
			FrameWidth: 10,
			Margin:     4,
		},
	}
}

// Load reads a YAML config file over the defaults, so absent fields keep
// their default values.
func Load(filename string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(filename)
	if err != nil {
		return cfg, fmt.Errorf("config: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal %s: %w", filename, err)
	}
	return cfg, nil
}

// Meta is the sidecar identifying a saved document.
type Meta struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	SavedAt string `yaml:"saved_at"`
}

// NewMeta mints metadata for a fresh document.
func NewMeta(name string) Meta {
	return Meta{
		ID:      uuid.NewString(),
		Name:    name,
		SavedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// SaveMeta writes the sidecar next to a document.
func SaveMeta(filename string, m Meta) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("config: marshal %s: %w", filename, err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", filename, err)
	}
	return nil
}

// LoadMeta reads a document sidecar.
func LoadMeta(filename string) (Meta, error) {
	var m Meta
	data, err := os.ReadFile(filename)
	if err != nil {
		return m, fmt.Errorf("config: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("config: unmarshal %s: %w", filename, err)
	}
	return m, nil
}
