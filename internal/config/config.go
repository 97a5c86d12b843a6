package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/razemify/razemify/pkg/params"
)

// Config holds the CLI application configuration
type Config struct {
	Processing ProcessingConfig `json:"processing"`
	Rembg      RembgConfig      `json:"rembg"`
	Output     OutputConfig     `json:"output"`
}

// ProcessingConfig holds the default pipeline selection
type ProcessingConfig struct {
	Preset  string `json:"preset"`
	Palette string `json:"palette"`
}

// RembgConfig holds background-removal defaults
type RembgConfig struct {
	Model              string  `json:"model"`
	MaskThresholdRatio float64 `json:"mask_threshold_ratio"`
}

// OutputConfig holds output generation defaults
type OutputConfig struct {
	OutputDir string `json:"output_dir"`
	Suffix    string `json:"suffix"`
	Workers   int    `json:"workers"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Processing: ProcessingConfig{
			Preset:  "detailed_standard",
			Palette: "original",
		},
		Rembg: RembgConfig{
			Model:              "u2net",
			MaskThresholdRatio: 0.5,
		},
		Output: OutputConfig{
			OutputDir: "./output",
			Suffix:    "_posterized",
			Workers:   4,
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, ok := params.FromPreset(c.Processing.Preset); !ok {
		return fmt.Errorf("processing.preset %q is not a known preset", c.Processing.Preset)
	}

	if c.Rembg.MaskThresholdRatio < 0.30 || c.Rembg.MaskThresholdRatio > 0.80 {
		return fmt.Errorf("rembg.mask_threshold_ratio must be between 0.30 and 0.80")
	}

	if c.Output.Workers < 1 {
		return fmt.Errorf("output.workers must be positive")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "razemify", "config.json")
}
