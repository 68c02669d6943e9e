// Package config provides configuration loading and structs for tradeprep.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Server     ServerConfig     `yaml:"server"`
	Preprocess PreprocessConfig `yaml:"preprocess"`
	Watch      WatchConfig      `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// WatchConfig holds inbox watch settings.
type WatchConfig struct {
	Directories []string `yaml:"directories"`
	Extensions  []string `yaml:"extensions"`
	Recursive   *bool    `yaml:"recursive"`
	// OutputDir receives the reports, named <file>.<path hash>.prep.json. Empty
	// writes <file>.prep.json next to the input.
	OutputDir string `yaml:"output_dir"`
}

// RecursiveOrDefault returns whether to watch recursively; defaults to false when unset.
func (w *WatchConfig) RecursiveOrDefault() bool {
	if w.Recursive != nil {
		return *w.Recursive
	}
	return false
}

// PreprocessConfig controls the preprocessing pipeline.
type PreprocessConfig struct {
	// MinLineLength and MaxLineLength bound the lines the noise filter keeps.
	// An explicit 0 in the config file is kept as 0.
	MinLineLength int `yaml:"min_line_length" json:"min_line_length"`
	MaxLineLength int `yaml:"max_line_length" json:"max_line_length"`
	// Stage toggles are pointers so an omitted key means enabled.
	EnableNoiseRemoval   *bool `yaml:"enable_noise_removal" json:"enable_noise_removal"`
	EnableFieldDetection *bool `yaml:"enable_field_detection" json:"enable_field_detection"`
	EnableSmartChunking  *bool `yaml:"enable_smart_chunking" json:"enable_smart_chunking"`
	// MaxLLMTokens is the chunking budget, estimated as words * 1.3. 0 selects
	// no sections.
	MaxLLMTokens int `yaml:"max_llm_tokens" json:"max_llm_tokens"`
	// MaxInputBytes caps raw input size. 0 disables the cap.
	MaxInputBytes int `yaml:"max_input_bytes" json:"max_input_bytes"`
}

// NoiseRemoval reports whether the noise filter stage runs.
func (p *PreprocessConfig) NoiseRemoval() bool { return boolOrTrue(p.EnableNoiseRemoval) }

// FieldDetection reports whether the field detector stage runs.
func (p *PreprocessConfig) FieldDetection() bool { return boolOrTrue(p.EnableFieldDetection) }

// SmartChunking reports whether the budgeted chunker stage runs.
func (p *PreprocessConfig) SmartChunking() bool { return boolOrTrue(p.EnableSmartChunking) }

func boolOrTrue(b *bool) bool {
	if b == nil {
		return true
	}
	return *b
}

// Bool returns a pointer to b, for building configs in code.
func Bool(b bool) *bool {
	return &b
}

// Validate rejects configurations that cannot produce a meaningful run.
func (p *PreprocessConfig) Validate() error {
	if p.MinLineLength < 0 {
		return fmt.Errorf("%w: min_line_length must not be negative (got %d)", ErrInvalidConfig, p.MinLineLength)
	}
	if p.MaxLineLength < 0 {
		return fmt.Errorf("%w: max_line_length must not be negative (got %d)", ErrInvalidConfig, p.MaxLineLength)
	}
	if p.MinLineLength > p.MaxLineLength {
		return fmt.Errorf("%w: min_line_length %d exceeds max_line_length %d", ErrInvalidConfig, p.MinLineLength, p.MaxLineLength)
	}
	if p.MaxLLMTokens < 0 {
		return fmt.Errorf("%w: max_llm_tokens must not be negative (got %d)", ErrInvalidConfig, p.MaxLLMTokens)
	}
	if p.MaxInputBytes < 0 {
		return fmt.Errorf("%w: max_input_bytes must not be negative (got %d)", ErrInvalidConfig, p.MaxInputBytes)
	}
	return nil
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if err := c.Preprocess.Validate(); err != nil {
		return err
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	return nil
}

// Load reads and parses the config file at path, expands paths, applies defaults
// and validates the result. The file is decoded over the defaults, so a
// preprocess key set explicitly to 0 keeps that value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyServiceDefaults(cfg)

	configDir := filepath.Dir(path)
	for i := range cfg.Watch.Directories {
		cfg.Watch.Directories[i] = expandPath(cfg.Watch.Directories[i], configDir)
	}
	if cfg.Watch.OutputDir != "" {
		cfg.Watch.OutputDir = expandPath(cfg.Watch.OutputDir, configDir)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
