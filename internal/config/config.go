// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for docuscout.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.docuscout/config.toml
//   - ~/.docuscout/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/docuscout/docuscout-tui/internal/backend"
	"github.com/docuscout/docuscout-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete docuscout configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Backend configuration
	Backend BackendConfig `toml:"backend" json:"backend"`

	// Documents configuration
	Documents DocumentsConfig `toml:"documents" json:"documents"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// BackendConfig describes how to reach the DocuScout backend.
type BackendConfig struct {
	// URL is the backend API base URL.
	URL string `toml:"url" json:"url"`

	// ShortTimeoutSecs is the budget for chat and agent-listing calls.
	ShortTimeoutSecs int `toml:"short_timeout_secs" json:"short_timeout_secs"`

	// LongTimeoutSecs is the budget for ingestion and report generation.
	LongTimeoutSecs int `toml:"long_timeout_secs" json:"long_timeout_secs"`
}

// DocumentsConfig describes the local documents corpus.
type DocumentsConfig struct {
	// Folder is the documents directory offered for ingestion.
	Folder string `toml:"folder" json:"folder"`

	// Watch enables the folder watcher that flags the corpus as stale
	// when files change after ingestion.
	Watch bool `toml:"watch" json:"watch"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// Theme is "dark", "light", or "auto" (detect from the terminal).
	Theme string `toml:"theme" json:"theme"`

	// ShowTimestamps displays message times in the transcript.
	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the default configuration.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Version: "1",
		Backend: BackendConfig{
			URL:              "http://localhost:8001/api",
			ShortTimeoutSecs: 180,
			LongTimeoutSecs:  300,
		},
		Documents: DocumentsConfig{
			Folder: filepath.Join(home, "Documents", "docuscout"),
			Watch:  true,
		},
		UI: UIConfig{
			Theme:          "auto",
			ShowTimestamps: false,
		},
	}
}

// fillDefaults replaces zero values with defaults after a partial file load.
func fillDefaults(cfg *Config) {
	def := Default()
	if cfg.Version == "" {
		cfg.Version = def.Version
	}
	if cfg.Backend.URL == "" {
		cfg.Backend.URL = def.Backend.URL
	}
	if cfg.Backend.ShortTimeoutSecs == 0 {
		cfg.Backend.ShortTimeoutSecs = def.Backend.ShortTimeoutSecs
	}
	if cfg.Backend.LongTimeoutSecs == 0 {
		cfg.Backend.LongTimeoutSecs = def.Backend.LongTimeoutSecs
	}
	if cfg.Documents.Folder == "" {
		cfg.Documents.Folder = def.Documents.Folder
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = def.UI.Theme
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the docuscout configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".docuscout"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	if tomlPath, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				return nil, fmt.Errorf("failed to load TOML config: %w", err)
			}
			return finalize(cfg)
		}
	}

	if jsonPath, err := ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				return nil, fmt.Errorf("failed to load JSON config: %w", err)
			}
			return finalize(cfg)
		}
	}

	return finalize(cfg)
}

// finalize applies env overrides, defaults, and validation.
func finalize(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	fillDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	fillDefaults(cfg)
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	fillDefaults(cfg)
	return nil
}

// LoadFromPath loads a config file by extension, for --config flags.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := LoadTOML(cfg, path); err != nil {
			return nil, err
		}
	case ".json":
		if err := LoadJSON(cfg, path); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}
	return finalize(cfg)
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML path.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
func SaveTOML(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# docuscout configuration file")
	fmt.Fprintln(file, "# Generated by docuscout - edit with care")
	fmt.Fprintln(file, "")

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes one invalid config field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	parsed, err := url.Parse(c.Backend.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ValidationError{Field: "backend.url", Message: "must be an absolute http(s) URL"}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ValidationError{Field: "backend.url", Message: "scheme must be http or https"}
	}
	if c.Backend.ShortTimeoutSecs < 1 {
		return ValidationError{Field: "backend.short_timeout_secs", Message: "must be positive"}
	}
	if c.Backend.LongTimeoutSecs < 1 {
		return ValidationError{Field: "backend.long_timeout_secs", Message: "must be positive"}
	}
	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		return ValidationError{Field: "ui.theme", Message: "must be dark, light, or auto"}
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - DOCUSCOUT_BACKEND_URL: overrides backend.url
//   - DOCUSCOUT_SHORT_TIMEOUT_SECS: overrides backend.short_timeout_secs
//   - DOCUSCOUT_LONG_TIMEOUT_SECS: overrides backend.long_timeout_secs
//   - DOCUSCOUT_DOCS_FOLDER: overrides documents.folder
//   - DOCUSCOUT_WATCH: set to "1" or "true" to enable the folder watcher
//   - DOCUSCOUT_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if u := os.Getenv("DOCUSCOUT_BACKEND_URL"); u != "" {
		c.Backend.URL = u
	}
	if secs := os.Getenv("DOCUSCOUT_SHORT_TIMEOUT_SECS"); secs != "" {
		if n, err := strconv.Atoi(secs); err == nil && n > 0 {
			c.Backend.ShortTimeoutSecs = n
		}
	}
	if secs := os.Getenv("DOCUSCOUT_LONG_TIMEOUT_SECS"); secs != "" {
		if n, err := strconv.Atoi(secs); err == nil && n > 0 {
			c.Backend.LongTimeoutSecs = n
		}
	}
	if folder := os.Getenv("DOCUSCOUT_DOCS_FOLDER"); folder != "" {
		c.Documents.Folder = folder
	}
	if watch := os.Getenv("DOCUSCOUT_WATCH"); watch != "" {
		c.Documents.Watch = watch == "1" || strings.EqualFold(watch, "true")
	}
	if theme := os.Getenv("DOCUSCOUT_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// =============================================================================
// CONVERSIONS
// =============================================================================

// BackendClientConfig converts the file representation into the client's
// configuration.
func (c *Config) BackendClientConfig() *backend.Config {
	return &backend.Config{
		BaseURL:      strings.TrimRight(c.Backend.URL, "/"),
		ShortTimeout: time.Duration(c.Backend.ShortTimeoutSecs) * time.Second,
		LongTimeout:  time.Duration(c.Backend.LongTimeoutSecs) * time.Second,
	}
}
