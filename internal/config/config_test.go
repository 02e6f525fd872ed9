// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Backend.URL != "http://localhost:8001/api" {
		t.Errorf("Unexpected default backend URL: %s", cfg.Backend.URL)
	}
	if cfg.Backend.ShortTimeoutSecs != 180 || cfg.Backend.LongTimeoutSecs != 300 {
		t.Errorf("Unexpected default budgets: %d/%d",
			cfg.Backend.ShortTimeoutSecs, cfg.Backend.LongTimeoutSecs)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoadTOMLPartialFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[backend]\nurl = \"http://10.0.0.5:9000/api\"\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	cfg.Backend.URL = ""
	if err := LoadTOML(cfg, path); err != nil {
		t.Fatalf("LoadTOML failed: %v", err)
	}

	if cfg.Backend.URL != "http://10.0.0.5:9000/api" {
		t.Errorf("File value not applied: %s", cfg.Backend.URL)
	}
	if cfg.Backend.ShortTimeoutSecs != 180 {
		t.Errorf("Missing field should fall back to default, got %d", cfg.Backend.ShortTimeoutSecs)
	}
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"backend": {"url": "http://example.test/api", "short_timeout_secs": 60}}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := LoadJSON(cfg, path); err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	if cfg.Backend.URL != "http://example.test/api" || cfg.Backend.ShortTimeoutSecs != 60 {
		t.Errorf("JSON values not applied: %+v", cfg.Backend)
	}
}

func TestLoadFromPathRejectsUnknownFormat(t *testing.T) {
	if _, err := LoadFromPath("/tmp/config.yaml"); err == nil {
		t.Error("Unknown config format should be rejected")
	}
}

func TestSaveAndReloadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	original := Default()
	original.Backend.URL = "http://127.0.0.1:8001/api"
	original.UI.Theme = "dark"
	if err := SaveTOML(original, path); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	loaded := Default()
	if err := LoadTOML(loaded, path); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if loaded.Backend.URL != original.Backend.URL || loaded.UI.Theme != "dark" {
		t.Errorf("Round trip lost values: %+v", loaded)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing scheme", func(c *Config) { c.Backend.URL = "localhost:8001" }, "backend.url"},
		{"bad scheme", func(c *Config) { c.Backend.URL = "ftp://host/api" }, "backend.url"},
		{"zero short budget", func(c *Config) { c.Backend.ShortTimeoutSecs = 0 }, "backend.short_timeout_secs"},
		{"negative long budget", func(c *Config) { c.Backend.LongTimeoutSecs = -1 }, "backend.long_timeout_secs"},
		{"unknown theme", func(c *Config) { c.UI.Theme = "solarized" }, "ui.theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Expected validation error")
			}
			vErr, ok := err.(ValidationError)
			if !ok || vErr.Field != tt.field {
				t.Errorf("Expected error on %s, got %v", tt.field, err)
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("DOCUSCOUT_BACKEND_URL", "http://envhost:8001/api")
	t.Setenv("DOCUSCOUT_SHORT_TIMEOUT_SECS", "90")
	t.Setenv("DOCUSCOUT_THEME", "light")
	t.Setenv("DOCUSCOUT_WATCH", "false")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Backend.URL != "http://envhost:8001/api" {
		t.Errorf("URL override not applied: %s", cfg.Backend.URL)
	}
	if cfg.Backend.ShortTimeoutSecs != 90 {
		t.Errorf("Timeout override not applied: %d", cfg.Backend.ShortTimeoutSecs)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme override not applied: %s", cfg.UI.Theme)
	}
	if cfg.Documents.Watch {
		t.Error("Watch override not applied")
	}
}

func TestEnvOverrideIgnoresGarbage(t *testing.T) {
	t.Setenv("DOCUSCOUT_SHORT_TIMEOUT_SECS", "not-a-number")

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if cfg.Backend.ShortTimeoutSecs != 180 {
		t.Errorf("Invalid override should be ignored, got %d", cfg.Backend.ShortTimeoutSecs)
	}
}

func TestBackendClientConfig(t *testing.T) {
	cfg := Default()
	cfg.Backend.URL = "http://localhost:8001/api/"

	client := cfg.BackendClientConfig()
	if client.BaseURL != "http://localhost:8001/api" {
		t.Errorf("Trailing slash should be trimmed: %s", client.BaseURL)
	}
	if client.ShortTimeout != 180*time.Second || client.LongTimeout != 300*time.Second {
		t.Errorf("Budget conversion wrong: %v/%v", client.ShortTimeout, client.LongTimeout)
	}
}
