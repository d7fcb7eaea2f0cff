package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Extension != ".ts" {
		t.Errorf("Extension = %q, want %q", cfg.Extension, ".ts")
	}
	if cfg.Recursive {
		t.Error("Recursive should be false by default")
	}
	if cfg.ClientType != "WordPressClient" {
		t.Errorf("ClientType = %q, want %q", cfg.ClientType, "WordPressClient")
	}
	if cfg.MethodPrefix != "handle" {
		t.Errorf("MethodPrefix = %q, want %q", cfg.MethodPrefix, "handle")
	}
	if len(cfg.Exclude) == 0 {
		t.Error("Exclude should carry defaults")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"bad version", func(c *Config) { c.Version = 2 }, true},
		{"extension without dot", func(c *Config) { c.Extension = "ts" }, true},
		{"empty extension", func(c *Config) { c.Extension = "" }, true},
		{"empty client type", func(c *Config) { c.ClientType = "" }, true},
		{"empty method prefix", func(c *Config) { c.MethodPrefix = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	// Missing config file falls back to defaults
	if cfg.Extension != ".ts" {
		t.Errorf("Extension = %q, want default %q", cfg.Extension, ".ts")
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	configDir := filepath.Join(dir, ".handlerfix")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}

	content := `{
  "version": 1,
  "extension": ".tsx",
  "recursive": true,
  "clientType": "ApiClient"
}`
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Extension != ".tsx" {
		t.Errorf("Extension = %q, want %q", cfg.Extension, ".tsx")
	}
	if !cfg.Recursive {
		t.Error("Recursive should be true")
	}
	if cfg.ClientType != "ApiClient" {
		t.Errorf("ClientType = %q, want %q", cfg.ClientType, "ApiClient")
	}
	// Unset fields keep defaults
	if cfg.MethodPrefix != "handle" {
		t.Errorf("MethodPrefix = %q, want default %q", cfg.MethodPrefix, "handle")
	}
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Extension = ".mts"
	if err := cfg.Save(dir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if loaded.Extension != ".mts" {
		t.Errorf("Extension = %q, want %q", loaded.Extension, ".mts")
	}
}
