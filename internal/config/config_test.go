package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := cfg.HTTP.GetTimeout(); got != 30*time.Second {
		t.Errorf("http timeout = %v, want 30s", got)
	}
	if got := cfg.Transfer.GetBufferSize(); got != 64*1024 {
		t.Errorf("buffer size = %d, want %d", got, 64*1024)
	}
	if cfg.Transfer.PartSuffix != ".part" {
		t.Errorf("part suffix = %q, want .part", cfg.Transfer.PartSuffix)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("logging = %q/%q, want info/text", cfg.Logging.Level, cfg.Logging.Format)
	}
	if cfg.History.Disabled {
		t.Error("history should be enabled by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	content := []byte("http:\n  timeout: 5s\nlogging:\n  level: debug\n  format: json\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := cfg.HTTP.GetTimeout(); got != 5*time.Second {
		t.Errorf("http timeout = %v, want 5s", got)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() with missing explicit file should fail")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		HTTP:     HTTPConfig{Timeout: "30s"},
		Transfer: TransferConfig{BufferSizeKB: 64, PartSuffix: ".part"},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad timeout", func(c *Config) { c.HTTP.Timeout = "soon" }, true},
		{"zero buffer", func(c *Config) { c.Transfer.BufferSizeKB = 0 }, true},
		{"empty suffix", func(c *Config) { c.Transfer.PartSuffix = "" }, true},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
