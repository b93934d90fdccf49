package config

import (
	"os"
	"path/filepath"
	"testing"
)

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestLoadDefaults(t *testing.T) {
	isolateHome(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != "anthropic" {
		t.Errorf("expected anthropic default, got %q", cfg.Provider)
	}
	if cfg.Refresh.IntervalMs != 2000 {
		t.Errorf("expected 2000ms refresh default, got %d", cfg.Refresh.IntervalMs)
	}
	if !cfg.Diagnostics.Enabled {
		t.Error("diagnostics should default to enabled")
	}
	if cfg.Diagnostics.Path == "" {
		t.Error("diagnostics path default should be filled in")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	isolateHome(t)
	t.Setenv("SHEETMIND_PROVIDER", "ollama")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != "ollama" {
		t.Errorf("env override ignored, got %q", cfg.Provider)
	}
}

func TestLoadFromFile(t *testing.T) {
	home := isolateHome(t)
	dir := filepath.Join(home, ".sheetmind")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "provider: openai\nrefresh:\n  interval_ms: 500\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != "openai" {
		t.Errorf("file value ignored, got %q", cfg.Provider)
	}
	if cfg.Refresh.IntervalMs != 500 {
		t.Errorf("expected 500, got %d", cfg.Refresh.IntervalMs)
	}
}

func TestWriteDefault(t *testing.T) {
	isolateHome(t)

	path, err := WriteDefault()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	// A second call must refuse to overwrite.
	if _, err := WriteDefault(); !os.IsExist(err) {
		t.Errorf("expected ErrExist on second write, got %v", err)
	}

	// The generated file must load cleanly.
	cfg, err := Load()
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if cfg.Provider != "anthropic" {
		t.Errorf("unexpected provider: %q", cfg.Provider)
	}
}
