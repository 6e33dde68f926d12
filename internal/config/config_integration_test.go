package config

import (
	"path/filepath"
	"testing"
)

func TestFullWorkflow(t *testing.T) {
	tmp := t.TempDir()

	// 1. Write default config
	cfgPath := filepath.Join(tmp, "anisearch", "config.toml")
	if err := WriteDefault(cfgPath); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	// 2. Point the catalog somewhere else via the env default
	t.Setenv("ANISEARCH_CATALOG_URL", "http://localhost:8080/v3/search")

	// 3. Load with validation
	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// 4. Verify env substitution worked
	if cfg.Catalog.BaseURL != "http://localhost:8080/v3/search" {
		t.Errorf("expected base URL substituted, got %q", cfg.Catalog.BaseURL)
	}

	// 5. Verify template values and defaults
	if cfg.Search.StartupQuery != "naruto" {
		t.Errorf("expected startup query naruto, got %q", cfg.Search.StartupQuery)
	}
	if !cfg.Search.ClearLoadingOnFailure {
		t.Errorf("expected template to clear loading on failure")
	}
	if cfg.History.Path != DefaultHistoryPath() {
		t.Errorf("expected default history path, got %q", cfg.History.Path)
	}
}

func TestResolve_DiscoversWrittenDefault(t *testing.T) {
	tmp := t.TempDir()
	t.Chdir(tmp)
	t.Setenv("ANISEARCH_CONFIG", "")
	t.Setenv("ANISEARCH_CATALOG_URL", "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "xdg"))

	if err := WriteDefault(DefaultPath()); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	cfg, path, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if path != DefaultPath() {
		t.Errorf("expected discovered path %q, got %q", DefaultPath(), path)
	}
	if cfg.Catalog.BaseURL != DefaultBaseURL {
		t.Errorf("expected default base URL, got %q", cfg.Catalog.BaseURL)
	}
}
