package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigMatchesSpecDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Search.FuzzyThreshold != 60 {
		t.Errorf("fuzzy threshold = %v, want 60", cfg.Search.FuzzyThreshold)
	}
	if cfg.Resolver.MaxDepth != 5 {
		t.Errorf("max depth = %d, want 5", cfg.Resolver.MaxDepth)
	}
	if cfg.Installer.Concurrency != 5 {
		t.Errorf("concurrency = %d, want 5", cfg.Installer.Concurrency)
	}
	if cfg.Installer.RetryMaxAttempts != 3 {
		t.Errorf("retry max attempts = %d, want 3", cfg.Installer.RetryMaxAttempts)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load should tolerate a missing file, got %v", err)
	}
	if cfg.Search.FuzzyThreshold != 60 {
		t.Errorf("expected defaults to apply, got %v", cfg.Search.FuzzyThreshold)
	}
}

func TestLoadOverridesDefaultsFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crm.yaml")
	content := []byte("catalog: /tmp/mycatalog\nsearch:\n  fuzzy_threshold: 75\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Catalog != "/tmp/mycatalog" {
		t.Errorf("catalog = %q", cfg.Catalog)
	}
	if cfg.Search.FuzzyThreshold != 75 {
		t.Errorf("fuzzy threshold = %v, want 75", cfg.Search.FuzzyThreshold)
	}
}

func TestEnvOverridesApplyAfterYAML(t *testing.T) {
	t.Setenv("CRM_CATALOG", "/env/catalog")
	t.Setenv("NO_COLOR", "1")
	t.Setenv("CRM_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Catalog != "/env/catalog" {
		t.Errorf("catalog = %q, want env override", cfg.Catalog)
	}
	if !cfg.UI.NoColor {
		t.Error("NO_COLOR should force UI.NoColor")
	}
	if !cfg.Logging.DebugMode {
		t.Error("CRM_LOG_LEVEL=debug should set DebugMode")
	}
}
