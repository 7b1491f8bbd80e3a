package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CatalogDir != "catalog" || cfg.SaveFile != "gacha-save.yaml" {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.Seed != 0 || cfg.AuditDB != "" {
		t.Fatalf("optional settings should be unset: %+v", cfg)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Fatalf("logging defaults = %+v", cfg.Logging)
	}
}

func TestLoadEnvAndDotenv(t *testing.T) {
	dotenv := filepath.Join(t.TempDir(), "test.env")
	body := "GACHA_SEED=42\nGACHA_CATALOG_DIR=/from/dotenv\nGACHA_LOG_FORMAT=json\n"
	if err := os.WriteFile(dotenv, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GACHA_CATALOG_DIR", "/from/env")
	t.Setenv("GACHA_AUDIT_DB", "audit.db")
	// godotenv writes the process environment; restore it afterwards.
	t.Setenv("GACHA_SEED", "")
	os.Unsetenv("GACHA_SEED")
	t.Setenv("GACHA_LOG_FORMAT", "")
	os.Unsetenv("GACHA_LOG_FORMAT")

	cfg, err := Load(dotenv)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Seed != 42 {
		t.Fatalf("seed = %d", cfg.Seed)
	}
	if cfg.CatalogDir != "/from/env" {
		t.Fatalf("environment should win over dotenv, got %q", cfg.CatalogDir)
	}
	if cfg.AuditDB != "audit.db" || cfg.Logging.Format != "json" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadRejects(t *testing.T) {
	cases := []struct {
		name, key, value, want string
	}{
		{"bad seed", "GACHA_SEED", "abc", "parse env"},
		{"bad format", "GACHA_LOG_FORMAT", "xml", "log format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load(filepath.Join(t.TempDir(), "none.env"))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want mention of %q", err, tc.want)
			}
		})
	}
}
