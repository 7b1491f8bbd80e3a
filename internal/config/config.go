// Package config holds the runtime settings of the gachactl tool.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/xtding233/gacha-core/internal/logging"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "GACHA_"

// Config is the CLI runtime configuration. Flags override these values.
type Config struct {
	// CatalogDir holds economy.yaml and banners/.
	CatalogDir string `env:"CATALOG_DIR" envDefault:"catalog"`
	// SaveFile is the YAML save holding the wallet and banner states.
	SaveFile string `env:"SAVE_FILE" envDefault:"gacha-save.yaml"`
	// AuditDB is the SQLite audit database; empty disables auditing.
	AuditDB string `env:"AUDIT_DB"`
	// Seed makes every roll reproducible; 0 draws a fresh seed.
	Seed uint64 `env:"SEED"`

	Logging logging.Config `envPrefix:"LOG_"`
}

// Load reads the optional dotenv files (".env" when none are given) and then
// parses GACHA_* variables. Variables already set in the environment win over
// dotenv values.
func Load(dotenv ...string) (Config, error) {
	if len(dotenv) == 0 {
		dotenv = []string{".env"}
	}
	for _, p := range dotenv {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", p, err)
		}
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from GACHA_* environment variables.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks the settings that have no usable fallback.
func (c Config) Validate() error {
	var errs []string
	if strings.TrimSpace(c.CatalogDir) == "" {
		errs = append(errs, "catalog dir is required")
	}
	if strings.TrimSpace(c.SaveFile) == "" {
		errs = append(errs, "save file is required")
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Sprintf("log format must be console or json, got %q", c.Logging.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
