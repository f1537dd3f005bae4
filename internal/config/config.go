// Package config reads the server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	HTTPAddr string `env:"SURGAME_HTTP_ADDR" envDefault:":8080"`
	Storage  string `env:"SURGAME_STORAGE" envDefault:"postgres"`
	DB       DB

	JWTSecret   string   `env:"SURGAME_JWT_SECRET"`
	PassDomain  string   `env:"SURGAME_API_PASS_DOMAIN"`
	CORSOrigins []string `env:"SURGAME_CORS_ORIGINS" envSeparator:","`
	// APIURL is the public base url of this deployment. The reset routes open
	// only when it is one of TestAPIURLs.
	APIURL      string   `env:"SURGAME_API_URL"`
	TestAPIURLs []string `env:"SURGAME_TEST_API_URLS" envSeparator:","`

	CatalogFile        string `env:"SURGAME_CATALOG_FILE" envDefault:"config/catalog.toml"`
	CatalogRefreshCron string `env:"SURGAME_CATALOG_REFRESH_CRON"`
	ItemMetaCacheSize  int    `env:"SURGAME_ITEM_META_CACHE_SIZE" envDefault:"4096"`
	MigrationsDir      string `env:"SURGAME_MIGRATIONS_DIR"`

	ResetGoldItemID int64 `env:"SURGAME_RESET_GOLD_ITEM_ID" envDefault:"100"`
	ResetGoldAmount int64 `env:"SURGAME_RESET_GOLD_AMOUNT" envDefault:"1000"`
	KeyedDowngrade  bool  `env:"SURGAME_KEYED_DOWNGRADE"`
	StaminaMax      int64 `env:"SURGAME_STAMINA_MAX" envDefault:"100"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

type DB struct {
	DSN             string        `env:"SURGAME_DB_DSN"`
	MaxOpenConns    int           `env:"SURGAME_DB_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns    int           `env:"SURGAME_DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"SURGAME_DB_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// Load parses the process environment and validates the result.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom is Load over an explicit variable set.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	switch c.Storage {
	case StoragePostgres:
		if strings.TrimSpace(c.DB.DSN) == "" {
			errs = append(errs, errors.New("SURGAME_DB_DSN is required for postgres storage"))
		}
	case StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown SURGAME_STORAGE %q", c.Storage))
	}
	if c.JWTSecret == "" && c.PassDomain == "" {
		errs = append(errs, errors.New("set SURGAME_JWT_SECRET or SURGAME_API_PASS_DOMAIN"))
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("unknown LOG_FORMAT %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// ResetAllowed reports whether APIURL names a test deployment.
func (c Config) ResetAllowed() bool {
	api := normalizeURL(c.APIURL)
	if api == "" {
		return false
	}
	return slices.ContainsFunc(c.TestAPIURLs, func(u string) bool {
		return normalizeURL(u) == api
	})
}

func normalizeURL(u string) string {
	return strings.TrimRight(strings.TrimSpace(u), "/")
}
