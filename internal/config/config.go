// Package config loads service configuration from the environment with an
// optional YAML overlay.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Archive drivers.
const (
	ArchiveNone = "none"
	ArchiveFS   = "fs"
	ArchiveS3   = "s3"
)

// SourceConfig selects where plays or invoices come from.
type SourceConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// S3Config addresses the statement archive bucket.
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"path_style"`
}

// ArchiveConfig selects where exported statements are stored.
type ArchiveConfig struct {
	Driver string   `yaml:"driver"`
	Root   string   `yaml:"root"`
	S3     S3Config `yaml:"s3"`
}

// Config is the service configuration.
type Config struct {
	HTTPAddr          string        `yaml:"http_addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	Catalog           SourceConfig  `yaml:"catalog"`
	Invoices          SourceConfig  `yaml:"invoices"`
	DatabaseURL       string        `yaml:"database_url"`
	SQLitePath        string        `yaml:"sqlite_path"`
	JWTSecret         string        `yaml:"jwt_secret"`
	Archive           ArchiveConfig `yaml:"archive"`
	Locale            string        `yaml:"locale"`
	Currency          string        `yaml:"currency"`
}

// Load reads the environment, then overlays the YAML file named by BILLING_CONFIG.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:          getenvDefault("HTTP_ADDR", ":8080"),
		ReadHeaderTimeout: getenvDuration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		Catalog: SourceConfig{
			Driver: getenvDefault("BILLING_CATALOG_DRIVER", DriverFile),
			Path:   getenvDefault("BILLING_CATALOG_PATH", "plays.json"),
		},
		Invoices: SourceConfig{
			Driver: getenvDefault("BILLING_INVOICES_DRIVER", DriverFile),
			Path:   getenvDefault("BILLING_INVOICES_PATH", "invoices.json"),
		},
		DatabaseURL: getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		SQLitePath:  getenvDefault("BILLING_SQLITE_PATH", filepath.FromSlash("var/theater.db")),
		JWTSecret:   getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
		Archive: ArchiveConfig{
			Driver: getenvDefault("BILLING_ARCHIVE_DRIVER", ArchiveNone),
			Root:   getenvDefault("BILLING_ARCHIVE_ROOT", filepath.FromSlash("var/statements")),
			S3: S3Config{
				Bucket:    os.Getenv("BILLING_ARCHIVE_S3_BUCKET"),
				Region:    getenvDefault("BILLING_ARCHIVE_S3_REGION", "us-east-1"),
				Endpoint:  os.Getenv("BILLING_ARCHIVE_S3_ENDPOINT"),
				PathStyle: strings.EqualFold(os.Getenv("BILLING_ARCHIVE_S3_PATH_STYLE"), "true"),
			},
		},
		Locale:   getenvDefault("BILLING_LOCALE", "en-US"),
		Currency: getenvDefault("BILLING_CURRENCY", "USD"),
	}

	if path := os.Getenv("BILLING_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	return cfg, cfg.Validate()
}

// Validate checks drivers and the settings they require.
func (c Config) Validate() error {
	for name, src := range map[string]SourceConfig{"catalog": c.Catalog, "invoices": c.Invoices} {
		switch src.Driver {
		case DriverFile:
			if src.Path == "" {
				return fmt.Errorf("config: %s path required for file driver", name)
			}
		case DriverPostgres:
			if c.DatabaseURL == "" {
				return fmt.Errorf("config: DATABASE_URL or PG_DSN required for %s postgres driver", name)
			}
		case DriverSQLite:
			if c.SQLitePath == "" {
				return fmt.Errorf("config: sqlite_path required for %s sqlite driver", name)
			}
		case DriverMemory:
		default:
			return fmt.Errorf("config: unknown %s driver %q", name, src.Driver)
		}
	}
	switch c.Archive.Driver {
	case "", ArchiveNone:
	case ArchiveFS:
		if c.Archive.Root == "" {
			return errors.New("config: archive root required for fs archive")
		}
	case ArchiveS3:
		if c.Archive.S3.Bucket == "" {
			return errors.New("config: archive s3 bucket required for s3 archive")
		}
	default:
		return fmt.Errorf("config: unknown archive driver %q", c.Archive.Driver)
	}
	return nil
}

// UsesPostgres reports whether any source needs a Postgres connection.
func (c Config) UsesPostgres() bool {
	return c.Catalog.Driver == DriverPostgres || c.Invoices.Driver == DriverPostgres
}

// UsesSQLite reports whether any source needs the SQLite database.
func (c Config) UsesSQLite() bool {
	return c.Catalog.Driver == DriverSQLite || c.Invoices.Driver == DriverSQLite
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}
