package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BILLING_CONFIG", "")
	t.Setenv("BILLING_CATALOG_DRIVER", "")
	t.Setenv("BILLING_INVOICES_DRIVER", "")
	t.Setenv("BILLING_ARCHIVE_DRIVER", "")
	t.Setenv("HTTP_READ_HEADER_TIMEOUT", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Catalog.Driver != DriverFile || cfg.Invoices.Driver != DriverFile {
		t.Fatalf("unexpected drivers %+v %+v", cfg.Catalog, cfg.Invoices)
	}
	if cfg.Archive.Driver != ArchiveNone {
		t.Fatalf("unexpected archive driver %s", cfg.Archive.Driver)
	}
	if cfg.ReadHeaderTimeout != 5*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.ReadHeaderTimeout)
	}
}

func TestLoad_YAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "billing.yaml")
	data := []byte(`
http_addr: ":9090"
catalog:
  driver: sqlite
invoices:
  driver: sqlite
sqlite_path: /tmp/theater.db
archive:
  driver: s3
  s3:
    bucket: statements
    endpoint: http://localhost:9000
    path_style: true
locale: de-DE
currency: EUR
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("BILLING_CONFIG", path)
	t.Setenv("HTTP_ADDR", ":8081")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("yaml should override env, got %s", cfg.HTTPAddr)
	}
	if !cfg.UsesSQLite() || cfg.UsesPostgres() {
		t.Fatalf("unexpected driver flags")
	}
	if cfg.Archive.S3.Bucket != "statements" || !cfg.Archive.S3.PathStyle || cfg.Archive.S3.Region != "us-east-1" {
		t.Fatalf("unexpected s3 config %+v", cfg.Archive.S3)
	}
	if cfg.Locale != "de-DE" || cfg.Currency != "EUR" {
		t.Fatalf("unexpected money config %s %s", cfg.Locale, cfg.Currency)
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		Catalog:  SourceConfig{Driver: DriverMemory},
		Invoices: SourceConfig{Driver: DriverMemory},
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	cases := map[string]func(c *Config){
		"unknown driver":  func(c *Config) { c.Catalog.Driver = "mongo" },
		"postgres no dsn": func(c *Config) { c.Invoices.Driver = DriverPostgres },
		"file no path":    func(c *Config) { c.Catalog.Driver = DriverFile },
		"s3 no bucket":    func(c *Config) { c.Archive.Driver = ArchiveS3 },
		"unknown archive": func(c *Config) { c.Archive.Driver = "ftp" },
	}
	for name, mutate := range cases {
		cfg := base
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
