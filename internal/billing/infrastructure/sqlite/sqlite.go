package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"theater-billing/internal/billing/infrastructure/sqlstore"
)

// Open opens (creating if needed) a SQLite database file and applies the schema.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		path = "theater.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Single writer; avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := sqlstore.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewPlayRepository constructs a SQLite play catalog.
func NewPlayRepository(db *sql.DB) *sqlstore.PlayRepository {
	return sqlstore.NewPlayRepository(db, sqlstore.SQLite)
}

// NewInvoiceRepository constructs a SQLite invoice repository.
func NewInvoiceRepository(db *sql.DB) *sqlstore.InvoiceRepository {
	return sqlstore.NewInvoiceRepository(db, sqlstore.SQLite)
}
