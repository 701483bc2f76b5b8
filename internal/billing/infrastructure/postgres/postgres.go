package postgres

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/jackc/pgx/v5/stdlib"

	"theater-billing/internal/billing/infrastructure/sqlstore"
)

// Open connects through the pgx stdlib driver and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("postgres: empty dsn")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewPlayRepository constructs a Postgres play catalog.
func NewPlayRepository(db *sql.DB) *sqlstore.PlayRepository {
	return sqlstore.NewPlayRepository(db, sqlstore.Postgres)
}

// NewInvoiceRepository constructs a Postgres invoice repository.
func NewInvoiceRepository(db *sql.DB) *sqlstore.InvoiceRepository {
	return sqlstore.NewInvoiceRepository(db, sqlstore.Postgres)
}
