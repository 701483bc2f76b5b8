package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	billing "theater-billing/internal/billing/domain"
)

// EnsureSchema applies Schema.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("sqlstore: nil db")
	}
	for _, stmt := range Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlstore: apply schema: %w", err)
		}
	}
	return nil
}

// PlayRepository loads the play catalog from the plays table.
type PlayRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewPlayRepository constructs a repository.
func NewPlayRepository(db *sql.DB, dialect Dialect) *PlayRepository {
	return &PlayRepository{db: db, dialect: dialect}
}

// Driver returns the dialect name.
func (r *PlayRepository) Driver() string { return r.dialect.Name }

// LoadCatalog reads every play into a snapshot.
func (r *PlayRepository) LoadCatalog(ctx context.Context) (*billing.Catalog, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("play repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, genre FROM plays ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var plays []billing.Play
	for rows.Next() {
		var play billing.Play
		var genre string
		if err := rows.Scan(&play.ID, &play.Name, &genre); err != nil {
			return nil, err
		}
		play.Genre = billing.Genre(genre)
		plays = append(plays, play)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return billing.NewCatalog(plays...)
}

// Upsert inserts or replaces a play.
func (r *PlayRepository) Upsert(ctx context.Context, play billing.Play) error {
	if r == nil || r.db == nil {
		return errors.New("play repo: nil db")
	}
	checked, err := billing.NewPlay(play.ID, play.Name, play.Genre)
	if err != nil {
		return err
	}
	p := r.dialect.Placeholder
	query := fmt.Sprintf(`
INSERT INTO plays (id, name, genre)
VALUES (%s, %s, %s)
ON CONFLICT (id) DO UPDATE SET name = excluded.name, genre = excluded.genre`, p(1), p(2), p(3))
	_, err = r.db.ExecContext(ctx, query, checked.ID, checked.Name, checked.Genre.String())
	return err
}

// InvoiceRepository persists invoices and their ordered performances.
type InvoiceRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewInvoiceRepository constructs a repository.
func NewInvoiceRepository(db *sql.DB, dialect Dialect) *InvoiceRepository {
	return &InvoiceRepository{db: db, dialect: dialect}
}

// GetInvoice loads an invoice with performances in position order.
func (r *InvoiceRepository) GetInvoice(ctx context.Context, id string) (*billing.Invoice, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("invoice repo: nil db")
	}
	if id == "" {
		return nil, errors.New("invoice repo: empty id")
	}
	p := r.dialect.Placeholder

	var customer string
	err := r.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT customer FROM invoices WHERE id = %s`, p(1)), id).Scan(&customer)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, billing.ErrInvoiceNotFound
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
SELECT play_id, audience
FROM invoice_performances
WHERE invoice_id = %s
ORDER BY position ASC`, p(1)), id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var lines []billing.Performance
	for rows.Next() {
		var playID string
		var audience int
		if err := rows.Scan(&playID, &audience); err != nil {
			return nil, err
		}
		perf, err := billing.NewPerformance(playID, audience)
		if err != nil {
			return nil, err
		}
		lines = append(lines, perf)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return billing.NewInvoice(id, customer, lines)
}

// ListInvoices loads every invoice ordered by id.
func (r *InvoiceRepository) ListInvoices(ctx context.Context) ([]*billing.Invoice, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("invoice repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM invoices ORDER BY id`)
	if err != nil {
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]*billing.Invoice, 0, len(ids))
	for _, id := range ids {
		invoice, err := r.GetInvoice(ctx, id)
		if err != nil {
			return nil, err
		}
		result = append(result, invoice)
	}
	return result, nil
}

// Save replaces an invoice and its performances in one transaction.
func (r *InvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	if r == nil || r.db == nil {
		return errors.New("invoice repo: nil db")
	}
	if invoice == nil {
		return billing.ErrNilInvoice
	}
	p := r.dialect.Placeholder

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM invoice_performances WHERE invoice_id = %s`, p(1)), invoice.ID()); err != nil {
		_ = tx.Rollback()
		return err
	}
	_, err = tx.ExecContext(ctx, fmt.Sprintf(`
INSERT INTO invoices (id, customer)
VALUES (%s, %s)
ON CONFLICT (id) DO UPDATE SET customer = excluded.customer`, p(1), p(2)), invoice.ID(), invoice.Customer())
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	insert := fmt.Sprintf(`
INSERT INTO invoice_performances (invoice_id, position, play_id, audience)
VALUES (%s, %s, %s, %s)`, p(1), p(2), p(3), p(4))
	for i, perf := range invoice.Performances() {
		if _, err = tx.ExecContext(ctx, insert, invoice.ID(), i, perf.PlayID(), perf.Audience()); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
