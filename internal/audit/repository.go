package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"theater-billing/internal/billing/infrastructure/sqlstore"
)

// Repository writes audit logs to the audit_logs table.
type Repository struct {
	db      *sql.DB
	dialect sqlstore.Dialect
}

// NewRepository constructs an audit repository.
func NewRepository(db *sql.DB, dialect sqlstore.Dialect) *Repository {
	if db == nil {
		return nil
	}
	return &Repository{db: db, dialect: dialect}
}

// Log writes an audit entry.
func (r *Repository) Log(ctx context.Context, entry Entry) error {
	if r == nil || r.db == nil {
		return errors.New("audit repo: nil db")
	}
	if entry.ID == "" {
		entry.ID = NewID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.PayloadDigest == "" {
		entry.PayloadDigest = DigestJSON(entry.Metadata)
	}

	p := r.dialect.Placeholder
	query := fmt.Sprintf(`
INSERT INTO audit_logs (
	id, actor, role, action, resource_type, resource_id,
	metadata, payload_digest, ip, user_agent, created_at
) VALUES (
	%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s
)`, p(1), p(2), p(3), p(4), p(5), p(6), p(7), p(8), p(9), p(10), p(11))
	_, err := r.db.ExecContext(ctx, query, entry.ID, entry.Actor, entry.Role, entry.Action, entry.ResourceType, entry.ResourceID,
		string(entry.Metadata), entry.PayloadDigest, entry.IP, entry.UserAgent, entry.CreatedAt.Format(time.RFC3339Nano))
	return err
}
