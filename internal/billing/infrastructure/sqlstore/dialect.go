package sqlstore

import "strconv"

// Dialect captures the SQL differences between supported databases.
type Dialect struct {
	Name string

	// Placeholder returns the bind marker for the n-th (1-based) argument.
	Placeholder func(n int) string
}

var (
	// Postgres uses $1, $2, ...
	Postgres = Dialect{Name: "postgres", Placeholder: func(n int) string { return "$" + strconv.Itoa(n) }}
	// SQLite uses ?.
	SQLite = Dialect{Name: "sqlite", Placeholder: func(int) string { return "?" }}
)

// Schema creates the catalog, invoice and audit tables. It is valid for both dialects.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS plays (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	genre TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS invoices (
	id TEXT PRIMARY KEY,
	customer TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS invoice_performances (
	invoice_id TEXT NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	play_id TEXT NOT NULL,
	audience INTEGER NOT NULL CHECK (audience >= 0),
	PRIMARY KEY (invoice_id, position)
)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
	id TEXT PRIMARY KEY,
	actor TEXT NOT NULL,
	role TEXT NOT NULL,
	action TEXT NOT NULL,
	resource_type TEXT NOT NULL,
	resource_id TEXT NOT NULL,
	metadata TEXT NOT NULL,
	payload_digest TEXT NOT NULL,
	ip TEXT NOT NULL,
	user_agent TEXT NOT NULL,
	created_at TEXT NOT NULL
)`,
}
