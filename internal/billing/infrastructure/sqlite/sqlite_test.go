package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	billing "theater-billing/internal/billing/domain"
	"theater-billing/internal/billing/infrastructure/sqlstore"
)

type testStore struct {
	Plays    *sqlstore.PlayRepository
	Invoices *sqlstore.InvoiceRepository
}

func openTestDB(t *testing.T) (*testStore, func()) {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "theater.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return &testStore{Plays: NewPlayRepository(db), Invoices: NewInvoiceRepository(db)}, func() { _ = db.Close() }
}

func TestSQLite_CatalogRoundTrip(t *testing.T) {
	store, done := openTestDB(t)
	defer done()
	ctx := context.Background()

	for _, play := range []billing.Play{
		{ID: "hamlet", Name: "Hamlet", Genre: billing.GenreTragedy},
		{ID: "as-like", Name: "As You Like It", Genre: billing.GenreComedy},
	} {
		if err := store.Plays.Upsert(ctx, play); err != nil {
			t.Fatalf("upsert %s: %v", play.ID, err)
		}
	}
	if err := store.Plays.Upsert(ctx, billing.Play{ID: "hamlet", Name: "Hamlet", Genre: billing.GenreHistory}); err != nil {
		t.Fatalf("upsert again: %v", err)
	}
	if err := store.Plays.Upsert(ctx, billing.Play{ID: "x", Name: "X"}); !errors.Is(err, billing.ErrEmptyGenre) {
		t.Fatalf("expected empty genre error, got %v", err)
	}

	catalog, err := store.Plays.LoadCatalog(ctx)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if catalog.Len() != 2 {
		t.Fatalf("expected 2 plays, got %d", catalog.Len())
	}
	play, ok := catalog.Play("hamlet")
	if !ok || play.Genre != billing.GenreHistory {
		t.Fatalf("expected updated hamlet, got %+v", play)
	}
}

func TestSQLite_InvoicePreservesOrder(t *testing.T) {
	store, done := openTestDB(t)
	defer done()
	ctx := context.Background()

	perfs := make([]billing.Performance, 0, 3)
	for _, p := range []struct {
		id  string
		aud int
	}{{"othello", 40}, {"hamlet", 55}, {"as-like", 35}} {
		perf, err := billing.NewPerformance(p.id, p.aud)
		if err != nil {
			t.Fatalf("performance: %v", err)
		}
		perfs = append(perfs, perf)
	}
	invoice, err := billing.NewInvoice("inv-1", "BigCo", perfs)
	if err != nil {
		t.Fatalf("invoice: %v", err)
	}
	if err := store.Invoices.Save(ctx, invoice); err != nil {
		t.Fatalf("save: %v", err)
	}
	// Saving twice replaces the lines instead of duplicating them.
	if err := store.Invoices.Save(ctx, invoice); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, err := store.Invoices.GetInvoice(ctx, "inv-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Customer() != "BigCo" {
		t.Fatalf("customer mismatch: %s", got.Customer())
	}
	lines := got.Performances()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	want := []string{"othello", "hamlet", "as-like"}
	for i, line := range lines {
		if line.PlayID() != want[i] {
			t.Fatalf("line %d: expected %s, got %s", i, want[i], line.PlayID())
		}
	}

	if _, err := store.Invoices.GetInvoice(ctx, "missing"); !errors.Is(err, billing.ErrInvoiceNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	list, err := store.Invoices.ListInvoices(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v (%d)", err, len(list))
	}
}
