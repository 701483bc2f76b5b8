package memory

import (
	"context"
	"sort"
	"sync"

	billing "theater-billing/internal/billing/domain"
)

// CatalogRepository is an in-memory play catalog.
type CatalogRepository struct {
	mu    sync.RWMutex
	plays map[string]billing.Play
}

// NewCatalogRepository constructs a repository seeded with plays.
func NewCatalogRepository(plays ...billing.Play) *CatalogRepository {
	repo := &CatalogRepository{plays: make(map[string]billing.Play, len(plays))}
	for _, play := range plays {
		repo.plays[play.ID] = play
	}
	return repo
}

// Put inserts or replaces a play. Snapshots already handed out are unaffected.
func (r *CatalogRepository) Put(play billing.Play) {
	r.mu.Lock()
	r.plays[play.ID] = play
	r.mu.Unlock()
}

// LoadCatalog returns an immutable snapshot of the current plays.
func (r *CatalogRepository) LoadCatalog(ctx context.Context) (*billing.Catalog, error) {
	_ = ctx
	r.mu.RLock()
	plays := make([]billing.Play, 0, len(r.plays))
	for _, play := range r.plays {
		plays = append(plays, play)
	}
	r.mu.RUnlock()
	return billing.NewCatalog(plays...)
}

// InvoiceRepository is an in-memory invoice store.
type InvoiceRepository struct {
	mu   sync.RWMutex
	data map[string]*billing.Invoice
}

// NewInvoiceRepository constructs a repository seeded with invoices.
func NewInvoiceRepository(invoices ...*billing.Invoice) *InvoiceRepository {
	repo := &InvoiceRepository{data: make(map[string]*billing.Invoice, len(invoices))}
	for _, invoice := range invoices {
		if invoice != nil {
			repo.data[invoice.ID()] = invoice
		}
	}
	return repo
}

// Save stores an invoice (overwrites existing).
func (r *InvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	_ = ctx
	if invoice == nil {
		return billing.ErrNilInvoice
	}
	r.mu.Lock()
	r.data[invoice.ID()] = invoice
	r.mu.Unlock()
	return nil
}

// GetInvoice loads an invoice by id.
func (r *InvoiceRepository) GetInvoice(ctx context.Context, id string) (*billing.Invoice, error) {
	_ = ctx
	r.mu.RLock()
	invoice := r.data[id]
	r.mu.RUnlock()
	if invoice == nil {
		return nil, billing.ErrInvoiceNotFound
	}
	return invoice, nil
}

// ListInvoices returns all invoices sorted by id.
func (r *InvoiceRepository) ListInvoices(ctx context.Context) ([]*billing.Invoice, error) {
	_ = ctx
	r.mu.RLock()
	result := make([]*billing.Invoice, 0, len(r.data))
	for _, invoice := range r.data {
		result = append(result, invoice)
	}
	r.mu.RUnlock()
	sort.Slice(result, func(i, j int) bool { return result[i].ID() < result[j].ID() })
	return result, nil
}
