package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	billing "theater-billing/internal/billing/domain"
)

// PlayRecord is the on-disk shape of a play entry. "type" is accepted as a genre alias.
type PlayRecord struct {
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type,omitempty" yaml:"type,omitempty"`
	Genre string `json:"genre,omitempty" yaml:"genre,omitempty"`
}

// PerformanceRecord is the on-disk shape of an invoice line. Audience is a
// pointer so that an absent field is told apart from zero.
type PerformanceRecord struct {
	PlayID   string `json:"playID" yaml:"playID"`
	Audience *int   `json:"audience" yaml:"audience"`
}

// InvoiceRecord is the on-disk shape of an invoice.
type InvoiceRecord struct {
	ID           string              `json:"id,omitempty" yaml:"id,omitempty"`
	Customer     string              `json:"customer" yaml:"customer"`
	Performances []PerformanceRecord `json:"performances" yaml:"performances"`
}

// ToInvoice validates the record into a domain invoice.
func (r InvoiceRecord) ToInvoice() (*billing.Invoice, error) {
	lines := make([]billing.Performance, 0, len(r.Performances))
	for i, rec := range r.Performances {
		if rec.PlayID == "" {
			return nil, fmt.Errorf("performance %d: %w", i, billing.ErrEmptyPlayID)
		}
		if rec.Audience == nil {
			return nil, fmt.Errorf("performance %d: play %q: %w", i, rec.PlayID, billing.ErrMissingAudience)
		}
		perf, err := billing.NewPerformance(rec.PlayID, *rec.Audience)
		if err != nil {
			return nil, fmt.Errorf("performance %d: %w", i, err)
		}
		lines = append(lines, perf)
	}
	return billing.NewInvoice(r.ID, r.Customer, lines)
}

// ParsePlays decodes a play map keyed by id. YAML is a superset of JSON, so yaml.v3 handles both.
func ParsePlays(data []byte) ([]billing.Play, error) {
	records := map[string]PlayRecord{}
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("plays file: %w", err)
	}
	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	plays := make([]billing.Play, 0, len(records))
	for _, id := range ids {
		rec := records[id]
		genre := rec.Genre
		if genre == "" {
			genre = rec.Type
		}
		play, err := billing.NewPlay(id, rec.Name, billing.Genre(genre))
		if err != nil {
			return nil, err
		}
		plays = append(plays, play)
	}
	return plays, nil
}

// ParseInvoices decodes a JSON or YAML invoice list.
func ParseInvoices(data []byte, isYAML bool) ([]*billing.Invoice, error) {
	var records []InvoiceRecord
	var err error
	if isYAML {
		err = yaml.Unmarshal(data, &records)
	} else {
		err = json.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, fmt.Errorf("invoices file: %w", err)
	}
	invoices := make([]*billing.Invoice, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		invoice, err := rec.ToInvoice()
		if err != nil {
			return nil, fmt.Errorf("invoice %d: %w", i, err)
		}
		if _, dup := seen[invoice.ID()]; dup {
			return nil, fmt.Errorf("invoice %d: duplicate id %q", i, invoice.ID())
		}
		seen[invoice.ID()] = struct{}{}
		invoices = append(invoices, invoice)
	}
	return invoices, nil
}

// CatalogFile loads plays from a JSON or YAML file on every call.
type CatalogFile struct {
	path string
}

// NewCatalogFile constructs a file-backed catalog source.
func NewCatalogFile(path string) (*CatalogFile, error) {
	if path == "" {
		return nil, errors.New("catalog file: empty path")
	}
	return &CatalogFile{path: path}, nil
}

// LoadCatalog reads the file and returns a catalog snapshot.
func (c *CatalogFile) LoadCatalog(ctx context.Context) (*billing.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, err
	}
	plays, err := ParsePlays(data)
	if err != nil {
		return nil, err
	}
	return billing.NewCatalog(plays...)
}

// InvoiceFile serves invoices from a JSON or YAML file.
type InvoiceFile struct {
	path string
}

// NewInvoiceFile constructs a file-backed invoice repository.
func NewInvoiceFile(path string) (*InvoiceFile, error) {
	if path == "" {
		return nil, errors.New("invoice file: empty path")
	}
	return &InvoiceFile{path: path}, nil
}

// ListInvoices reads all invoices in file order.
func (f *InvoiceFile) ListInvoices(ctx context.Context) ([]*billing.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}
	return ParseInvoices(data, isYAMLPath(f.path))
}

// GetInvoice returns the invoice with id.
func (f *InvoiceFile) GetInvoice(ctx context.Context, id string) (*billing.Invoice, error) {
	invoices, err := f.ListInvoices(ctx)
	if err != nil {
		return nil, err
	}
	for _, invoice := range invoices {
		if invoice.ID() == id {
			return invoice, nil
		}
	}
	return nil, billing.ErrInvoiceNotFound
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
