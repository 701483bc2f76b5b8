package application

import (
	"context"
	"errors"
	"log"
	"time"

	billing "theater-billing/internal/billing/domain"
	"theater-billing/internal/billing/infrastructure/archive"
	"theater-billing/internal/billing/render"
	"theater-billing/internal/observability/metrics"
)

// InvoiceSource loads invoices by id.
type InvoiceSource interface {
	GetInvoice(ctx context.Context, id string) (*billing.Invoice, error)
}

// Document is a rendered statement.
type Document struct {
	InvoiceID   string
	Format      string
	ContentType string
	Extension   string
	Body        []byte
	ArchiveKey  string // set when the document was archived
}

// StatementService builds and renders statements.
type StatementService struct {
	catalog  CatalogSource
	invoices InvoiceSource
	factory  billing.CalculatorFactory
	logger   *log.Logger
	money    *render.Money
	archive  archive.Archive
}

// Option configures a StatementService.
type Option func(*StatementService)

// WithMoney sets the currency formatter used by renderers.
func WithMoney(money *render.Money) Option {
	return func(s *StatementService) {
		if money != nil {
			s.money = money
		}
	}
}

// WithArchive stores every exported statement.
func WithArchive(a archive.Archive) Option {
	return func(s *StatementService) {
		s.archive = a
	}
}

// NewStatementService constructs a service.
func NewStatementService(catalog CatalogSource, invoices InvoiceSource, factory billing.CalculatorFactory, logger *log.Logger, opts ...Option) (*StatementService, error) {
	if catalog == nil {
		return nil, errors.New("statement service: nil catalog")
	}
	if invoices == nil {
		return nil, errors.New("statement service: nil invoices")
	}
	if factory == nil {
		return nil, errors.New("statement service: nil calculator factory")
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &StatementService{
		catalog:  catalog,
		invoices: invoices,
		factory:  factory,
		logger:   logger,
		money:    render.DefaultMoney(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Build prices an invoice against the current catalog snapshot.
func (s *StatementService) Build(ctx context.Context, invoice *billing.Invoice) (*billing.StatementData, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveStatementBuild(result, time.Since(start))
	}()

	if invoice == nil {
		result = metrics.ResultError
		metrics.IncStatementBuildError("invalid_invoice")
		return nil, billing.ErrNilInvoice
	}
	catalog, err := s.catalog.LoadCatalog(ctx)
	if err != nil {
		result = metrics.ResultError
		metrics.IncStatementBuildError("catalog")
		return nil, err
	}
	if catalog == nil {
		result = metrics.ResultError
		metrics.IncStatementBuildError("catalog")
		return nil, billing.ErrNilCatalog
	}
	data, err := billing.BuildStatementData(invoice, catalog, s.factory)
	if err != nil {
		result = metrics.ResultError
		metrics.IncStatementBuildError(buildErrorReason(err))
		s.logger.Printf("statement build failed: invoice=%s err=%v", invoice.ID(), err)
		return nil, err
	}
	for _, perf := range data.Performances() {
		metrics.IncPerformancePriced(perf.Genre.String())
	}
	return data, nil
}

// BuildForInvoice loads an invoice by id and builds its statement.
func (s *StatementService) BuildForInvoice(ctx context.Context, id string) (*billing.StatementData, error) {
	invoice, err := s.invoices.GetInvoice(ctx, id)
	if err != nil {
		if errors.Is(err, billing.ErrInvoiceNotFound) {
			metrics.IncStatementBuildError("invoice_not_found")
		}
		return nil, err
	}
	return s.Build(ctx, invoice)
}

// Render formats statement data.
func (s *StatementService) Render(data *billing.StatementData, format string) (*Document, error) {
	start := time.Now()
	renderer, err := render.New(format, s.money)
	if err != nil {
		metrics.ObserveStatementRender(format, metrics.ResultError, time.Since(start))
		return nil, err
	}
	body, err := renderer.Render(data)
	if err != nil {
		metrics.ObserveStatementRender(renderer.Format(), metrics.ResultError, time.Since(start))
		return nil, err
	}
	metrics.ObserveStatementRender(renderer.Format(), metrics.ResultSuccess, time.Since(start))
	return &Document{
		InvoiceID:   data.InvoiceID(),
		Format:      renderer.Format(),
		ContentType: renderer.ContentType(),
		Extension:   renderer.Extension(),
		Body:        body,
	}, nil
}

// Statement builds and renders an invoice without archiving it.
func (s *StatementService) Statement(ctx context.Context, invoice *billing.Invoice, format string) (*Document, error) {
	if _, err := render.New(format, s.money); err != nil {
		return nil, err
	}
	data, err := s.Build(ctx, invoice)
	if err != nil {
		return nil, err
	}
	return s.Render(data, format)
}

// Export builds, renders and, when an archive is configured, stores the
// statement of a persisted invoice.
func (s *StatementService) Export(ctx context.Context, id, format string) (*Document, error) {
	if _, err := render.New(format, s.money); err != nil {
		return nil, err
	}
	data, err := s.BuildForInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err := s.Render(data, format)
	if err != nil {
		return nil, err
	}
	if s.archive == nil {
		return doc, nil
	}
	key := archive.StatementKey(doc.InvoiceID, doc.Extension)
	if err := s.archive.Put(ctx, key, doc.ContentType, doc.Body); err != nil {
		metrics.IncArchiveWrite(s.archive.Driver(), metrics.ResultError)
		s.logger.Printf("statement archive failed: invoice=%s key=%s err=%v", doc.InvoiceID, key, err)
		return nil, err
	}
	metrics.IncArchiveWrite(s.archive.Driver(), metrics.ResultSuccess)
	doc.ArchiveKey = key
	return doc, nil
}

func buildErrorReason(err error) string {
	switch {
	case errors.Is(err, billing.ErrUnknownPlay):
		return "unknown_play"
	case errors.Is(err, billing.ErrUnsupportedGenre), errors.Is(err, billing.ErrEmptyGenre):
		return "unsupported_genre"
	default:
		return "other"
	}
}
