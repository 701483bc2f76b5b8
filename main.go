package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"theater-billing/internal/audit"
	"theater-billing/internal/auth"
	"theater-billing/internal/billing/application"
	billing "theater-billing/internal/billing/domain"
	"theater-billing/internal/billing/domain/pricing"
	"theater-billing/internal/billing/infrastructure/archive"
	"theater-billing/internal/billing/infrastructure/file"
	"theater-billing/internal/billing/infrastructure/memory"
	"theater-billing/internal/billing/infrastructure/postgres"
	"theater-billing/internal/billing/infrastructure/sqlite"
	"theater-billing/internal/billing/infrastructure/sqlstore"
	"theater-billing/internal/billing/interfaces"
	"theater-billing/internal/billing/render"
	"theater-billing/internal/config"
	"theater-billing/internal/observability/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags)
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config error: %v", err)
	}
	ctx := context.Background()

	var pgDB, liteDB *sql.DB
	if cfg.UsesPostgres() {
		pgDB, err = postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("postgres open error: %v", err)
		}
		defer pgDB.Close()
		if err := sqlstore.EnsureSchema(ctx, pgDB); err != nil {
			logger.Fatalf("postgres schema error: %v", err)
		}
	}
	if cfg.UsesSQLite() {
		liteDB, err = sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			logger.Fatalf("sqlite open error: %v", err)
		}
		defer liteDB.Close()
	}

	metricsDB := pgDB
	if metricsDB == nil {
		metricsDB = liteDB
	}
	metrics.Init(metricsDB, logger)

	catalogSource, err := buildCatalogSource(cfg, pgDB, liteDB)
	if err != nil {
		logger.Fatalf("catalog source error: %v", err)
	}
	invoiceSource, err := buildInvoiceSource(cfg, pgDB, liteDB)
	if err != nil {
		logger.Fatalf("invoice source error: %v", err)
	}
	catalogCache, err := application.NewCatalogCache(catalogSource, cfg.Catalog.Driver, logger)
	if err != nil {
		logger.Fatalf("catalog cache error: %v", err)
	}
	if _, err := catalogCache.Reload(ctx); err != nil {
		logger.Fatalf("catalog load error: %v", err)
	}

	money, err := render.NewMoney(cfg.Locale, cfg.Currency)
	if err != nil {
		logger.Fatalf("currency error: %v", err)
	}
	opts := []application.Option{application.WithMoney(money)}
	statementArchive, err := buildArchive(ctx, cfg)
	if err != nil {
		logger.Fatalf("archive error: %v", err)
	}
	if statementArchive != nil {
		opts = append(opts, application.WithArchive(statementArchive))
		logger.Printf("statement archive enabled: driver=%s", statementArchive.Driver())
	}
	statementService, err := application.NewStatementService(catalogCache, invoiceSource, pricing.DefaultRegistry(), logger, opts...)
	if err != nil {
		logger.Fatalf("statement service error: %v", err)
	}
	statementHandler, err := interfaces.NewStatementHandler(statementService, catalogCache, buildAuditLogger(pgDB, liteDB, logger), logger)
	if err != nil {
		logger.Fatalf("statement handler error: %v", err)
	}

	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), auth.BillingPolicy("/healthz", "/metrics"), logger)
	if !authMiddleware.Enabled() {
		logger.Printf("auth disabled: AUTH_JWT_SECRET not set")
	}

	mux := http.NewServeMux()
	mux.Handle("/api/v1/statements", statementHandler)
	mux.Handle("/api/v1/invoices/", statementHandler)
	mux.Handle("/api/v1/plays", statementHandler)
	mux.Handle("/api/v1/catalog/reload", statementHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           loggingMiddleware(authMiddleware.Wrap(mux), logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

func buildCatalogSource(cfg config.Config, pgDB, liteDB *sql.DB) (application.CatalogSource, error) {
	switch cfg.Catalog.Driver {
	case config.DriverPostgres:
		return postgres.NewPlayRepository(pgDB), nil
	case config.DriverSQLite:
		return sqlite.NewPlayRepository(liteDB), nil
	case config.DriverMemory:
		return memory.NewCatalogRepository(demoPlays()...), nil
	default:
		return file.NewCatalogFile(cfg.Catalog.Path)
	}
}

func buildInvoiceSource(cfg config.Config, pgDB, liteDB *sql.DB) (application.InvoiceSource, error) {
	switch cfg.Invoices.Driver {
	case config.DriverPostgres:
		return postgres.NewInvoiceRepository(pgDB), nil
	case config.DriverSQLite:
		return sqlite.NewInvoiceRepository(liteDB), nil
	case config.DriverMemory:
		invoice, err := demoInvoice()
		if err != nil {
			return nil, err
		}
		return memory.NewInvoiceRepository(invoice), nil
	default:
		return file.NewInvoiceFile(cfg.Invoices.Path)
	}
}

func buildArchive(ctx context.Context, cfg config.Config) (archive.Archive, error) {
	switch cfg.Archive.Driver {
	case config.ArchiveFS:
		return archive.NewFS(cfg.Archive.Root)
	case config.ArchiveS3:
		return archive.NewS3(ctx, archive.S3Config{
			Bucket:    cfg.Archive.S3.Bucket,
			Region:    cfg.Archive.S3.Region,
			Endpoint:  cfg.Archive.S3.Endpoint,
			PathStyle: cfg.Archive.S3.PathStyle,
		})
	default:
		return nil, nil
	}
}

func buildAuditLogger(pgDB, liteDB *sql.DB, logger *log.Logger) audit.Logger {
	if pgDB != nil {
		return audit.NewRepository(pgDB, sqlstore.Postgres)
	}
	if liteDB != nil {
		return audit.NewRepository(liteDB, sqlstore.SQLite)
	}
	return audit.NewLogLogger(logger)
}

func demoPlays() []billing.Play {
	return []billing.Play{
		{ID: "hamlet", Name: "Hamlet", Genre: billing.GenreTragedy},
		{ID: "as-like", Name: "As You Like It", Genre: billing.GenreComedy},
		{ID: "othello", Name: "Othello", Genre: billing.GenreTragedy},
		{ID: "henry-v", Name: "Henry V", Genre: billing.GenreHistory},
		{ID: "john", Name: "King John", Genre: billing.GenreHistory},
		{ID: "winters-tale", Name: "The Winter's Tale", Genre: billing.GenrePastoral},
	}
}

func demoInvoice() (*billing.Invoice, error) {
	lines := []struct {
		playID   string
		audience int
	}{
		{"hamlet", 55},
		{"as-like", 35},
		{"othello", 40},
	}
	perfs := make([]billing.Performance, 0, len(lines))
	for _, line := range lines {
		perf, err := billing.NewPerformance(line.playID, line.audience)
		if err != nil {
			return nil, err
		}
		perfs = append(perfs, perf)
	}
	return billing.NewInvoice("BigCo", "BigCo", perfs)
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
