// Command statement renders theater billing statements from catalog and invoice files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"theater-billing/internal/billing/application"
	"theater-billing/internal/billing/domain/pricing"
	"theater-billing/internal/billing/infrastructure/archive"
	"theater-billing/internal/billing/infrastructure/file"
	"theater-billing/internal/billing/infrastructure/sqlite"
	"theater-billing/internal/billing/render"
)

type config struct {
	playsPath    string
	invoicesPath string
	invoiceID    string
	format       string
	outDir       string
	locale       string
	currency     string
	seedSQLite   string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 2
	}
	ctx := context.Background()

	if cfg.seedSQLite != "" {
		if err := seed(ctx, cfg); err != nil {
			fmt.Fprintln(stderr, "seed sqlite:", err)
			return 1
		}
		fmt.Fprintf(stdout, "seeded %s\n", cfg.seedSQLite)
		return 0
	}

	catalog, err := file.NewCatalogFile(cfg.playsPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	invoices, err := file.NewInvoiceFile(cfg.invoicesPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	money, err := render.NewMoney(cfg.locale, cfg.currency)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	opts := []application.Option{application.WithMoney(money)}
	if cfg.outDir != "" {
		store, err := archive.NewFS(cfg.outDir)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		opts = append(opts, application.WithArchive(store))
	}
	service, err := application.NewStatementService(catalog, invoices, pricing.DefaultRegistry(), log.New(stderr, "", 0), opts...)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	ids := []string{cfg.invoiceID}
	if cfg.invoiceID == "" {
		all, err := invoices.ListInvoices(ctx)
		if err != nil {
			fmt.Fprintln(stderr, "load invoices:", err)
			return 1
		}
		ids = ids[:0]
		for _, invoice := range all {
			ids = append(ids, invoice.ID())
		}
	}
	if cfg.outDir == "" && len(ids) > 1 && !textual(cfg.format) {
		fmt.Fprintln(stderr, "-out is required for binary formats with more than one invoice")
		return 2
	}

	for i, id := range ids {
		doc, err := service.Export(ctx, id, cfg.format)
		if err != nil {
			fmt.Fprintf(stderr, "invoice %s: %v\n", id, err)
			return 1
		}
		if doc.ArchiveKey != "" {
			fmt.Fprintf(stdout, "wrote %s\n", doc.ArchiveKey)
			continue
		}
		if i > 0 {
			fmt.Fprintln(stdout)
		}
		_, _ = stdout.Write(doc.Body)
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("statement", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.playsPath, "plays", "plays.json", "play catalog file (json or yaml)")
	fs.StringVar(&cfg.invoicesPath, "invoices", "invoices.json", "invoices file (json or yaml)")
	fs.StringVar(&cfg.invoiceID, "invoice", "", "render a single invoice id (default all)")
	fs.StringVar(&cfg.format, "format", render.FormatText, "output format: text, html, pdf, xlsx, json, csv")
	fs.StringVar(&cfg.outDir, "out", "", "write statements under this directory instead of stdout")
	fs.StringVar(&cfg.locale, "locale", render.DefaultLocale, "currency locale")
	fs.StringVar(&cfg.currency, "currency", render.DefaultCurrency, "ISO 4217 currency code")
	fs.StringVar(&cfg.seedSQLite, "seed-sqlite", "", "load plays and invoices into this sqlite database and exit")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.playsPath == "" || cfg.invoicesPath == "" {
		return cfg, errors.New("-plays and -invoices are required")
	}
	renderer, err := render.New(cfg.format, nil)
	if err != nil {
		return cfg, err
	}
	cfg.format = renderer.Format()
	return cfg, nil
}

func textual(format string) bool {
	switch format {
	case render.FormatText, render.FormatHTML, render.FormatJSON, render.FormatCSV:
		return true
	}
	return false
}

func seed(ctx context.Context, cfg config) error {
	catalogFile, err := file.NewCatalogFile(cfg.playsPath)
	if err != nil {
		return err
	}
	catalog, err := catalogFile.LoadCatalog(ctx)
	if err != nil {
		return err
	}
	invoiceFile, err := file.NewInvoiceFile(cfg.invoicesPath)
	if err != nil {
		return err
	}
	invoices, err := invoiceFile.ListInvoices(ctx)
	if err != nil {
		return err
	}

	db, err := sqlite.Open(ctx, cfg.seedSQLite)
	if err != nil {
		return err
	}
	defer db.Close()

	plays := sqlite.NewPlayRepository(db)
	for _, play := range catalog.Plays() {
		if err := plays.Upsert(ctx, play); err != nil {
			return fmt.Errorf("play %s: %w", play.ID, err)
		}
	}
	repo := sqlite.NewInvoiceRepository(db)
	for _, invoice := range invoices {
		if err := repo.Save(ctx, invoice); err != nil {
			return fmt.Errorf("invoice %s: %w", invoice.ID(), err)
		}
	}
	return nil
}
