package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testPlays = `{
  "hamlet": {"name": "Hamlet", "type": "tragedy"},
  "as-like": {"name": "As You Like It", "type": "comedy"},
  "othello": {"name": "Othello", "type": "tragedy"}
}`

const testInvoices = `[
  {
    "customer": "BigCo",
    "performances": [
      {"playID": "hamlet", "audience": 55},
      {"playID": "as-like", "audience": 35},
      {"playID": "othello", "audience": 40}
    ]
  }
]`

func writeFixtures(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	plays := filepath.Join(dir, "plays.json")
	invoices := filepath.Join(dir, "invoices.json")
	if err := os.WriteFile(plays, []byte(testPlays), 0o600); err != nil {
		t.Fatalf("write plays: %v", err)
	}
	if err := os.WriteFile(invoices, []byte(testInvoices), 0o600); err != nil {
		t.Fatalf("write invoices: %v", err)
	}
	return plays, invoices
}

func TestRun_TextToStdout(t *testing.T) {
	plays, invoices := writeFixtures(t)
	var stdout, stderr bytes.Buffer
	code := run([]string{"-plays", plays, "-invoices", invoices}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Amount owed is $1,730.00") || !strings.Contains(stdout.String(), "You earned 47 credits") {
		t.Fatalf("unexpected output:\n%s", stdout.String())
	}
}

func TestRun_WritesArchive(t *testing.T) {
	plays, invoices := writeFixtures(t)
	out := t.TempDir()
	var stdout, stderr bytes.Buffer
	code := run([]string{"-plays", plays, "-invoices", invoices, "-invoice", "BigCo", "-format", "pdf", "-out", out}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	data, err := os.ReadFile(filepath.Join(out, "statements", "BigCo.pdf"))
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected pdf output")
	}
}

func TestRun_FormatIsCaseInsensitive(t *testing.T) {
	plays, invoices := writeFixtures(t)
	invoicesPath := filepath.Join(filepath.Dir(invoices), "two.json")
	two := `[
  {"customer": "BigCo", "performances": [{"playID": "hamlet", "audience": 55}]},
  {"customer": "SmallCo", "performances": [{"playID": "othello", "audience": 10}]}
]`
	if err := os.WriteFile(invoicesPath, []byte(two), 0o600); err != nil {
		t.Fatalf("write invoices: %v", err)
	}
	var stdout, stderr bytes.Buffer
	code := run([]string{"-plays", plays, "-invoices", invoicesPath, "-format", "HTML"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "BigCo") || !strings.Contains(stdout.String(), "SmallCo") {
		t.Fatalf("expected both statements:\n%s", stdout.String())
	}
}

func TestRun_Errors(t *testing.T) {
	plays, invoices := writeFixtures(t)
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-plays", plays, "-invoices", invoices, "-format", "docx"}, &stdout, &stderr); code != 2 {
		t.Fatalf("expected usage error, got %d", code)
	}
	if code := run([]string{"-plays", plays, "-invoices", invoices, "-invoice", "missing"}, &stdout, &stderr); code != 1 {
		t.Fatalf("expected failure for unknown invoice, got %d", code)
	}
}

func TestRun_SeedSQLite(t *testing.T) {
	plays, invoices := writeFixtures(t)
	dbPath := filepath.Join(t.TempDir(), "theater.db")
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-plays", plays, "-invoices", invoices, "-seed-sqlite", dbPath}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected database file: %v", err)
	}
}
