package render

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	billing "theater-billing/internal/billing/domain"
)

// PDFRenderer renders a one-page PDF statement.
type PDFRenderer struct {
	money *Money
}

// NewPDFRenderer constructs the renderer.
func NewPDFRenderer(money *Money) *PDFRenderer {
	if money == nil {
		money = DefaultMoney()
	}
	return &PDFRenderer{money: money}
}

func (r *PDFRenderer) Format() string      { return FormatPDF }
func (r *PDFRenderer) ContentType() string { return "application/pdf" }
func (r *PDFRenderer) Extension() string   { return "pdf" }

// Render draws the summary followed by the performance table.
func (r *PDFRenderer) Render(data *billing.StatementData) ([]byte, error) {
	if err := checkData(data); err != nil {
		return nil, err
	}
	view := newStatementView(data, r.money)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()
	// Core fonts are cp1252; translate names and currency symbols.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.Cell(0, 8, tr(fmt.Sprintf("Statement for %s", view.Customer)))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Invoice: %s", data.InvoiceID())))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(70, 6, "Play", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Genre", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Seats", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Cost", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Credits", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, line := range view.Lines {
		pdf.CellFormat(70, 6, tr(line.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, line.Genre, "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", line.Audience), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, tr(line.Amount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", line.VolumeCredits), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Amount owed is %s", view.TotalAmount)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("You earned %d credits", view.TotalVolumeCredits))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// XLSXRenderer renders a workbook with summary and performances sheets.
type XLSXRenderer struct {
	money *Money
}

// NewXLSXRenderer constructs the renderer.
func NewXLSXRenderer(money *Money) *XLSXRenderer {
	if money == nil {
		money = DefaultMoney()
	}
	return &XLSXRenderer{money: money}
}

func (r *XLSXRenderer) Format() string { return FormatXLSX }
func (r *XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (r *XLSXRenderer) Extension() string { return "xlsx" }

const (
	SummarySheet      = "summary"
	PerformancesSheet = "performances"
)

// Render writes totals to the summary sheet and one row per performance.
func (r *XLSXRenderer) Render(data *billing.StatementData) ([]byte, error) {
	if err := checkData(data); err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(PerformancesSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(SummarySheet, "A1", "Statement")
	_ = f.SetCellValue(SummarySheet, "A3", "Customer")
	_ = f.SetCellValue(SummarySheet, "B3", data.Customer())
	_ = f.SetCellValue(SummarySheet, "A4", "Invoice")
	_ = f.SetCellValue(SummarySheet, "B4", data.InvoiceID())
	_ = f.SetCellValue(SummarySheet, "A5", "Total Amount")
	_ = f.SetCellValue(SummarySheet, "B5", r.money.Units(data.TotalAmount()))
	_ = f.SetCellValue(SummarySheet, "A6", "Currency")
	_ = f.SetCellValue(SummarySheet, "B6", r.money.Code())
	_ = f.SetCellValue(SummarySheet, "A7", "Volume Credits")
	_ = f.SetCellValue(SummarySheet, "B7", data.TotalVolumeCredits())

	_ = f.SetCellValue(PerformancesSheet, "A1", "Play")
	_ = f.SetCellValue(PerformancesSheet, "B1", "Genre")
	_ = f.SetCellValue(PerformancesSheet, "C1", "Seats")
	_ = f.SetCellValue(PerformancesSheet, "D1", "Amount")
	_ = f.SetCellValue(PerformancesSheet, "E1", "Credits")
	for i, perf := range data.Performances() {
		row := i + 2
		_ = f.SetCellValue(PerformancesSheet, fmt.Sprintf("A%d", row), perf.Name)
		_ = f.SetCellValue(PerformancesSheet, fmt.Sprintf("B%d", row), perf.Genre.String())
		_ = f.SetCellValue(PerformancesSheet, fmt.Sprintf("C%d", row), perf.Audience)
		_ = f.SetCellValue(PerformancesSheet, fmt.Sprintf("D%d", row), r.money.Units(perf.Amount))
		_ = f.SetCellValue(PerformancesSheet, fmt.Sprintf("E%d", row), perf.VolumeCredits)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JSONRenderer renders the raw statement values; amounts stay in cents.
type JSONRenderer struct {
	money *Money
}

// NewJSONRenderer constructs the renderer.
func NewJSONRenderer(money *Money) *JSONRenderer {
	if money == nil {
		money = DefaultMoney()
	}
	return &JSONRenderer{money: money}
}

func (r *JSONRenderer) Format() string      { return FormatJSON }
func (r *JSONRenderer) ContentType() string { return "application/json" }
func (r *JSONRenderer) Extension() string   { return "json" }

type jsonPerformance struct {
	PlayID        string `json:"play_id"`
	Name          string `json:"name"`
	Genre         string `json:"genre"`
	Audience      int    `json:"audience"`
	Amount        int    `json:"amount"`
	VolumeCredits int    `json:"volume_credits"`
}

type jsonStatement struct {
	InvoiceID          string            `json:"invoice_id"`
	Customer           string            `json:"customer"`
	Currency           string            `json:"currency"`
	Performances       []jsonPerformance `json:"performances"`
	TotalAmount        int               `json:"total_amount"`
	TotalVolumeCredits int               `json:"total_volume_credits"`
}

// Render encodes the statement.
func (r *JSONRenderer) Render(data *billing.StatementData) ([]byte, error) {
	if err := checkData(data); err != nil {
		return nil, err
	}
	perfs := data.Performances()
	out := jsonStatement{
		InvoiceID:          data.InvoiceID(),
		Customer:           data.Customer(),
		Currency:           r.money.Code(),
		Performances:       make([]jsonPerformance, 0, len(perfs)),
		TotalAmount:        data.TotalAmount(),
		TotalVolumeCredits: data.TotalVolumeCredits(),
	}
	for _, perf := range perfs {
		out.Performances = append(out.Performances, jsonPerformance{
			PlayID:        perf.PlayID,
			Name:          perf.Name,
			Genre:         perf.Genre.String(),
			Audience:      perf.Audience,
			Amount:        perf.Amount,
			VolumeCredits: perf.VolumeCredits,
		})
	}
	return json.Marshal(out)
}
