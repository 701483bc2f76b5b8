package render

import (
	"bytes"
	"encoding/csv"
	"strconv"

	billing "theater-billing/internal/billing/domain"
)

// CSVRenderer writes one row per performance followed by a total row.
// Amounts are plain decimal currency units without symbol or grouping.
type CSVRenderer struct {
	money *Money
}

// NewCSVRenderer constructs the renderer.
func NewCSVRenderer(money *Money) *CSVRenderer {
	if money == nil {
		money = DefaultMoney()
	}
	return &CSVRenderer{money: money}
}

func (r *CSVRenderer) Format() string      { return FormatCSV }
func (r *CSVRenderer) ContentType() string { return "text/csv; charset=utf-8" }
func (r *CSVRenderer) Extension() string   { return "csv" }

// Render encodes the statement rows.
func (r *CSVRenderer) Render(data *billing.StatementData) ([]byte, error) {
	if err := checkData(data); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	_ = writer.Write([]string{
		"play_id",
		"name",
		"genre",
		"audience",
		"amount",
		"currency",
		"volume_credits",
	})
	for _, perf := range data.Performances() {
		_ = writer.Write([]string{
			perf.PlayID,
			perf.Name,
			perf.Genre.String(),
			strconv.Itoa(perf.Audience),
			r.units(perf.Amount),
			r.money.Code(),
			strconv.Itoa(perf.VolumeCredits),
		})
	}
	_ = writer.Write([]string{
		"total",
		data.Customer(),
		"",
		"",
		r.units(data.TotalAmount()),
		r.money.Code(),
		strconv.Itoa(data.TotalVolumeCredits()),
	})
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *CSVRenderer) units(minor int) string {
	return strconv.FormatFloat(r.money.Units(minor), 'f', r.money.Scale(), 64)
}
