package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	billing "theater-billing/internal/billing/domain"
)

const (
	FormatText = "text"
	FormatHTML = "html"
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ErrUnknownFormat is returned for unsupported output formats.
var ErrUnknownFormat = errors.New("render: unknown format")

// Renderer formats already-priced statement data.
type Renderer interface {
	Format() string
	ContentType() string
	Extension() string
	Render(data *billing.StatementData) ([]byte, error)
}

var constructors = map[string]func(*Money) (Renderer, error){
	FormatText: func(m *Money) (Renderer, error) { return NewTextRenderer("", m) },
	FormatHTML: func(m *Money) (Renderer, error) { return NewHTMLRenderer("", m) },
	FormatPDF:  func(m *Money) (Renderer, error) { return NewPDFRenderer(m), nil },
	FormatXLSX: func(m *Money) (Renderer, error) { return NewXLSXRenderer(m), nil },
	FormatJSON: func(m *Money) (Renderer, error) { return NewJSONRenderer(m), nil },
	FormatCSV:  func(m *Money) (Renderer, error) { return NewCSVRenderer(m), nil },
}

// New returns the renderer for format. An empty format selects plain text.
func New(format string, money *Money) (Renderer, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" || format == "txt" {
		format = FormatText
	}
	ctor, ok := constructors[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if money == nil {
		money = DefaultMoney()
	}
	return ctor(money)
}

// Formats lists the supported formats.
func Formats() []string {
	result := make([]string, 0, len(constructors))
	for format := range constructors {
		result = append(result, format)
	}
	sort.Strings(result)
	return result
}

// lineView is the formatted view of one performance.
type lineView struct {
	Name          string
	Genre         string
	Audience      int
	Amount        string
	VolumeCredits int
}

// statementView is the formatted view shared by the template renderers.
type statementView struct {
	Customer           string
	Lines              []lineView
	TotalAmount        string
	TotalVolumeCredits int
}

func newStatementView(data *billing.StatementData, money *Money) statementView {
	perfs := data.Performances()
	lines := make([]lineView, 0, len(perfs))
	for _, perf := range perfs {
		lines = append(lines, lineView{
			Name:          perf.Name,
			Genre:         perf.Genre.String(),
			Audience:      perf.Audience,
			Amount:        money.Format(perf.Amount),
			VolumeCredits: perf.VolumeCredits,
		})
	}
	return statementView{
		Customer:           data.Customer(),
		Lines:              lines,
		TotalAmount:        money.Format(data.TotalAmount()),
		TotalVolumeCredits: data.TotalVolumeCredits(),
	}
}

func checkData(data *billing.StatementData) error {
	if data == nil {
		return errors.New("render: nil statement data")
	}
	return nil
}
