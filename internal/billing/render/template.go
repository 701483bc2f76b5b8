package render

import (
	"bytes"
	htmltemplate "html/template"
	texttemplate "text/template"

	billing "theater-billing/internal/billing/domain"
)

const DefaultTextTemplate = `Statement for {{.Customer}}
{{range .Lines}}  {{.Name}}: {{.Amount}} ({{.Audience}} seats)
{{end}}Amount owed is {{.TotalAmount}}
You earned {{.TotalVolumeCredits}} credits
`

const DefaultHTMLTemplate = `<h1>Statement for {{.Customer}}</h1>
<table>
 <caption>Statement for {{.Customer}}</caption>
 <tr><th>play</th><th>seats</th><th>cost</th></tr>
{{range .Lines}} <tr><td>{{.Name}}</td><td>{{.Audience}}</td><td>{{.Amount}}</td></tr>
{{end}}</table>
<p>Amount owed is <em>{{.TotalAmount}}</em></p>
<p>You earned <em>{{.TotalVolumeCredits}}</em> credits</p>
`

// TextRenderer renders a plain-text statement.
type TextRenderer struct {
	tpl   *texttemplate.Template
	money *Money
}

// NewTextRenderer parses a text template, falling back to DefaultTextTemplate.
func NewTextRenderer(tpl string, money *Money) (*TextRenderer, error) {
	if tpl == "" {
		tpl = DefaultTextTemplate
	}
	if money == nil {
		money = DefaultMoney()
	}
	parsed, err := texttemplate.New("statement-text").Parse(tpl)
	if err != nil {
		return nil, err
	}
	return &TextRenderer{tpl: parsed, money: money}, nil
}

func (r *TextRenderer) Format() string      { return FormatText }
func (r *TextRenderer) ContentType() string { return "text/plain; charset=utf-8" }
func (r *TextRenderer) Extension() string   { return "txt" }

// Render applies the template to the statement.
func (r *TextRenderer) Render(data *billing.StatementData) ([]byte, error) {
	if err := checkData(data); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, newStatementView(data, r.money)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// HTMLRenderer renders an HTML statement fragment.
type HTMLRenderer struct {
	tpl   *htmltemplate.Template
	money *Money
}

// NewHTMLRenderer parses an HTML template, falling back to DefaultHTMLTemplate.
func NewHTMLRenderer(tpl string, money *Money) (*HTMLRenderer, error) {
	if tpl == "" {
		tpl = DefaultHTMLTemplate
	}
	if money == nil {
		money = DefaultMoney()
	}
	parsed, err := htmltemplate.New("statement-html").Parse(tpl)
	if err != nil {
		return nil, err
	}
	return &HTMLRenderer{tpl: parsed, money: money}, nil
}

func (r *HTMLRenderer) Format() string      { return FormatHTML }
func (r *HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }
func (r *HTMLRenderer) Extension() string   { return "html" }

// Render applies the template to the statement. Customer and play names are escaped.
func (r *HTMLRenderer) Render(data *billing.StatementData) ([]byte, error) {
	if err := checkData(data); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, newStatementView(data, r.money)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
