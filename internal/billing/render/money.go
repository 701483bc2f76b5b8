package render

import (
	"fmt"
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DefaultLocale   = "en-US"
	DefaultCurrency = "USD"
)

// Languages whose convention puts the currency symbol after the number.
var suffixSymbolLanguages = map[string]bool{
	"cs": true,
	"da": true,
	"de": true,
	"es": true,
	"fi": true,
	"fr": true,
	"it": true,
	"nb": true,
	"pl": true,
	"pt": true,
	"ru": true,
	"sv": true,
}

// Money formats amounts held in the currency's minor unit.
// The number of decimals follows the ISO 4217 scale of the currency.
type Money struct {
	printer *message.Printer
	symbol  string
	unit    currency.Unit
	scale   int
	verb    string
	divisor float64
	suffix  bool
}

// NewMoney builds a formatter for a BCP 47 locale and an ISO 4217 currency code.
func NewMoney(locale, code string) (*Money, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	if code == "" {
		code = DefaultCurrency
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("render: invalid locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("render: invalid currency %q: %w", code, err)
	}
	scale, _ := currency.Standard.Rounding(unit)
	base, _ := tag.Base()
	printer := message.NewPrinter(tag)
	return &Money{
		printer: printer,
		symbol:  printer.Sprint(currency.Symbol(unit)),
		unit:    unit,
		scale:   scale,
		verb:    fmt.Sprintf("%%.%df", scale),
		divisor: math.Pow10(scale),
		suffix:  suffixSymbolLanguages[base.String()],
	}, nil
}

// DefaultMoney formats US dollars.
func DefaultMoney() *Money {
	m, err := NewMoney(DefaultLocale, DefaultCurrency)
	if err != nil {
		panic(err)
	}
	return m
}

// Format renders a minor-unit amount, e.g. 173000 -> "$1,730.00" in en-US
// and "1.730,00 €" for EUR in de-DE.
func (m *Money) Format(minor int) string {
	number := m.printer.Sprintf(m.verb, m.Units(minor))
	if m.suffix {
		return number + "\u00a0" + m.symbol
	}
	return m.symbol + number
}

// Units converts a minor-unit amount to currency units for numeric exports.
func (m *Money) Units(minor int) float64 {
	return float64(minor) / m.divisor
}

// Scale is the number of decimals of the currency.
func (m *Money) Scale() int { return m.scale }

// Code returns the ISO currency code.
func (m *Money) Code() string { return m.unit.String() }
