package render

import (
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"viewtable/internal/view"
)

// Formatter renders cell values for display according to their declared
// column type, localized to the configured locale and currency unit.
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
}

// NewFormatter parses the locale (BCP 47, default "en-US") and currency unit
// (ISO 4217, default "USD").
func NewFormatter(locale, unit string) (*Formatter, error) {
	if locale == "" {
		locale = "en-US"
	}
	if unit == "" {
		unit = "USD"
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return nil, err
	}
	cur, err := currency.ParseISO(unit)
	if err != nil {
		return nil, err
	}

	return &Formatter{printer: message.NewPrinter(tag), unit: cur}, nil
}

// dateLayouts are tried in order when formatting a DATE cell that arrived as
// text (CSV sources) or as an RFC 3339 string (SQL sources).
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// Cell formats one cell for display. nil renders as the empty string for
// every type. Values that do not fit the declared type fall back to their
// plain text form rather than erroring; display formatting never fails a
// build that already succeeded.
func (f *Formatter) Cell(v any, t view.ColumnType) string {
	if v == nil {
		return ""
	}

	switch t {
	case view.TypeNumber:
		n, err := view.Number(v)
		if err != nil {
			return view.Text(v)
		}
		return f.printer.Sprint(number.Decimal(n))

	case view.TypeCurrency:
		n, err := view.Number(v)
		if err != nil {
			return view.Text(v)
		}
		return f.printer.Sprint(currency.Symbol(f.unit.Amount(n)))

	case view.TypeDate:
		s := view.Text(v)
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, s); err == nil {
				return d.Format("2006-01-02")
			}
		}
		return s

	default:
		return view.Text(v)
	}
}
