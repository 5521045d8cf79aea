// Package render turns engine reports into human-facing text and PDF
// documents. Amounts are rounded to whole units here and nowhere else.
package render

import (
	"strings"
	"unicode"

	"order-report-services/internal/analytics"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Russian grouping uses a space separator; CLDR emits it as a no-break
// space, which the PDF core fonts cannot draw, so it is mapped to ASCII.
var moneyPrinter = message.NewPrinter(language.Russian)

// Money rounds half away from zero and groups thousands with spaces,
// e.g. 1234567.5 -> "1 234 568".
func Money(value decimal.Decimal) string {
	rounded := value.Round(0)
	whole := rounded.BigInt()
	if !whole.IsInt64() {
		return rounded.String()
	}
	return strings.Map(asciiSpace, moneyPrinter.Sprintf("%d", whole.Int64()))
}

func asciiSpace(r rune) rune {
	if unicode.Is(unicode.Zs, r) {
		return ' '
	}
	return r
}

// Quantity keeps fractional quantities but drops trailing zeros.
func Quantity(value decimal.Decimal) string {
	return value.String()
}

func Percent(value decimal.Decimal) string {
	return value.String() + "%"
}

func RangeText(r analytics.DateRange) string {
	if r.From == r.To {
		return r.From
	}
	return r.From + " - " + r.To
}
