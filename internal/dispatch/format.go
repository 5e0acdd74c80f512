package dispatch

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// maxGroupedInt is the largest integer part handed to the locale printer;
// larger ones are grouped by hand so no digit passes through a float.
var maxGroupedInt = decimal.New(1, 18)

// Formatter renders money amounts for replies: currency symbol and locale
// digit grouping. The ledger value is printed exactly; fraction digits are
// never rounded away.
type Formatter struct {
	printer *message.Printer
	symbol  string
	group   string // locale group separator, e.g. "," or "."
	point   string // locale decimal separator
}

// NewFormatter creates a Formatter for the given locale and currency symbol.
func NewFormatter(tag language.Tag, symbol string) *Formatter {
	p := message.NewPrinter(tag)
	return &Formatter{
		printer: p,
		symbol:  symbol,
		// "1,000" and "0.5" rendered by the locale, minus their digits.
		group: trimRunes(p.Sprintf("%v", number.Decimal(1000)), 1, 3),
		point: trimRunes(p.Sprintf("%v", number.Decimal(0.5)), 1, 1),
	}
}

// Amount formats d, e.g. "£1,250.5", "£0.004" or "-£20".
func (f *Formatter) Amount(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	intPart := d.Truncate(0)
	var whole string
	if intPart.LessThan(maxGroupedInt) {
		whole = f.printer.Sprintf("%v", number.Decimal(intPart.IntPart()))
	} else {
		whole = groupDigits(intPart.String(), f.group)
	}

	var frac string
	if s := d.String(); strings.Contains(s, ".") {
		frac = f.point + s[strings.IndexByte(s, '.')+1:]
	}
	return sign + f.symbol + whole + frac
}

// groupDigits inserts sep between every three digits from the right.
func groupDigits(digits, sep string) string {
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteString(sep)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// trimRunes drops head runes from the front and tail runes from the back.
func trimRunes(s string, head, tail int) string {
	for ; head > 0 && s != ""; head-- {
		_, n := utf8.DecodeRuneInString(s)
		s = s[n:]
	}
	for ; tail > 0 && s != ""; tail-- {
		_, n := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-n]
	}
	return s
}
