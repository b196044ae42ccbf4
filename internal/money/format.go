package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Locale string

const (
	LocaleFR Locale = "fr"
	LocaleEN Locale = "en"
)

const (
	nbsp       = "\u00a0"
	narrowNbsp = "\u202f"
)

// ParseLocale takes the primary tag of values such as "fr-FR" or
// "en-US,en;q=0.9". ok is false for unsupported languages.
func ParseLocale(s string) (Locale, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexAny(s, ",;"); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexAny(s, "-_"); i >= 0 {
		s = s[:i]
	}
	switch Locale(s) {
	case LocaleFR:
		return LocaleFR, true
	case LocaleEN:
		return LocaleEN, true
	}
	return "", false
}

type localeFormat struct {
	group, decimal string
	symbolAfter    bool
	symbols        map[Currency]string
	compact        []compactUnit
}

type compactUnit struct {
	exp    int32
	suffix string
}

var localeFormats = map[Locale]localeFormat{
	LocaleFR: {
		group:       narrowNbsp,
		decimal:     ",",
		symbolAfter: true,
		symbols:     map[Currency]string{EUR: "€", XOF: "F" + nbsp + "CFA"},
		compact:     []compactUnit{{9, nbsp + "Md"}, {6, nbsp + "M"}},
	},
	LocaleEN: {
		group:   ",",
		decimal: ".",
		symbols: map[Currency]string{EUR: "€", XOF: "F" + nbsp + "CFA" + nbsp},
		compact: []compactUnit{{9, "B"}, {6, "M"}},
	},
}

var compactFrom = decimal.NewFromInt(1_000_000)

// Display is the pair a client picks to read amounts in.
type Display struct {
	Currency Currency
	Locale   Locale
}

// Format converts a base-currency amount into d.Currency and renders it.
func (d Display) Format(a Amount) string {
	return d.FormatValue(Convert(a, d.Currency))
}

// FormatValue renders a value already expressed in d.Currency. Values of a
// million or more use compact notation with at most one decimal.
func (d Display) FormatValue(v decimal.Decimal) string {
	lf, ok := localeFormats[d.Locale]
	if !ok {
		lf = localeFormats[LocaleFR]
	}
	symbol, ok := lf.symbols[d.Currency]
	if !ok {
		symbol = string(d.Currency)
	}

	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Abs()
	}

	var number string
	if v.GreaterThanOrEqual(compactFrom) {
		number = compactNumber(v, lf)
	} else {
		number = groupNumber(v.StringFixed(d.Currency.Decimals()), lf)
	}

	if lf.symbolAfter {
		return sign + number + nbsp + symbol
	}
	return sign + symbol + number
}

func compactNumber(v decimal.Decimal, lf localeFormat) string {
	for _, u := range lf.compact {
		scaled := v.Shift(-u.exp)
		if scaled.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			// maximum one fraction digit, none when it rounds to .0
			return groupNumber(scaled.Round(1).String(), lf) + u.suffix
		}
	}
	return groupNumber(v.Round(0).String(), lf)
}

// groupNumber rewrites a plain "1234567.89" using the locale separators.
func groupNumber(s string, lf localeFormat) string {
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(lf.group)
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteString(lf.decimal)
		b.WriteString(frac)
	}
	return b.String()
}
