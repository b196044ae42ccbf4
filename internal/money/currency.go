package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	EUR Currency = "EUR"
	XOF Currency = "XOF"
)

// Base is the currency amounts are stored in.
const Base = EUR

// units of each currency per one unit of Base (official CFA peg)
var rates = map[Currency]decimal.Decimal{
	EUR: decimal.NewFromInt(1),
	XOF: decimal.RequireFromString("655.957"),
}

var decimals = map[Currency]int32{
	EUR: 2,
	XOF: 0,
}

func ParseCurrency(s string) (Currency, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "EUR", "€":
		return EUR, nil
	case "XOF", "FCFA", "CFA":
		return XOF, nil
	}
	return "", fmt.Errorf("unsupported currency %q", s)
}

func (c Currency) Rate() decimal.Decimal {
	if r, ok := rates[c]; ok {
		return r
	}
	return rates[Base]
}

func (c Currency) Decimals() int32 {
	if d, ok := decimals[c]; ok {
		return d
	}
	return 2
}

// Convert expresses a base-currency amount in c, unrounded.
func Convert(a Amount, c Currency) decimal.Decimal {
	return a.Major().Mul(c.Rate())
}

// Currencies lists the supported display currencies.
func Currencies() []Currency {
	return []Currency{EUR, XOF}
}
