// Package format converts money and dates between their wire, domain and
// display forms.
//
// Amounts are decimal.Decimal values in major units (reais) everywhere inside
// the application. Some backend fields carry integer centavos; those are
// converted with FromCents/ToCents at the API boundary only.
package format

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when a user-entered amount cannot be parsed
// or is not strictly positive.
var ErrInvalidAmount = errors.New("invalid amount")

// FromCents converts integer centavos into reais.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// ToCents converts reais into integer centavos, rounding half away from zero.
func ToCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// BRL renders an amount the way the pt-BR locale does, e.g. "R$ 1.234,56".
func BRL(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	return sign + "R$ " + groupThousands(intPart) + "," + fracPart
}

// Plain renders an amount with two decimals and a comma separator, without
// the currency symbol ("1234,56"). Used to prefill form inputs.
func Plain(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// ParseAmount reads a user-entered amount in reais.
//
// It accepts the pt-BR form ("1.234,56", "10.000", "R$ 12,5"). Without a
// comma, a lone dot followed by exactly three digits is grouping; any other
// lone dot is a decimal point ("12.5"). The value is rounded half-up to
// centavos and must be positive.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else if n := strings.Count(s, "."); n > 1 || (n == 1 && len(s)-strings.Index(s, ".") == 4) {
		s = strings.ReplaceAll(s, ".", "")
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return decimal.Zero, ErrInvalidAmount
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}
