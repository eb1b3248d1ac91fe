package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency describes how amounts are quantized and displayed.
type Currency struct {
	Code       string
	MinorUnits int32
}

// DefaultCurrency is the Afghan afghani, the currency every variant of the
// bookkeeping apps was deployed with.
var DefaultCurrency = Currency{Code: "AFN", MinorUnits: 2}

var digitReplacer = strings.NewReplacer(
	// Extended Arabic-Indic (Persian) digits
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	// Arabic-Indic digits
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	// Separators
	"٫", ".", "٬", "", ",", "", " ", "", "\u00a0", "",
)

// ParseAmount turns user input into a non-negative amount quantized to the
// currency's minor unit. It accepts thousands separators and Persian digits,
// which is how the bookkeeping forms submit numbers.
func (c Currency) ParseAmount(s string) (decimal.Decimal, error) {
	normalized := digitReplacer.Replace(strings.TrimSpace(s))
	if normalized == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, s)
	}

	return c.Quantize(d)
}

// Quantize verifies that d is representable in minor units without rounding.
func (c Currency) Quantize(d decimal.Decimal) (decimal.Decimal, error) {
	rounded := d.Round(c.MinorUnits)
	if !rounded.Equal(d) {
		return decimal.Zero, fmt.Errorf("%w: %s has more than %d fractional digits", ErrPrecisionLoss, d, c.MinorUnits)
	}
	return rounded, nil
}

// Format renders an amount for display with thousands separators. This is
// the only place amounts are turned back into strings.
func (c Currency) Format(d decimal.Decimal) string {
	fixed := d.StringFixed(c.MinorUnits)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := sign + b.String()
	if hasFrac {
		out += "." + fracPart
	}
	return out
}

// ParseQuantity parses a physical quantity (liters) the same way amounts
// are parsed, but without minor-unit quantization.
func ParseQuantity(s string) (decimal.Decimal, error) {
	normalized := digitReplacer.Replace(strings.TrimSpace(s))

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
	}

	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidQuantity
	}

	return d, nil
}

// ParseFactor parses an unquantized multiplier such as a unit price, an
// exchange rate or a foreign amount. Products are quantized by the caller.
func ParseFactor(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(digitReplacer.Replace(strings.TrimSpace(s)))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	return d, nil
}
