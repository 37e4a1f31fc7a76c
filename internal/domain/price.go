package domain

import (
	"strconv"
	"strings"
	"unicode"
)

// ErrUnparseablePrice is returned when a raw provider price carries no numeric value.
var ErrUnparseablePrice = NewDomainError(ErrCodeValidation, "price has no numeric value")

// ParsePrice resolves a raw provider price string to a numeric value by
// stripping currency symbols, thousands separators, and surrounding text.
// "$1,234.50", "USD 340" and "340.00 EUR" all resolve to their literal number.
func ParsePrice(raw string) (float64, error) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case unicode.IsDigit(r), r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		case r == ',':
			// thousands separator
		}
	}
	if b.Len() == 0 {
		return 0, ErrUnparseablePrice
	}
	value, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, ErrUnparseablePrice
	}
	return value, nil
}
