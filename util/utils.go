package util

import (
	"strings"

	"github.com/shopspring/decimal"
)

func StrNotSet(value string) bool {
	return len(strings.TrimSpace(value)) == 0
}

// ParseDecimal parses human-entered numbers, tolerating thousands separators
// and currency symbols. Unparseable input yields zero.
func ParseDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return decimal.Zero
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return d
	}
	var clean strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			clean.WriteRune(r)
		}
	}
	d, _ := decimal.NewFromString(clean.String())
	return d
}
