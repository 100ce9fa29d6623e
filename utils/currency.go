package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrencyIDR renders an amount in Indonesian Rupiah notation.
// Example: 15000.50 -> "Rp 15.000,50"; whole amounts drop the decimals.
func FormatCurrencyIDR(amount decimal.Decimal) string {
	s := amount.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := strings.SplitN(s, ".", 2)
	intPart, decPart := parts[0], parts[1]

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := "Rp " + strings.Join(groups, ".")
	if decPart != "00" {
		out += "," + decPart
	}
	if neg {
		out = "-" + out
	}
	return out
}
