// Package cli provides formatting helpers for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// currencySymbols maps known currency codes to their display symbol; anything
// unrecognized falls back to the code plus a space.
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// Symbol returns the display symbol for a currency code.
func Symbol(currency string) string {
	if s, ok := currencySymbols[currency]; ok {
		return s
	}
	return currency + " "
}

// FormatMoney formats a currency amount with two decimals and thousands
// separators, e.g. 12345.5 -> "$12,345.50".
func FormatMoney(amount float64, currency string) string {
	sym := Symbol(currency)
	if amount < 0 {
		return "-" + sym + formatAbs(-amount)
	}
	return sym + formatAbs(amount)
}

func formatAbs(amount float64) string {
	whole := int64(math.Floor(amount))
	cents := int64(math.Round((amount - float64(whole)) * 100))
	if cents >= 100 {
		whole++
		cents -= 100
	}
	return fmt.Sprintf("%s.%02d", FormatNumber(whole), cents)
}

// FormatHours formats fractional hours, e.g. 7.25 -> "7.25h".
func FormatHours(h float64) string {
	return fmt.Sprintf("%.2fh", h)
}

// FormatPercent formats a percentage value, e.g. 42.3 -> "42.3%".
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
