// Package utils provides common utility functions for gpwmon.
package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatPLN formats an amount the Polish way: thousands separated by thin
// spaces, a decimal comma, and the zł suffix (1 234 567,89 zł).
func FormatPLN(amount float64) string {
	negative := amount < 0

	// Round to cents first so a fraction like .999 carries into the
	// integer part instead of being dropped.
	cents := int64(math.Round(math.Abs(amount) * 100))

	formatted := fmt.Sprintf("%s,%02d zł", groupThousands(cents/100), cents%100)
	if negative {
		return "-" + formatted
	}
	return formatted
}

// FormatPLNCompact renders large amounts with Polish shorthand units:
// tys. (thousands), mln (millions), mld (billions).
func FormatPLNCompact(amount float64) string {
	negative := amount < 0
	amount = math.Abs(amount)

	sign := ""
	if negative {
		sign = "-"
	}
	switch {
	case amount >= 1e9:
		return fmt.Sprintf("%s%s mld zł", sign, withComma(amount/1e9))
	case amount >= 1e6:
		return fmt.Sprintf("%s%s mln zł", sign, withComma(amount/1e6))
	case amount >= 1e3:
		return fmt.Sprintf("%s%s tys. zł", sign, withComma(amount/1e3))
	default:
		return fmt.Sprintf("%s%s zł", sign, withComma(amount))
	}
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var groups []string
	for len(s) > 3 {
		groups = append([]string{s[len(s)-3:]}, groups...)
		s = s[:len(s)-3]
	}
	return s + " " + strings.Join(groups, " ")
}

func withComma(v float64) string {
	return strings.Replace(fmt.Sprintf("%.2f", v), ".", ",", 1)
}
