// Package convert turns locale-formatted strings scraped from exchange pages
// into numbers. Polish sources mix thousands separators, decimal commas, unit
// suffixes, and several whitespace encodings; every conversion here is
// idempotent and preserves non-numeric strings so callers can filter them.
package convert

import (
	"strconv"
	"strings"

	"github.com/gpwtool/gpwmon/internal/table"
)

// whitespaceVariants lists every separator encountered in scraped cells:
// regular space, tab, NBSP, and the mojibake two-byte rendering of NBSP.
var whitespaceVariants = []string{" ", "\t", " ", "Â "}

// CellFunc transforms a single cell. Parsers apply these per column.
type CellFunc func(any) any

// stripSpaces removes every whitespace variant from s.
func stripSpaces(s string) string {
	// The mojibake pair must go first so its NBSP half is not consumed alone.
	for _, ws := range []string{"Â ", " ", "\t", " "} {
		s = strings.ReplaceAll(s, ws, "")
	}
	return s
}

// Trim removes leading and trailing whitespace variants.
func Trim(s string) string {
	for {
		trimmed := strings.TrimSpace(s)
		for _, ws := range whitespaceVariants {
			trimmed = strings.TrimPrefix(trimmed, ws)
			trimmed = strings.TrimSuffix(trimmed, ws)
		}
		if trimmed == s {
			return trimmed
		}
		s = trimmed
	}
}

// ToInt converts v to an int64. Numeric values pass through unchanged.
// Strings are trimmed and whitespace-stripped before parsing; when parsing
// fails the cleaned string is returned so callers can detect non-numeric cells.
func ToInt(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64, float64:
		return n
	case string:
		s := stripSpaces(Trim(n))
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return s
		}
		return i
	default:
		return v
	}
}

// ToFloat converts v to a float64, additionally normalizing a decimal comma.
func ToFloat(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	case string:
		s := strings.ReplaceAll(stripSpaces(Trim(n)), ",", ".")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return s
		}
		return f
	default:
		return v
	}
}

// ToPercentage is ToFloat with a trailing percent sign stripped.
func ToPercentage(v any) any {
	if s, ok := v.(string); ok {
		s = stripSpaces(Trim(s))
		s = strings.TrimSuffix(s, "%")
		return ToFloat(s)
	}
	return ToFloat(v)
}

// IsNumeric reports whether v is a number, or a string of decimal digits only.
func IsNumeric(v any) bool {
	switch n := v.(type) {
	case int, int64, float64:
		return true
	case string:
		if n == "" {
			return false
		}
		for _, r := range n {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// CleanupColumn truncates every string cell of col at the first whitespace
// variant, dropping inline unit suffixes left by scraping.
func CleanupColumn(t *table.Table, col int) {
	for _, row := range t.Rows {
		if col < 0 || col >= len(row) {
			continue
		}
		s, ok := row[col].(string)
		if !ok {
			continue
		}
		cut := len(s)
		for _, ws := range whitespaceVariants {
			if i := strings.Index(s, ws); i >= 0 && i < cut {
				cut = i
			}
		}
		row[col] = s[:cut]
	}
}
