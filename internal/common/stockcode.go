// Package common provides shared utilities across the application.
package common

import (
	"strings"
	"unicode"
)

const (
	// StockCodeWidth is the canonical width of a KRX exchange ticker (e.g. "005930").
	StockCodeWidth = 6

	// CorpCodeWidth is the width of a DART corp code (e.g. "00126380").
	CorpCodeWidth = 8
)

// IsAllDigits reports whether s is non-empty and contains only ASCII digits.
func IsAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsStockCode reports whether s is a full-width exchange ticker.
func IsStockCode(s string) bool {
	return len(s) == StockCodeWidth && IsAllDigits(s)
}

// NormalizeName canonicalizes a company name for lookup:
// lowercased with all whitespace removed.
// Example: "Samsung Electronics " -> "samsungelectronics"
func NormalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
