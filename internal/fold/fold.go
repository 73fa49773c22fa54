// Package fold compares and rewrites text without regard to case or accents.
package fold

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ASCII strips diacritics, so "Manutenção" becomes "Manutencao".
func ASCII(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Key is the comparison form of s: trimmed, lower case, without accents.
func Key(s string) string {
	return strings.ToLower(ASCII(strings.TrimSpace(s)))
}

func Equal(a, b string) bool {
	return Key(a) == Key(b)
}
