// Package textnorm holds the small set of text normalizations shared by the
// record sources, the coordinate parser and the lookup cache.
package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Casers and transformers keep state and are not safe for concurrent use, so
// each call builds its own.

// Upper upper-cases s using Portuguese casing rules.
func Upper(s string) string {
	return cases.Upper(language.BrazilianPortuguese).String(s)
}

// StripAccents removes combining marks, so "São Paulo" becomes "Sao Paulo".
func StripAccents(s string) string {
	out, _, err := transform.String(
		transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
		),
		s,
	)
	if err != nil {
		return s
	}
	return out
}

// Fold produces a comparison key: accents removed, case folded, surrounding
// space trimmed and inner runs of whitespace collapsed to one space.
func Fold(s string) string {
	s = cases.Fold().String(StripAccents(s))
	return strings.Join(strings.Fields(s), " ")
}

// Capitalize trims s, lower-cases it and upper-cases the first rune only.
// "  SOJA safrinha" becomes "Soja safrinha".
func Capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	s = cases.Lower(language.BrazilianPortuguese).String(s)
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToTitle(r)) + s[size:]
}
