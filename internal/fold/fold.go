// Package fold normalizes text for case- and diacritic-insensitive matching.
// The same folding runs in Go and, through a registered SQLite function, in
// queries, so in-memory and SQL filtering agree.
package fold

import (
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Mode selects which differences String ignores.
type Mode int

// Mode flags. None compares text as-is.
const (
	None       Mode = 0
	Case       Mode = 1 << 0
	Diacritics Mode = 1 << 1
	All             = Case | Diacritics
)

// String returns s folded according to mode.
func String(s string, mode Mode) string {
	if mode&Diacritics != 0 {
		s = stripMarks(s)
	}
	if mode&Case != 0 {
		s = cases.Fold().String(s)
	}
	return s
}

// stripMarks decomposes s, drops nonspacing marks, and recomposes it, so
// "Café" becomes "Cafe".
func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
