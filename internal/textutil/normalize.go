package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

var foldCaser = cases.Fold()

// Normalize reduces text to a case-folded, punctuation-insensitive form:
// folded lowercase, every non-alphanumeric run collapsed to a single space,
// leading and trailing whitespace removed. Two titles that differ only in
// case, punctuation, or spacing normalize to the same string.
func Normalize(text string) string {
	folded := foldCaser.String(text)
	var b strings.Builder
	b.Grow(len(folded))
	space := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
			continue
		}
		space = true
	}
	return b.String()
}

// QueryKey builds the resolution key for a title+platform pair. Candidate
// matching compares keys, never raw strings, so "Chrono Trigger: SNES" and
// "chrono trigger / snes" resolve identically.
func QueryKey(title, platform string) string {
	return Normalize(title) + "|" + Normalize(platform)
}
