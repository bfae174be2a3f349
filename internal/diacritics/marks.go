package diacritics

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// arabicMarks covers the harakat block (fathatan through sukun) plus the
// superscript alef.
var arabicMarks = runes.Predicate(func(r rune) bool {
	return (r >= 0x064B && r <= 0x0652) || r == 0x0670
})

// HasMarks reports whether text already carries any Arabic vowel mark.
func HasMarks(text string) bool {
	for _, r := range text {
		if arabicMarks.Contains(r) {
			return true
		}
	}
	return false
}

// prepare strips invisible format characters that Whisper occasionally emits
// and composes the text so the engine sees canonical input.
func prepare(text string) string {
	cleaned, _, err := transform.String(transform.Chain(runes.Remove(runes.In(unicode.Cf)), norm.NFC), text)
	if err != nil {
		return norm.NFC.String(text)
	}
	return cleaned
}

// finish normalises engine output to NFC.
func finish(text string) string {
	return norm.NFC.String(text)
}
