package edit

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Transform is a function (from: text) -> to: text, applied to the
// text selected by a Range. The engine provides Remove,
// ReplaceByString, ReplaceByCharRepeated, UpCase, DownCase and
// InvertCase; operators compose these with the range math in Model.
type Transform func(from string) (to string)

var (
	upper = cases.Upper(language.Und)
	lower = cases.Lower(language.Und)
)

// Remove deletes the range's text outright.
func Remove(string) string { return "" }

// ReplaceByString substitutes the range's text with a fixed
// replacement, used by paste-over-selection and `s`-in-visual-mode.
func ReplaceByString(replacement string) Transform {
	return func(string) string { return replacement }
}

// ReplaceByCharRepeated substitutes every rune of the range with ch,
// preserving newlines (used by `r` applied to a visual selection and
// by block replace).
func ReplaceByCharRepeated(ch rune) Transform {
	return func(from string) string {
		var b strings.Builder
		for _, r := range from {
			if r == '\n' {
				b.WriteRune('\n')
				continue
			}
			b.WriteRune(ch)
		}
		return b.String()
	}
}

// UpCase upper-cases the range's text, using golang.org/x/text/cases
// rather than per-rune unicode.ToUpper so that titlecase/locale-aware
// multi-rune expansions are handled the same way the rest of the
// corpus's text-processing code does.
func UpCase(from string) string { return upper.String(from) }

// DownCase lower-cases the range's text.
func DownCase(from string) string { return lower.String(from) }

// InvertCase swaps the case of every letter in the range's text.
func InvertCase(from string) string {
	var b strings.Builder
	for _, r := range from {
		switch {
		case unicode.IsLower(r):
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
