// Package textproc cleans extracted document text and splits it into
// per-question answers.
package textproc

import (
	"strings"
	"unicode"
)

// Normalize lowercases text, drops every rune that is not a lowercase ASCII
// letter or whitespace (digits and punctuation included), and collapses
// whitespace runs to single spaces. The result carries no leading or trailing
// whitespace. Idempotent.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	pending := false
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z':
			if pending && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pending = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			pending = true
		}
	}
	return b.String()
}
