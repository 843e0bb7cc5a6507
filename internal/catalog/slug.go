package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Slugify lowercases s, keeps ASCII letters and digits, and collapses
// every other run of characters into a single hyphen. Leading and
// trailing hyphens are dropped.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// Unslugify turns a slug back into a display title: hyphens become
// spaces and each word is capitalized.
func Unslugify(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' })
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
