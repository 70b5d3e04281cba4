package ledger

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Initials returns the upper-cased first letters of the first two
// whitespace-separated words of name. "alex doe smith" gives "AD".
func Initials(name string) string {
	var b strings.Builder
	for i, word := range strings.Fields(name) {
		if i == 2 {
			break
		}
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
