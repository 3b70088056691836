package render

import "strings"

// See https://core.telegram.org/bots/api#html-style.
const htmlSpecialChars = `&<>`

//nolint:gochecknoglobals // Lookup table meant to be immutable.
var htmlLookup = func() [256]bool {
	var m [256]bool
	for i := range len(htmlSpecialChars) {
		m[htmlSpecialChars[i]] = true
	}
	return m
}()

// EscapeHTML escapes the characters Telegram's HTML parse mode requires.
func EscapeHTML(input string) string {
	charsToEscape := 0

	for i := range len(input) {
		if htmlLookup[input[i]] {
			charsToEscape++
		}
	}

	if charsToEscape == 0 {
		return input
	}

	var b strings.Builder
	b.Grow(len(input) + charsToEscape*4)

	for i := range len(input) {
		switch c := input[i]; c {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

func escapeAttr(input string) string {
	return strings.ReplaceAll(EscapeHTML(input), `"`, "&quot;")
}
