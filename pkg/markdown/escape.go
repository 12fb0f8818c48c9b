package markdown

import "strings"

// Reserved characters of Telegram's MarkdownV2 parser. Each one must be
// backslash-escaped when it appears as literal text or inside a URL.
var reserved = map[byte]bool{
	'_': true,
	'*': true,
	'[': true,
	']': true,
	'(': true,
	')': true,
	'~': true,
	'`': true,
	'>': true,
	'#': true,
	'+': true,
	'-': true,
	'=': true,
	'|': true,
	'{': true,
	'}': true,
	'.': true,
	'!': true,
}

// Escape backslash-escapes every reserved MarkdownV2 character in text.
func Escape(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 8)
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if reserved[ch] {
			b.WriteByte('\\')
		}
		b.WriteByte(ch)
	}
	return b.String()
}
