// Package render converts assistant reply text into HTML.
//
// Reply strings use a minimal formatting contract: **text** marks bold
// spans and newlines separate lines. Clients that want rich output ask
// for HTML; everyone else gets the plain string untouched.
package render

import (
	"html"
	"strings"
)

// ToHTML converts a reply string to an HTML fragment.
// The input is escaped first, so user-influenced text cannot inject
// markup. Bold markers must come in pairs; an unmatched ** is left
// as literal text.
func ToHTML(s string) string {
	escaped := html.EscapeString(s)

	var b strings.Builder
	b.Grow(len(escaped) + 16)

	for {
		open := strings.Index(escaped, "**")
		if open < 0 {
			b.WriteString(escaped)
			break
		}
		end := strings.Index(escaped[open+2:], "**")
		if end < 0 {
			b.WriteString(escaped)
			break
		}
		b.WriteString(escaped[:open])
		b.WriteString("<strong>")
		b.WriteString(escaped[open+2 : open+2+end])
		b.WriteString("</strong>")
		escaped = escaped[open+2+end+2:]
	}

	out := b.String()
	out = strings.ReplaceAll(out, "\r\n", "<br>")
	out = strings.ReplaceAll(out, "\n", "<br>")
	return out
}
