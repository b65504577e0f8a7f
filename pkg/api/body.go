package api

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// IsHTML reports whether body is an HTML error page rather than JSON. The
// API answers some failures (unknown method, malformed path) with HTML.
func IsHTML(body []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(body, " \t\r\n"), []byte("<"))
}

// HTMLMessage returns the text of the first <p> element in body, or "" when
// the page has none.
func HTMLMessage(body []byte) string {
	z := html.NewTokenizer(bytes.NewReader(body))
	depth := 0
	var msg strings.Builder

	for {
		switch z.Next() {
		case html.ErrorToken:
			// Unterminated paragraph: keep what was collected.
			return strings.TrimSpace(msg.String())
		case html.StartTagToken:
			if name, _ := z.TagName(); string(name) == "p" {
				depth++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == "p" && depth > 0 {
				return strings.TrimSpace(msg.String())
			}
		case html.TextToken:
			if depth > 0 {
				msg.Write(z.Text())
			}
		}
	}
}
