// Package sanitize strips markup from user-entered text before it enters
// the skill tree.
package sanitize

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Elements whose text content is dropped along with the tags.
var dropContent = map[string]bool{
	"script":   true,
	"style":    true,
	"iframe":   true,
	"noscript": true,
	"template": true,
	"textarea": true,
	"title":    true,
	"object":   true,
	"embed":    true,
	"svg":      true,
	"math":     true,
}

// Template expressions ({{ }}, ${ }, <% %>) are removed as well.
var templateExpr = regexp.MustCompile(`\{\{[\s\S]*?\}\}|\$\{[\s\S]*?\}|<%[\s\S]*?%>`)

// Text removes all HTML tags, comments and template expressions from input
// and trims surrounding whitespace. Entities are decoded, and the result is
// stripped again until it stops changing, so Text(Text(x)) == Text(x).
func Text(input string) string {
	out := strip(input)
	for {
		next := strip(out)
		if next == out {
			return out
		}
		out = next
	}
}

func strip(input string) string {
	input = templateExpr.ReplaceAllString(input, " ")

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(input))
	skipDepth := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return strings.TrimSpace(templateExpr.ReplaceAllString(b.String(), " "))
		case html.StartTagToken:
			name, _ := z.TagName()
			if dropContent[string(name)] {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if dropContent[string(name)] && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(z.Text())
			}
		}
	}
}
