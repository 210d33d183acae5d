package render

import (
	"html"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictOnce   sync.Once
	strictPolicy *bluemonday.Policy
)

func policy() *bluemonday.Policy {
	strictOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// SafeText strips all markup from service-provided text and returns it
// HTML-escaped, ready to embed in a page without further escaping.
func SafeText(s string) string {
	if s == "" {
		return ""
	}
	return policy().Sanitize(s)
}

// PlainText strips all markup and returns unescaped text for non-HTML
// outputs such as the terminal.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return html.UnescapeString(policy().Sanitize(s))
}
