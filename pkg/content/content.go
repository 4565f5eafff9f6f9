// Package content holds rendering helpers for CMS rich text and dates.
package content

import (
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richTextPolicy = bluemonday.UGCPolicy()
	stripPolicy    = bluemonday.StrictPolicy()
)

// dateLayouts are the timestamp formats the Delivery API emits
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// RenderRichText returns sanitized HTML for a rich text property. The value
// may be a string or an object with a "markup" field; anything else is "".
func RenderRichText(v any) string {
	var markup string
	switch rt := v.(type) {
	case string:
		markup = rt
	case map[string]any:
		markup, _ = rt["markup"].(string)
	}
	if markup == "" {
		return ""
	}
	return richTextPolicy.Sanitize(markup)
}

// Excerpt strips tags from html and truncates the text to length runes,
// appending "..." when it was cut.
func Excerpt(content string, length int) string {
	if content == "" {
		return ""
	}

	text := html.UnescapeString(stripPolicy.Sanitize(content))
	runes := []rune(text)
	if len(runes) <= length {
		return text
	}
	return strings.TrimSpace(string(runes[:length])) + "..."
}

// FormatDate renders a CMS timestamp as "Jan 2, 2006". Unparseable input is
// returned unchanged.
func FormatDate(s string) string {
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return s
}
