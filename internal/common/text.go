package common

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// CleanText strips all markup from upstream text and collapses whitespace.
// Entities are decoded because html/template re-escapes on output.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	out := html.UnescapeString(strictPolicy.Sanitize(s))
	return strings.Join(strings.Fields(out), " ")
}
