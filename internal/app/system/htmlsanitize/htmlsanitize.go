// Package htmlsanitize strips dangerous markup from user-supplied content
// before it is stored. Discussion messages and topic descriptions accept a
// small amount of formatting; everything else is removed.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var policy = bluemonday.UGCPolicy()

// Sanitize returns s with scripts, event handlers, and javascript: URLs
// removed. Safe formatting (paragraphs, emphasis, lists, tables, links)
// is preserved.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}

// StripTags removes all markup, leaving plain text. Used for fields that
// should never contain HTML at all (titles, names).
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return bluemonday.StrictPolicy().Sanitize(s)
}
