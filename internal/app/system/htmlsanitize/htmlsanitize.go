// internal/app/system/htmlsanitize/htmlsanitize.go
//
// Package htmlsanitize cleans user-supplied text before it is stored.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

// Sanitize keeps safe formatting markup and strips scripts, event handler
// attributes, and javascript: URLs.
func Sanitize(input string) string {
	return ugc.Sanitize(input)
}

// Strip removes all markup, leaving plain text. Used for single-line fields
// such as names, codes, and titles.
func Strip(input string) string {
	return strings.TrimSpace(strict.Sanitize(input))
}
