// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips dangerous markup from user-supplied rich
// text (organization descriptions, community purposes) before it is
// stored. Formatting tags survive; scripts and event handlers do not.
package htmlsanitize

import (
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.UGCPolicy()

// Sanitize returns s with all disallowed HTML removed.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}

// SanitizeHTML sanitizes and returns the result as template.HTML for
// rendering contexts that must not re-escape it.
func SanitizeHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}
