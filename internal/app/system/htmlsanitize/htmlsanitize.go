// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips dangerous markup from user-authored HTML
// before it is stored: NGO homepage content, program descriptions, and
// announcement bodies.
package htmlsanitize

import (
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// policy allows common formatting, links, lists, images, and tables while
// removing scripts, event handlers, and javascript: URLs.
var policy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("u", "s", "sub", "sup", "mark")
	// Rich-text editors emit class names and inline styles for tables.
	p.AllowAttrs("class", "style").OnElements("table", "thead", "tbody", "tr", "th", "td", "p", "span", "div")
	return p
}

// Sanitize returns the input with unsafe markup removed. Plain text passes
// through unchanged.
func Sanitize(input string) string {
	if input == "" {
		return ""
	}
	return policy.Sanitize(input)
}

// StripTags removes all markup, leaving plain text. Used for fields that
// must never contain HTML, like titles and SEO descriptions.
func StripTags(input string) string {
	if input == "" {
		return ""
	}
	return bluemonday.StrictPolicy().Sanitize(input)
}

// SanitizeToHTML sanitizes the input and returns it as template.HTML,
// ready for direct rendering.
func SanitizeToHTML(input string) template.HTML {
	return template.HTML(Sanitize(input))
}

// IsPlainText reports whether the input contains no markup. A string
// needs both < and > to count as HTML.
func IsPlainText(input string) bool {
	return !strings.Contains(input, "<") || !strings.Contains(input, ">")
}

// PlainTextToHTML escapes the input and wraps it in a paragraph, turning
// newlines into <br>.
func PlainTextToHTML(input string) string {
	if input == "" {
		return ""
	}
	escaped := template.HTMLEscapeString(input)
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	return "<p>" + escaped + "</p>"
}

// PrepareForDisplay renders stored content: plain text is wrapped as
// HTML, anything with markup is sanitized.
func PrepareForDisplay(input string) template.HTML {
	if input == "" {
		return ""
	}
	if IsPlainText(input) {
		return template.HTML(PlainTextToHTML(input))
	}
	return SanitizeToHTML(input)
}
