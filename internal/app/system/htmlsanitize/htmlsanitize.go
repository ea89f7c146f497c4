// Package htmlsanitize cleans operator-supplied rich text before it is
// rendered, currently just the footer HTML from console settings. It
// uses bluemonday to strip dangerous markup while keeping basic
// formatting.
package htmlsanitize

import (
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared sanitization policy, creating it on first use.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()

		// Footer text often carries small print formatting.
		policy.AllowElements("u", "s", "sub", "sup", "small")
		policy.AllowAttrs("class").OnElements("p", "span", "div")
	})
	return policy
}

// Sanitize cleans HTML input, removing potentially dangerous elements
// and attributes. Safe formatting like bold, italic, lists, and links
// survives.
func Sanitize(html string) string {
	if html == "" {
		return ""
	}
	return getPolicy().Sanitize(html)
}

// SanitizeToHTML sanitizes HTML input and returns it as template.HTML,
// which renders unescaped in Go templates.
func SanitizeToHTML(html string) template.HTML {
	return template.HTML(Sanitize(html))
}

// IsPlainText checks if content appears to be plain text (no HTML tags).
func IsPlainText(content string) bool {
	if content == "" {
		return true
	}
	return !strings.Contains(content, "<") || !strings.Contains(content, ">")
}

// PrepareForDisplay takes content that may be plain text or HTML and
// returns sanitized template.HTML ready for rendering. Plain text is
// escaped and wrapped in a paragraph with newlines as line breaks.
func PrepareForDisplay(content string) template.HTML {
	if content == "" {
		return ""
	}
	if IsPlainText(content) {
		escaped := template.HTMLEscapeString(content)
		escaped = strings.ReplaceAll(escaped, "\n", "<br>")
		return template.HTML("<p>" + escaped + "</p>")
	}
	return SanitizeToHTML(content)
}
