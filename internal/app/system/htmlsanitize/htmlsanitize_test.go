package htmlsanitize

import (
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string // Strings that should be in output
		excludes []string // Strings that should NOT be in output
	}{
		{
			name:  "empty string",
			input: "",
		},
		{
			name:     "plain text",
			input:    "Hello World",
			contains: []string{"Hello World"},
		},
		{
			name:     "safe HTML preserved",
			input:    "<p>Routed by <strong>StrataRoute</strong></p>",
			contains: []string{"<p>", "<strong>", "StrataRoute"},
		},
		{
			name:     "script tag removed",
			input:    "<p>Hello</p><script>alert('xss')</script>",
			contains: []string{"<p>Hello</p>"},
			excludes: []string{"<script>", "alert", "xss"},
		},
		{
			name:     "onclick removed",
			input:    `<p onclick="alert('xss')">Click me</p>`,
			contains: []string{"<p>", "Click me"},
			excludes: []string{"onclick", "alert"},
		},
		{
			name:     "javascript URL removed",
			input:    `<a href="javascript:alert('xss')">Link</a>`,
			contains: []string{"Link"},
			excludes: []string{"javascript:", "alert"},
		},
		{
			name:     "safe link preserved",
			input:    `<a href="https://example.com">Link</a>`,
			contains: []string{"<a", "href", "https://example.com", "Link"},
		},
		{
			name:     "small print preserved",
			input:    `<small>v2 console</small>`,
			contains: []string{"<small>", "v2 console"},
		},
		{
			name:     "iframe removed",
			input:    `<p>ok</p><iframe src="https://evil.example"></iframe>`,
			contains: []string{"<p>ok</p>"},
			excludes: []string{"iframe", "evil.example"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Sanitize(tc.input)
			for _, want := range tc.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Sanitize(%q) = %q, missing %q", tc.input, got, want)
				}
			}
			for _, bad := range tc.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("Sanitize(%q) = %q, should not contain %q", tc.input, got, bad)
				}
			}
		})
	}
}

func TestIsPlainText(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"just words", true},
		{"a < b", true},
		{"a > b", true},
		{"<p>html</p>", false},
		{"a < b > c", false},
	}
	for _, tc := range tests {
		if got := IsPlainText(tc.input); got != tc.want {
			t.Errorf("IsPlainText(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestPrepareForDisplay(t *testing.T) {
	got := string(PrepareForDisplay("line one\nline two"))
	if !strings.Contains(got, "<br>") || !strings.HasPrefix(got, "<p>") {
		t.Errorf("plain text not converted: %q", got)
	}

	got = string(PrepareForDisplay("<em>already html</em><script>x</script>"))
	if !strings.Contains(got, "<em>") || strings.Contains(got, "<script>") {
		t.Errorf("html path not sanitized: %q", got)
	}

	if PrepareForDisplay("") != "" {
		t.Error("empty input should stay empty")
	}
}
