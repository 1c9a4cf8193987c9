// Package sanitize cleans host-supplied strings before they enter the
// behavior log, the analytics store, or a suggestion shown back to the
// user. Element selectors, page paths, error contexts, and manual trigger
// messages all arrive over the MCP boundary from an untrusted host, so
// control characters, markup, and runaway lengths are stripped here once
// instead of in every consumer.
package sanitize

import (
	"regexp"
	"strings"
)

// MaxTextLength is the maximum allowed length for free-text fields such
// as suggestion messages and error contexts.
const MaxTextLength = 500

// MaxIdentifierLength is the maximum allowed length for identifiers such
// as tour IDs and feature names.
const MaxIdentifierLength = 80

// Pre-compiled regular expressions for performance.
var (
	// reXMLTag matches XML/HTML tags including those with attributes and
	// self-closing tags, plus processing instructions like <?xml ...?>.
	reXMLTag = regexp.MustCompile(`<[/?!]?[a-zA-Z][a-zA-Z0-9]*(?:\s+[^>]*)?/?>|<\?[^?]*\?>`)

	// reBacktickFence matches triple (or more) backtick sequences.
	reBacktickFence = regexp.MustCompile("```+")

	// reWhitespaceRun matches runs of whitespace including newlines.
	reWhitespaceRun = regexp.MustCompile(`\s+`)

	// reRepeatedHyphens matches 2 or more consecutive hyphens.
	reRepeatedHyphens = regexp.MustCompile(`-{2,}`)

	// reRepeatedUnderscores matches 2 or more consecutive underscores.
	reRepeatedUnderscores = regexp.MustCompile(`_{2,}`)
)

// Text sanitizes a free-text field for safe storage and later display. It
// strips control characters, XML/HTML tags, and backtick fences, collapses
// whitespace runs to a single space, and truncates to MaxTextLength.
func Text(input string) string {
	if input == "" {
		return ""
	}

	s := stripControlChars(input)
	s = reXMLTag.ReplaceAllString(s, "")
	s = reBacktickFence.ReplaceAllString(s, "`")
	s = reWhitespaceRun.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	if len(s) > MaxTextLength {
		s = s[:MaxTextLength] + "..."
	}

	return s
}

// Identifier sanitizes an identifier such as a tour ID, feature name, or
// page path. Only [a-zA-Z0-9-_/.#] are kept, repeated hyphens and
// underscores are collapsed, and the result is truncated to
// MaxIdentifierLength.
func Identifier(input string) string {
	if input == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' || r == '/' ||
			r == '.' || r == '#' {
			b.WriteRune(r)
		}
	}
	s := b.String()

	s = reRepeatedHyphens.ReplaceAllString(s, "-")
	s = reRepeatedUnderscores.ReplaceAllString(s, "_")

	if len(s) > MaxIdentifierLength {
		s = s[:MaxIdentifierLength]
	}

	return s
}

// stripControlChars removes ASCII control characters (0x00-0x1F) from the
// string, except for newline (0x0A) and tab (0x09) which whitespace
// collapsing handles later.
func stripControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 && r != '\n' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
