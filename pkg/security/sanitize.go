// Package security provides HTML sanitising and response security headers.
package security

import (
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans rendered Markdown and strips markup from plain text.
type Sanitizer struct {
	prose  *bluemonday.Policy
	strict *bluemonday.Policy
}

// NewSanitizer returns a sanitizer whose prose policy keeps user-generated
// content formatting, code blocks with language classes and safe links.
func NewSanitizer() *Sanitizer {
	prose := bluemonday.UGCPolicy()
	prose.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre", "span")
	prose.RequireNoFollowOnLinks(false)
	prose.AddTargetBlankToFullyQualifiedLinks(true)

	return &Sanitizer{
		prose:  prose,
		strict: bluemonday.StrictPolicy(),
	}
}

// Prose sanitises HTML produced from Markdown.
func (s *Sanitizer) Prose(html []byte) []byte {
	return s.prose.SanitizeBytes(html)
}

// StripTags removes all markup, leaving escaped text.
func (s *Sanitizer) StripTags(html string) string {
	return s.strict.Sanitize(html)
}

// TruncateText shortens s to at most maxLen runes, ending with an ellipsis
// when cut.
func TruncateText(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return strings.TrimRightFunc(string(runes[:maxLen-1]), isSpace) + "…"
}

// NormalizeWhitespace collapses whitespace runs to single spaces.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n'
}
