// Package search implements the linear, case-insensitive substring filter
// used by the usage page and the site search endpoint.
package search

import (
	"html"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Document is anything the filter can match.
type Document interface {
	SearchFields() (name, description string, tags []string)
}

// Normalize trims and case-folds a query or field.
func Normalize(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Filter returns the items whose name, description or any tag contains
// query, in their original order. An empty query matches everything.
func Filter[T Document](items []T, query string) []T {
	q := Normalize(query)
	if q == "" {
		return items
	}

	fold := cases.Fold()
	out := make([]T, 0, len(items))
	for _, it := range items {
		if matches(fold, it, q) {
			out = append(out, it)
		}
	}
	return out
}

// Match reports whether a single document matches query.
func Match(d Document, query string) bool {
	q := Normalize(query)
	return q == "" || matches(cases.Fold(), d, q)
}

func matches(fold cases.Caser, d Document, q string) bool {
	name, desc, tags := d.SearchFields()
	if strings.Contains(fold.String(name), q) || strings.Contains(fold.String(desc), q) {
		return true
	}
	for _, tag := range tags {
		if strings.Contains(fold.String(tag), q) {
			return true
		}
	}
	return false
}

// Highlight returns text as escaped HTML with every case-insensitive match
// of query wrapped in <mark>.
func Highlight(text, query string) string {
	q := Normalize(query)
	if q == "" {
		return html.EscapeString(text)
	}

	fold := cases.Fold()
	var b strings.Builder
	last := 0
	for i := 0; i < len(text); {
		if end := matchAt(fold, text, i, q); end > i {
			b.WriteString(html.EscapeString(text[last:i]))
			b.WriteString("<mark>")
			b.WriteString(html.EscapeString(text[i:end]))
			b.WriteString("</mark>")
			i, last = end, end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	b.WriteString(html.EscapeString(text[last:]))
	return b.String()
}

// matchAt returns the end offset of a match of the folded query starting at
// byte offset start, or start when there is none. Runes are folded one at a
// time since folding can change their length.
func matchAt(fold cases.Caser, text string, start int, q string) int {
	var folded strings.Builder
	for i := start; i < len(text); {
		_, size := utf8.DecodeRuneInString(text[i:])
		folded.WriteString(fold.String(text[i : i+size]))
		i += size

		f := folded.String()
		switch {
		case f == q:
			return i
		case len(f) >= len(q) || !strings.HasPrefix(q, f):
			return start
		}
	}
	return start
}
