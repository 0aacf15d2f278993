// Package markup turns code snippets and Markdown prose into safe HTML.
package markup

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Theme style names used for the dark (default) and light themes.
const (
	DarkStyle  = "github-dark"
	LightStyle = "github"
)

// LightScope is the selector that activates the light theme.
const LightScope = `[data-theme="light"]`

// Highlighter renders code with chroma using CSS classes, so pages carry no
// inline styles.
type Highlighter struct {
	formatter *chromahtml.Formatter
	dark      *chroma.Style
	light     *chroma.Style
}

// NewHighlighter returns a highlighter for the named chroma styles. Unknown
// names fall back to chroma's default style.
func NewHighlighter(dark, light string) *Highlighter {
	return &Highlighter{
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
		dark:  styles.Get(dark),
		light: styles.Get(light),
	}
}

// Highlight returns the highlighted markup for code, without the
// surrounding pre element.
func (h *Highlighter) Highlight(code, language string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenise %s: %w", language, err)
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.dark, it); err != nil {
		return "", fmt.Errorf("format %s: %w", language, err)
	}
	return buf.String(), nil
}

// CSS returns the stylesheet for both themes. Light rules are scoped under
// LightScope.
func (h *Highlighter) CSS() (string, error) {
	var dark, light bytes.Buffer
	if err := h.formatter.WriteCSS(&dark, h.dark); err != nil {
		return "", fmt.Errorf("dark css: %w", err)
	}
	if err := h.formatter.WriteCSS(&light, h.light); err != nil {
		return "", fmt.Errorf("light css: %w", err)
	}

	scoped := strings.NewReplacer(
		".chroma", LightScope+" .chroma",
		".bg ", LightScope+" .bg ",
	).Replace(light.String())

	return dark.String() + scoped, nil
}

var defaultHighlighter = sync.OnceValue(func() *Highlighter {
	return NewHighlighter(DarkStyle, LightStyle)
})

// Default returns the shared highlighter.
func Default() *Highlighter {
	return defaultHighlighter()
}

// Code highlights with the shared highlighter. On failure it returns the
// escaped source.
func Code(code, language string) string {
	out, err := Default().Highlight(code, language)
	if err != nil {
		return html.EscapeString(code)
	}
	return out
}

var languageLabels = map[string]string{
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"jsx":        "JSX",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"tsx":        "TSX",
	"bash":       "Bash",
	"sh":         "Shell",
	"shell":      "Shell",
	"html":       "HTML",
	"css":        "CSS",
	"json":       "JSON",
	"vue":        "Vue",
	"svelte":     "Svelte",
}

// LanguageLabel returns the display name of a language id.
func LanguageLabel(language string) string {
	if label, ok := languageLabels[strings.ToLower(language)]; ok {
		return label
	}
	if language == "" {
		return "Text"
	}
	return strings.ToUpper(language[:1]) + language[1:]
}
