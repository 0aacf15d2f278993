package markup

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/onekit-js/onekit-site/pkg/security"
)

// Prose renders Markdown explanations and notes to sanitised HTML.
type Prose struct {
	md        goldmark.Markdown
	sanitizer *security.Sanitizer
}

// NewProse returns a GitHub-flavoured Markdown renderer. Raw HTML in the
// source is dropped by goldmark and the output is sanitised again.
func NewProse() *Prose {
	return &Prose{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
		sanitizer: security.NewSanitizer(),
	}
}

// Render converts src to HTML.
func (p *Prose) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := p.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return string(p.sanitizer.Prose(buf.Bytes())), nil
}

var defaultProse = sync.OnceValue(NewProse)

// Markdown renders src with the shared renderer. Conversion errors yield
// an empty string.
func Markdown(src string) string {
	if src == "" {
		return ""
	}
	out, err := defaultProse().Render(src)
	if err != nil {
		return ""
	}
	return out
}
