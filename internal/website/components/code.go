package components

import (
	"fmt"
	"html"
	"strings"

	"github.com/onekit-js/onekit-site/internal/website/markup"
)

// CopiedLabel is the button text while a copy indicator is set.
const CopiedLabel = "Copied!"

// CodeOptions configures a code block.
type CodeOptions struct {
	// ID identifies the snippet for copy feedback
	ID string
	// Title is shown in the header
	Title string
	// Language determines syntax highlighting
	Language string
	// Code is the source code
	Code string
	// Copied shows the copied indicator on the button
	Copied bool
}

// RenderCode generates a syntax-highlighted code block with a copy button.
// The client copies the text of the matching template element and reports
// the outcome with a copy event.
func RenderCode(opts CodeOptions) string {
	var sb strings.Builder

	id := html.EscapeString(opts.ID)

	sb.WriteString(fmt.Sprintf(`<div class="code-block" id="code-%s">`, id))
	sb.WriteString("\n")

	sb.WriteString(`<div class="code-header">`)
	sb.WriteString(fmt.Sprintf(`<span class="code-lang">%s</span>`, html.EscapeString(markup.LanguageLabel(opts.Language))))
	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf(`<span class="code-title">%s</span>`, html.EscapeString(opts.Title)))
	}
	if opts.ID != "" {
		sb.WriteString(RenderCopyButton(opts.ID, opts.Copied))
	}
	sb.WriteString(`</div>`)
	sb.WriteString("\n")

	sb.WriteString(`<pre class="chroma"><code>`)
	sb.WriteString(markup.Code(opts.Code, opts.Language))
	sb.WriteString(`</code></pre>`)
	sb.WriteString("\n")

	if opts.ID != "" {
		sb.WriteString(RenderCopySource(opts.ID, opts.Code))
		sb.WriteString("\n")
	}

	sb.WriteString(`</div>`)
	sb.WriteString("\n")

	return sb.String()
}

// RenderCopyButton generates the button the client wires to the copy
// source with the same id.
func RenderCopyButton(id string, copied bool) string {
	class, label := "copy-btn", "Copy"
	if copied {
		class, label = "copy-btn copied", CopiedLabel
	}
	return fmt.Sprintf(`<button type="button" class="%s" data-copy-id="%s" aria-label="Copy code">%s</button>`,
		class, html.EscapeString(id), label)
}

// RenderCopySource holds the exact text a copy button copies.
func RenderCopySource(id, text string) string {
	return fmt.Sprintf(`<template data-copy-source="%s">%s</template>`, html.EscapeString(id), html.EscapeString(text))
}

// RenderProse renders Markdown into a prose container.
func RenderProse(src string) string {
	if src == "" {
		return ""
	}
	return `<div class="prose">` + markup.Markdown(src) + `</div>`
}
