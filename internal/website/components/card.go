package components

import (
	"fmt"
	"html"
	"strings"
)

// CardOptions configures a card.
type CardOptions struct {
	// ID is the optional element id, used as a link anchor
	ID string
	// Title is the card heading
	Title string
	// TitleHTML is trusted heading markup, used instead of Title
	TitleHTML string
	// Badges is trusted HTML shown next to the title
	Badges string
	// Description is the plain text below the title
	Description string
	// DescriptionHTML is trusted markup, used instead of Description
	DescriptionHTML string
	// Body is trusted HTML
	Body string
	// Footer is trusted HTML
	Footer string
}

// RenderCard generates a bordered content card.
func RenderCard(opts CardOptions) string {
	var sb strings.Builder

	if opts.ID != "" {
		sb.WriteString(fmt.Sprintf(`<article class="card" id="%s">`, html.EscapeString(opts.ID)))
	} else {
		sb.WriteString(`<article class="card">`)
	}
	sb.WriteString("\n")

	title := opts.TitleHTML
	if title == "" {
		title = html.EscapeString(opts.Title)
	}
	description := opts.DescriptionHTML
	if description == "" {
		description = html.EscapeString(opts.Description)
	}

	if title != "" || description != "" {
		sb.WriteString(`<div class="card-header">`)
		if title != "" {
			sb.WriteString(fmt.Sprintf(`<h3 class="card-title">%s%s</h3>`, title, opts.Badges))
		}
		if description != "" {
			sb.WriteString(fmt.Sprintf(`<p class="card-description">%s</p>`, description))
		}
		sb.WriteString(`</div>`)
		sb.WriteString("\n")
	}

	if opts.Body != "" {
		sb.WriteString(`<div class="card-body">`)
		sb.WriteString(opts.Body)
		sb.WriteString(`</div>`)
		sb.WriteString("\n")
	}

	if opts.Footer != "" {
		sb.WriteString(`<div class="card-footer">`)
		sb.WriteString(opts.Footer)
		sb.WriteString(`</div>`)
		sb.WriteString("\n")
	}

	sb.WriteString(`</article>`)
	sb.WriteString("\n")

	return sb.String()
}

// RenderGrid wraps items in a responsive grid of up to columns columns.
func RenderGrid(columns int, items []string) string {
	class := "grid grid-3"
	if columns == 2 {
		class = "grid grid-2"
	}
	return `<div class="` + class + `">` + strings.Join(items, "") + `</div>`
}
