package components

import (
	"fmt"
	"html"
	"strings"

	"github.com/onekit-js/onekit-site/internal/content"
)

// HeroButton represents a hero call to action.
type HeroButton struct {
	Link    content.Link
	Primary bool
}

// HeroOptions configures the hero section.
type HeroOptions struct {
	Hero content.Hero
	// Buttons are rendered below the intro
	Buttons []HeroButton
	// Extra is trusted HTML appended after the buttons
	Extra string
}

// RenderHero generates the heading block of a page.
func RenderHero(opts HeroOptions) string {
	var sb strings.Builder

	sb.WriteString(`<section class="page-hero" aria-labelledby="hero-title">`)
	sb.WriteString("\n")
	sb.WriteString(`<div class="container">`)
	sb.WriteString("\n")

	if opts.Hero.Badge != "" {
		sb.WriteString(fmt.Sprintf(`<span class="hero-badge">%s</span>`, html.EscapeString(opts.Hero.Badge)))
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf(`<h1 id="hero-title" class="hero-title text-gradient">%s</h1>`, html.EscapeString(opts.Hero.Title)))
	sb.WriteString("\n")
	if opts.Hero.Intro != "" {
		sb.WriteString(fmt.Sprintf(`<p class="hero-intro">%s</p>`, html.EscapeString(opts.Hero.Intro)))
		sb.WriteString("\n")
	}

	if len(opts.Buttons) > 0 {
		sb.WriteString(`<div class="hero-actions">`)
		for _, b := range opts.Buttons {
			sb.WriteString(renderButtonLink(b.Link, b.Primary))
		}
		sb.WriteString(`</div>`)
		sb.WriteString("\n")
	}

	sb.WriteString(opts.Extra)

	sb.WriteString(`</div>`)
	sb.WriteString("\n")
	sb.WriteString(`</section>`)
	sb.WriteString("\n")

	return sb.String()
}

func renderButtonLink(link content.Link, primary bool) string {
	class := "btn btn-secondary"
	if primary {
		class = "btn btn-primary"
	}
	ext := ""
	if link.External {
		ext = ` target="_blank" rel="noopener noreferrer"`
	}
	return fmt.Sprintf(`<a href="%s" class="%s"%s>%s</a>`,
		html.EscapeString(link.Href), class, ext, html.EscapeString(link.Label))
}

// RenderCTA generates a call-to-action block.
func RenderCTA(cta content.CTA) string {
	var sb strings.Builder
	sb.WriteString(`<section class="cta">`)
	sb.WriteString(fmt.Sprintf(`<h2>%s</h2>`, html.EscapeString(cta.Title)))
	sb.WriteString(fmt.Sprintf(`<p>%s</p>`, html.EscapeString(cta.Text)))
	sb.WriteString(`<div class="hero-actions">`)
	if cta.Primary.Href != "" {
		sb.WriteString(renderButtonLink(cta.Primary, true))
	}
	if cta.Secondary.Href != "" {
		sb.WriteString(renderButtonLink(cta.Secondary, false))
	}
	sb.WriteString(`</div></section>`)
	sb.WriteString("\n")
	return sb.String()
}
