package components

import (
	"fmt"
	"html"
	"strings"

	"github.com/onekit-js/onekit-site/internal/content"
)

// FooterOptions configures the footer component.
type FooterOptions struct {
	// SiteName is the logo text
	SiteName string
	// Footer holds the link groups and legal text
	Footer content.Footer
}

// RenderFooter generates the page footer.
func RenderFooter(opts FooterOptions) string {
	var sb strings.Builder

	sb.WriteString(`<footer class="site-footer" role="contentinfo">`)
	sb.WriteString("\n")
	sb.WriteString(`<div class="container">`)
	sb.WriteString("\n")
	sb.WriteString(`<div class="footer-grid">`)
	sb.WriteString("\n")

	// Logo, tagline and social links
	sb.WriteString(`<div class="footer-group">`)
	sb.WriteString(fmt.Sprintf(`<div class="logo">⚡ %s</div>`, html.EscapeString(opts.SiteName)))
	if opts.Footer.Tagline != "" {
		sb.WriteString(fmt.Sprintf(`<p>%s</p>`, html.EscapeString(opts.Footer.Tagline)))
	}
	if len(opts.Footer.Social) > 0 {
		sb.WriteString(`<div class="footer-social">`)
		for _, link := range opts.Footer.Social {
			sb.WriteString(renderFooterLink(link))
		}
		sb.WriteString(`</div>`)
	}
	sb.WriteString(`</div>`)
	sb.WriteString("\n")

	for _, group := range opts.Footer.Groups {
		sb.WriteString(`<nav class="footer-group"`)
		sb.WriteString(fmt.Sprintf(` aria-label="%s">`, html.EscapeString(group.Title)))
		sb.WriteString(fmt.Sprintf(`<h4>%s</h4>`, html.EscapeString(group.Title)))
		for _, link := range group.Links {
			sb.WriteString(renderFooterLink(link))
		}
		sb.WriteString(`</nav>`)
		sb.WriteString("\n")
	}

	sb.WriteString(`</div>`)
	sb.WriteString("\n")

	sb.WriteString(`<div class="footer-bottom">`)
	sb.WriteString(fmt.Sprintf(`<span>%s</span>`, html.EscapeString(opts.Footer.Copyright)))
	if len(opts.Footer.Legal) > 0 {
		sb.WriteString(`<div class="footer-legal">`)
		for _, link := range opts.Footer.Legal {
			sb.WriteString(renderFooterLink(link))
		}
		sb.WriteString(`</div>`)
	}
	sb.WriteString(`</div>`)
	sb.WriteString("\n")

	sb.WriteString(`</div>`)
	sb.WriteString("\n")
	sb.WriteString(`</footer>`)
	sb.WriteString("\n")

	return sb.String()
}

func renderFooterLink(link content.Link) string {
	ext := ""
	if link.External {
		ext = ` target="_blank" rel="noopener noreferrer"`
	}
	return fmt.Sprintf(`<a href="%s"%s>%s</a>`, html.EscapeString(link.Href), ext, html.EscapeString(link.Label))
}
