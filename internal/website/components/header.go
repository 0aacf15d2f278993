// Package components provides the presentational building blocks shared by
// every page: header, footer, cards, tabs, badges, code blocks and feedback
// indicators. Components return HTML strings with all text escaped.
package components

import (
	"fmt"
	"html"
	"strings"

	"github.com/onekit-js/onekit-site/internal/content"
	"github.com/onekit-js/onekit-site/internal/website"
	"github.com/onekit-js/onekit-site/pkg/a11y"
)

// HeaderOptions configures the site header.
type HeaderOptions struct {
	// SiteName is the logo text
	SiteName string
	// Version is shown next to the logo
	Version string
	// Links are the navigation links
	Links []content.Link
	// Active is the path of the current page
	Active string
	// Theme is the current theme, dark or light
	Theme string
	// MenuOpen expands the navigation on small screens
	MenuOpen bool
	// Repository is the source repository URL
	Repository string
}

// RenderHeader generates the fixed navigation bar. The inner content is
// the "header" slot so theme and menu changes patch in place.
func RenderHeader(opts HeaderOptions) string {
	var sb strings.Builder

	sb.WriteString(a11y.SkipLink("main-content", "Skip to main content"))
	sb.WriteString("\n")
	sb.WriteString(`<header class="site-header" role="banner">`)
	sb.WriteString(`<nav class="container nav-inner" aria-label="Main navigation" data-slot="header">`)
	sb.WriteString("\n")

	sb.WriteString(`<a href="/" class="logo" aria-label="Home">⚡ `)
	sb.WriteString(html.EscapeString(opts.SiteName))
	if opts.Version != "" {
		sb.WriteString(fmt.Sprintf(`<span class="logo-version">v%s</span>`, html.EscapeString(opts.Version)))
	}
	sb.WriteString(`</a>`)
	sb.WriteString("\n")

	linksClass := "nav-links"
	if opts.MenuOpen {
		linksClass += " open"
	}
	sb.WriteString(fmt.Sprintf(`<div id="nav-links" class="%s">`, linksClass))
	for _, link := range opts.Links {
		sb.WriteString(renderNavLink(link, opts.Active))
	}
	sb.WriteString(`</div>`)
	sb.WriteString("\n")

	sb.WriteString(`<div class="nav-actions">`)
	if opts.Repository != "" {
		sb.WriteString(fmt.Sprintf(`<a href="%s" class="btn btn-ghost btn-sm" target="_blank" rel="noopener noreferrer">GitHub</a>`,
			html.EscapeString(opts.Repository)))
	}

	next, icon := website.ThemeLight, "☀️"
	if website.NormalizeTheme(opts.Theme) == website.ThemeLight {
		next, icon = website.ThemeDark, "🌙"
	}
	sb.WriteString(fmt.Sprintf(`<button type="button" class="btn btn-ghost btn-icon theme-toggle" lv-click="toggle_theme" aria-label="Switch to %s theme">%s</button>`,
		next, icon))

	sb.WriteString(fmt.Sprintf(`<button type="button" class="btn btn-ghost btn-icon menu-toggle" lv-click="toggle_menu" %s %s %s>%s</button>`,
		a11y.AriaControls("nav-links"), a11y.AriaExpanded(opts.MenuOpen), a11y.AriaLabel("Toggle menu"), menuIcon(opts.MenuOpen)))
	sb.WriteString(`</div>`)
	sb.WriteString("\n")

	sb.WriteString(`</nav>`)
	sb.WriteString(`</header>`)
	sb.WriteString("\n")

	return sb.String()
}

func renderNavLink(link content.Link, active string) string {
	class := "nav-link"
	current := ""
	if !link.External && isActive(link.Href, active) {
		class += " active"
		current = ` aria-current="page"`
	}
	ext := ""
	if link.External {
		ext = ` target="_blank" rel="noopener noreferrer"`
	}
	return fmt.Sprintf(`<a href="%s" class="%s"%s%s>%s</a>`,
		html.EscapeString(link.Href), class, current, ext, html.EscapeString(link.Label))
}

// isActive matches the home link exactly and other links by prefix.
func isActive(href, active string) bool {
	if href == "/" {
		return active == "/"
	}
	return active == href || strings.HasPrefix(active, href+"/")
}

func menuIcon(open bool) string {
	if open {
		return "✕"
	}
	return "☰"
}
