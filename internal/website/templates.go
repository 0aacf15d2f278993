// Package website renders the HTML document shell and the stylesheet shared
// by every page of the OneKit JS site.
package website

import (
	"strings"

	"github.com/onekit-js/onekit-site/internal/content"
)

// Asset paths served by the HTTP server.
const (
	StylesheetPath = "/assets/site.css"
	ScriptPath     = "/live/client.js"
)

// Themes.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// PageConfig defines the document metadata for one page.
type PageConfig struct {
	// Title is the page title (shown in browser tab and search results)
	Title string
	// Description is the meta description for SEO
	Description string
	// URL is the canonical URL of the page
	URL string
	// Keywords are SEO keywords for the page
	Keywords []string
	// Author is the author meta tag
	Author string
	// OGImage is the Open Graph image URL (for social sharing)
	OGImage string
	// Language is the page language (default: "en")
	Language string
	// ThemeColor is the mobile browser theme color
	ThemeColor string
	// Favicon is the path to the favicon
	Favicon string

	SiteName   string
	Version    string
	License    string
	Repository string

	// Theme is dark or light. Anything else renders dark.
	Theme string

	// Stylesheet and Script default to StylesheetPath and ScriptPath.
	Stylesheet string
	Script     string
}

// DefaultPageConfig returns the site-wide metadata for a page at path.
// An empty title uses the site title.
func DefaultPageConfig(site content.Site, baseURL, path, title, description string) PageConfig {
	fullTitle := site.Title
	if title != "" {
		fullTitle = title + " | " + site.Name
	}
	if description == "" {
		description = site.SocialDescription
	}
	return PageConfig{
		Title:       fullTitle,
		Description: description,
		URL:         strings.TrimRight(baseURL, "/") + path,
		Keywords:    site.Keywords,
		Author:      site.Author,
		Language:    "en",
		SiteName:    site.Name,
		Version:     site.Version,
		License:     site.License,
		Repository:  site.Repository,
		Theme:       ThemeDark,
	}
}

// NormalizeTheme maps any value other than light to dark.
func NormalizeTheme(theme string) string {
	if theme == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}
