package website

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onekit-js/onekit-site/internal/content"
)

func testSite() content.Site {
	return content.Site{
		Name:              "OneKit JS",
		Title:             "OneKit JS - Lightweight JavaScript Utilities",
		SocialDescription: "Tiny, fast utilities.",
		Version:           "3.0.0",
		Author:            "OneKit Team",
		License:           "MIT",
		Keywords:          []string{"javascript", "reactive"},
		Repository:        "https://github.com/onekit-js/onekit",
	}
}

func TestDefaultPageConfig(t *testing.T) {
	cfg := DefaultPageConfig(testSite(), "https://onekit.dev/", "/docs", "API Reference", "")

	assert.Equal(t, "API Reference | OneKit JS", cfg.Title)
	assert.Equal(t, "Tiny, fast utilities.", cfg.Description)
	assert.Equal(t, "https://onekit.dev/docs", cfg.URL)
	assert.Equal(t, ThemeDark, cfg.Theme)

	home := DefaultPageConfig(testSite(), "https://onekit.dev", "/", "", "Home page")
	assert.Equal(t, testSite().Title, home.Title)
	assert.Equal(t, "Home page", home.Description)
}

func TestRenderDocument(t *testing.T) {
	cfg := DefaultPageConfig(testSite(), "https://onekit.dev", "/", "", "")
	cfg.Theme = ThemeLight

	doc := RenderDocument(cfg, `<div id="lv-root"></div>`)

	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	assert.Contains(t, doc, `<html lang="en" data-theme="light">`)
	assert.Contains(t, doc, `<link rel="stylesheet" href="/assets/site.css">`)
	assert.Contains(t, doc, `<script src="/live/client.js" defer></script>`)
	assert.Contains(t, doc, `<link rel="canonical" href="https://onekit.dev/">`)
	assert.Contains(t, doc, `<meta property="og:site_name" content="OneKit JS">`)
	assert.Contains(t, doc, `<meta name="twitter:card"`)
	assert.Contains(t, doc, `"@type":"SoftwareSourceCode"`)
	assert.Contains(t, doc, `"version":"3.0.0"`)
	assert.Contains(t, doc, `<div id="lv-root"></div>`)
	assert.NotContains(t, doc, "<style")
}

func TestRenderDocument_EscapesAndNormalizesTheme(t *testing.T) {
	cfg := PageConfig{Title: `</title><script>`, Description: "</script>", Theme: "neon"}
	doc := RenderDocument(cfg, "")

	assert.Contains(t, doc, `data-theme="dark"`)
	assert.Contains(t, doc, "&lt;/title&gt;&lt;script&gt;")
	// The JSON-LD payload escapes angle brackets.
	assert.Equal(t, 2, strings.Count(doc, "</script>"))
}

func TestRenderStyles_Deterministic(t *testing.T) {
	a := RenderStyles()
	b := RenderStyles()
	assert.Equal(t, a, b)
	assert.Contains(t, a, ":root{--color-accent:")
	assert.Contains(t, a, `[data-theme="light"]{--color-accent:`)
	assert.Contains(t, a, "@keyframes spin")

	noAnim := RenderStyles(WithAnimations(false), WithReset(false))
	assert.NotContains(t, noAnim, "@keyframes")
	assert.NotContains(t, noAnim, "box-sizing:border-box;margin:0")

	custom := RenderStyles(WithCustomColors(map[string]string{"primary": "#123456"}))
	assert.Contains(t, custom, "--color-primary:#123456")
}

func TestStylesheet_IncludesHighlighter(t *testing.T) {
	css, err := Stylesheet()
	require.NoError(t, err)
	assert.Contains(t, css, ".chroma")
	assert.Contains(t, css, ".copy-btn")
}
