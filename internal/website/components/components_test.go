package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/onekit-js/onekit-site/internal/content"
)

func TestRenderHeader(t *testing.T) {
	out := RenderHeader(HeaderOptions{
		SiteName: "OneKit JS",
		Version:  "3.0.0",
		Links: []content.Link{
			{Label: "Home", Href: "/"},
			{Label: "Docs", Href: "/docs"},
			{Label: "npm", Href: "https://npmjs.com", External: true},
		},
		Active: "/docs",
		Theme:  "dark",
	})

	assert.Contains(t, out, `<a href="/docs" class="nav-link active" aria-current="page">Docs</a>`)
	assert.Contains(t, out, `<a href="/" class="nav-link">Home</a>`)
	assert.Contains(t, out, `rel="noopener noreferrer"`)
	assert.Contains(t, out, `lv-click="toggle_theme"`)
	assert.Contains(t, out, `Switch to light theme`)
	assert.Contains(t, out, `aria-expanded="false"`)
	assert.Contains(t, out, `data-slot="header"`)
	assert.NotContains(t, out, "style=")
}

func TestRenderHeader_LightAndMenuOpen(t *testing.T) {
	out := RenderHeader(HeaderOptions{SiteName: "OneKit JS", Theme: "light", MenuOpen: true})

	assert.Contains(t, out, `Switch to dark theme`)
	assert.Contains(t, out, `class="nav-links open"`)
	assert.Contains(t, out, `aria-expanded="true"`)
}

func TestRenderCode(t *testing.T) {
	code := `const el = ok("<div>");`
	out := RenderCode(CodeOptions{ID: "snippet-1", Language: "javascript", Code: code})

	assert.Contains(t, out, `data-copy-id="snippet-1"`)
	assert.Contains(t, out, `<span class="code-lang">JavaScript</span>`)
	assert.Contains(t, out, `<template data-copy-source="snippet-1">const el = ok(&#34;&lt;div&gt;&#34;);</template>`)
	assert.Contains(t, out, `>Copy</button>`)
	assert.NotContains(t, out, `<div>");`)

	copied := RenderCode(CodeOptions{ID: "snippet-1", Language: "javascript", Code: code, Copied: true})
	assert.Contains(t, copied, `class="copy-btn copied"`)
	assert.Contains(t, copied, CopiedLabel)
}

func TestRenderCode_NoIDHasNoCopyButton(t *testing.T) {
	out := RenderCode(CodeOptions{Language: "bash", Code: "npm install onekit-js"})
	assert.NotContains(t, out, "data-copy-id")
	assert.NotContains(t, out, "<template")
}

func TestRenderTabs(t *testing.T) {
	out := RenderTabs(TabsOptions{
		Label:  "Install method",
		Event:  "select_method",
		Param:  "method",
		Items:  []TabItem{{ID: "npm", Label: "npm"}, {ID: "yarn", Label: "Yarn"}},
		Active: "yarn",
		Panel:  "<p>panel</p>",
	})

	assert.Contains(t, out, `class="tab active" aria-selected="true" lv-click="select_method" lv-value-method="yarn"`)
	assert.Contains(t, out, `class="tab" aria-selected="false" lv-click="select_method" lv-value-method="npm"`)
	assert.Contains(t, out, `<div class="tab-panel" role="tabpanel"><p>panel</p></div>`)
}

func TestBadges(t *testing.T) {
	assert.Equal(t, `<span class="badge badge-beginner">Beginner</span>`, DifficultyBadge(content.DifficultyBeginner))
	assert.Equal(t, `<span class="badge badge-beta">beta</span>`, StatusBadge(content.StatusBeta))
	assert.Equal(t, `<span class="badge">x</span>`, RenderBadge("x", ""))
	assert.Equal(t, 2, strings.Count(TagBadges([]string{"a", "<b>"}), "badge-tag"))
	assert.Contains(t, TagBadges([]string{"<b>"}), "&lt;b&gt;")
}

func TestRenderLoading(t *testing.T) {
	tests := []struct {
		name string
		size LoadingSize
		text string
		want []string
	}{
		{"defaults", "", "", []string{"loading-md", DefaultLoadingText}},
		{"small", LoadingSmall, "Running", []string{"loading-sm", "Running"}},
		{"large", LoadingLarge, "", []string{"loading-lg"}},
		{"unknown size", "xl", "", []string{"loading-md"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderLoading(tt.size, tt.text)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			assert.Contains(t, out, `role="status"`)
		})
	}
}

func TestRenderToast(t *testing.T) {
	assert.Empty(t, RenderToast(""))
	out := RenderToast("Failed to copy to clipboard")
	assert.Contains(t, out, `role="alert"`)
	assert.Contains(t, out, `lv-click="dismiss_toast"`)
}

func TestRenderSearchBox(t *testing.T) {
	out := RenderSearchBox(SearchBoxOptions{Event: "search", Value: `a"b`, Placeholder: "Search examples..."})
	assert.Contains(t, out, `lv-input="search"`)
	assert.NotContains(t, out, "lv-debounce", "search filters on every keystroke")
	assert.Contains(t, out, `value="a&#34;b"`)
	assert.Contains(t, out, `aria-label="Search"`)
}

func TestRenderProgress_Clamps(t *testing.T) {
	assert.Contains(t, RenderProgress(50, "Progress"), `value="50"`)
	assert.Contains(t, RenderProgress(150, "Progress"), `value="100"`)
	assert.Contains(t, RenderProgress(-3, "Progress"), `value="0"`)
}

func TestRenderSteps(t *testing.T) {
	out := RenderSteps([]content.Step{{Title: "Install"}, {Title: "Import", Description: "Use it"}}, 1)
	assert.Equal(t, 1, strings.Count(out, `class="step current"`))
	assert.Contains(t, out, `<span class="step-number" aria-hidden="true">2</span>`)
	assert.Contains(t, out, "<p>Use it</p>")
}

func TestRenderFooter(t *testing.T) {
	out := RenderFooter(FooterOptions{
		SiteName: "OneKit JS",
		Footer: content.Footer{
			Tagline:   "Tiny utilities",
			Groups:    []content.LinkGroup{{Title: "Documentation", Links: []content.Link{{Label: "API", Href: "/docs"}}}},
			Copyright: "© 2024 OneKit JS",
		},
	})
	assert.Contains(t, out, "<h4>Documentation</h4>")
	assert.Contains(t, out, `<a href="/docs">API</a>`)
	assert.Contains(t, out, "© 2024 OneKit JS")
}

func TestRenderCard(t *testing.T) {
	out := RenderCard(CardOptions{ID: "ex-1", Title: "Counter", Badges: DifficultyBadge(content.DifficultyBeginner), Body: "<p>x</p>"})
	assert.Contains(t, out, `<article class="card" id="ex-1">`)
	assert.Contains(t, out, `Counter<span class="badge badge-beginner">`)
	assert.NotContains(t, out, "card-footer")
}

func TestRenderProse(t *testing.T) {
	assert.Empty(t, RenderProse(""))
	assert.Contains(t, RenderProse("**bold**"), "<strong>bold</strong>")
}
