package pages

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/onekit-js/onekit-site/internal/content"
	"github.com/onekit-js/onekit-site/internal/website/components"
	"github.com/onekit-js/onekit-site/pkg/core"
)

// HomePage is the landing page.
type HomePage struct {
	Shell
	tab string
}

// NewHomePage returns a factory for the landing page.
func NewHomePage(deps *Deps) func() core.Component {
	return func() core.Component {
		return &HomePage{Shell: newShell(deps, "/")}
	}
}

func (p *HomePage) Name() string { return "home" }

func (p *HomePage) tabIDs() []string {
	return idsOf(p.content.Home.QuickStart, func(t content.Tab) string { return t.ID })
}

func (p *HomePage) Mount(ctx context.Context, params core.Params, session core.Session) error {
	p.mountShell(session)
	p.tab = pick(params.Get("tab"), p.tabIDs())
	return nil
}

func (p *HomePage) HandleEvent(ctx context.Context, event string, payload map[string]any) error {
	if ok, err := p.handleShellEvent(ctx, event, payload); ok {
		return err
	}
	switch event {
	case "select_tab":
		if id, ok := selectID(payload, "tab", p.tabIDs()); ok {
			p.tab = id
		}
		return nil
	}
	return unknownEvent(event)
}

func (p *HomePage) HandleInfo(ctx context.Context, msg any) error {
	p.handleShellInfo(msg)
	return nil
}

func (p *HomePage) Terminate(ctx context.Context, reason core.TerminateReason) error {
	p.terminateShell()
	return nil
}

// Tab returns the selected quick-start tab.
func (p *HomePage) Tab() string { return p.tab }

func (p *HomePage) Render(ctx context.Context) core.Renderer {
	return p.renderer(p.body)
}

func (p *HomePage) body() string {
	home := p.content.Home
	var sb strings.Builder

	install := `<div class="install-line" data-slot="install">` +
		fmt.Sprintf(`<code>%s</code>`, html.EscapeString(home.Install)) +
		components.RenderCopyButton("home-install", p.copy.Copied("home-install")) +
		components.RenderCopySource("home-install", home.Install) +
		`</div>`

	sb.WriteString(components.RenderHero(components.HeroOptions{
		Hero: home.Hero,
		Buttons: []components.HeroButton{
			{Link: home.CTA.Primary, Primary: true},
			{Link: home.CTA.Secondary},
		},
		Extra: install + components.RenderStats(home.Stats),
	}))

	// Features
	cards := make([]string, 0, len(home.Features))
	for _, f := range home.Features {
		body := ""
		if f.Code != "" {
			body = components.RenderCode(components.CodeOptions{Language: "javascript", Code: f.Code})
		}
		cards = append(cards, components.RenderCard(components.CardOptions{
			Title:       f.Title,
			Description: f.Description,
			Body:        body,
		}))
	}
	sb.WriteString(`<section class="section"><div class="container">`)
	sb.WriteString(fmt.Sprintf(`<h2 class="text-center">%s</h2><p class="text-center">%s</p>`,
		html.EscapeString(home.FeaturesTitle), html.EscapeString(home.FeaturesIntro)))
	sb.WriteString(components.RenderGrid(3, cards))
	sb.WriteString(`</div></section>`)
	sb.WriteString("\n")

	// Quick start
	items := make([]components.TabItem, 0, len(home.QuickStart))
	var panel strings.Builder
	for _, t := range home.QuickStart {
		items = append(items, components.TabItem{ID: t.ID, Label: t.Label})
		if t.ID != p.tab {
			continue
		}
		if t.Description != "" {
			panel.WriteString(fmt.Sprintf(`<p>%s</p>`, html.EscapeString(t.Description)))
		}
		for _, sn := range t.Snippets {
			panel.WriteString(p.code(sn.ID, sn.Title, sn.Language, sn.Code))
		}
	}
	sb.WriteString(section("quick-start", `<h2>Quick Start</h2>`+components.RenderTabs(components.TabsOptions{
		Label:  "Quick start",
		Event:  "select_tab",
		Param:  "tab",
		Items:  items,
		Active: p.tab,
		Panel:  panel.String(),
	})))

	// Core features and overview
	coreCards := make([]string, 0, len(home.CoreFeatures))
	for _, f := range home.CoreFeatures {
		coreCards = append(coreCards, components.RenderCard(components.CardOptions{Title: f.Title, Description: f.Description}))
	}
	sb.WriteString(section("overview", `<h2>Core Features</h2>`+
		components.RenderGrid(3, coreCards)+
		p.code(home.Overview.ID, home.Overview.Title, home.Overview.Language, home.Overview.Code)))

	sb.WriteString(`<div class="container">`)
	sb.WriteString(components.RenderCTA(home.CTA))
	sb.WriteString(`</div>`)

	return sb.String()
}
