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

// InstallationPage is the installation guide.
type InstallationPage struct {
	Shell
	method string
	guide  string
}

// NewInstallationPage returns a factory for the installation guide.
func NewInstallationPage(deps *Deps) func() core.Component {
	return func() core.Component {
		return &InstallationPage{Shell: newShell(deps, "/installation")}
	}
}

func (p *InstallationPage) Name() string { return "installation" }

func (p *InstallationPage) methodIDs() []string {
	return idsOf(p.content.Installation.Methods, func(s content.Snippet) string { return s.ID })
}

func (p *InstallationPage) guideIDs() []string {
	return idsOf(p.content.Installation.Guides, func(t content.Tab) string { return t.ID })
}

func (p *InstallationPage) Mount(ctx context.Context, params core.Params, session core.Session) error {
	p.mountShell(session)
	p.method = pick(params.Get("tab"), p.methodIDs())
	p.guide = pick(params.Get("category"), p.guideIDs())
	return nil
}

func (p *InstallationPage) HandleEvent(ctx context.Context, event string, payload map[string]any) error {
	if ok, err := p.handleShellEvent(ctx, event, payload); ok {
		return err
	}
	switch event {
	case "select_method":
		if id, ok := selectID(payload, "method", p.methodIDs()); ok {
			p.method = id
		}
		return nil
	case "select_guide":
		if id, ok := selectID(payload, "guide", p.guideIDs()); ok {
			p.guide = id
		}
		return nil
	}
	return unknownEvent(event)
}

func (p *InstallationPage) HandleInfo(ctx context.Context, msg any) error {
	p.handleShellInfo(msg)
	return nil
}

func (p *InstallationPage) Terminate(ctx context.Context, reason core.TerminateReason) error {
	p.terminateShell()
	return nil
}

// Method returns the selected installation method.
func (p *InstallationPage) Method() string { return p.method }

func (p *InstallationPage) Render(ctx context.Context) core.Renderer {
	return p.renderer(p.body)
}

func (p *InstallationPage) body() string {
	inst := p.content.Installation
	var sb strings.Builder

	sb.WriteString(components.RenderHero(components.HeroOptions{Hero: inst.Hero}))

	items := make([]components.TabItem, 0, len(inst.Methods))
	for _, m := range inst.Methods {
		items = append(items, components.TabItem{ID: m.ID, Label: m.Title})
	}
	var panel strings.Builder
	if m, ok := inst.Method(p.method); ok {
		if m.Description != "" {
			panel.WriteString(fmt.Sprintf(`<p>%s</p>`, html.EscapeString(m.Description)))
		}
		panel.WriteString(p.code("method-"+m.ID, m.Title, m.Language, m.Code))
	}
	sb.WriteString(section("methods", `<h2>Installation Methods</h2>`+components.RenderTabs(components.TabsOptions{
		Label:  "Installation method",
		Event:  "select_method",
		Param:  "method",
		Items:  items,
		Active: p.method,
		Panel:  panel.String(),
	})))

	sb.WriteString(`<section class="section"><div class="container"><h2>Setup Steps</h2>`)
	sb.WriteString(components.RenderSteps(inst.Steps, -1))
	sb.WriteString(`</div></section>`)
	sb.WriteString("\n")

	guides := make([]components.TabItem, 0, len(inst.Guides))
	var guidePanel strings.Builder
	for _, g := range inst.Guides {
		guides = append(guides, components.TabItem{ID: g.ID, Label: g.Label})
		if g.ID != p.guide {
			continue
		}
		cards := make([]string, 0, len(g.Snippets))
		for _, sn := range g.Snippets {
			cards = append(cards, components.RenderCard(components.CardOptions{
				Title:       sn.Title,
				Description: sn.Description,
				Body:        p.code("guide-"+g.ID+"-"+sn.ID, "", sn.Language, sn.Code),
			}))
		}
		guidePanel.WriteString(components.RenderGrid(2, cards))
	}
	sb.WriteString(section("guides", `<h2>Quick Start Guides</h2>`+components.RenderTabs(components.TabsOptions{
		Label:  "Guides",
		Event:  "select_guide",
		Param:  "guide",
		Items:  guides,
		Active: p.guide,
		Panel:  guidePanel.String(),
	})))

	return sb.String()
}
