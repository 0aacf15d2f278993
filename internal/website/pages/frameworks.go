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

// FrameworksPage shows integration guides per framework.
type FrameworksPage struct {
	Shell
	framework string
}

// NewFrameworksPage returns a factory for the framework integration page.
func NewFrameworksPage(deps *Deps) func() core.Component {
	return func() core.Component {
		return &FrameworksPage{Shell: newShell(deps, "/frameworks")}
	}
}

func (p *FrameworksPage) Name() string { return "frameworks" }

func (p *FrameworksPage) frameworkIDs() []string {
	return idsOf(p.content.Frameworks.Frameworks, func(f content.Framework) string { return f.ID })
}

func (p *FrameworksPage) Mount(ctx context.Context, params core.Params, session core.Session) error {
	p.mountShell(session)
	p.framework = pick(params.Get("tab"), p.frameworkIDs())
	return nil
}

func (p *FrameworksPage) HandleEvent(ctx context.Context, event string, payload map[string]any) error {
	if ok, err := p.handleShellEvent(ctx, event, payload); ok {
		return err
	}
	switch event {
	case "select_framework":
		if id, ok := selectID(payload, "framework", p.frameworkIDs()); ok {
			p.framework = id
		}
		return nil
	}
	return unknownEvent(event)
}

func (p *FrameworksPage) HandleInfo(ctx context.Context, msg any) error {
	p.handleShellInfo(msg)
	return nil
}

func (p *FrameworksPage) Terminate(ctx context.Context, reason core.TerminateReason) error {
	p.terminateShell()
	return nil
}

// Framework returns the selected framework id.
func (p *FrameworksPage) Framework() string { return p.framework }

func (p *FrameworksPage) Render(ctx context.Context) core.Renderer {
	return p.renderer(p.body)
}

func (p *FrameworksPage) body() string {
	fws := p.content.Frameworks
	var sb strings.Builder

	sb.WriteString(components.RenderHero(components.HeroOptions{Hero: fws.Hero}))

	items := make([]components.TabItem, 0, len(fws.Frameworks))
	for _, fw := range fws.Frameworks {
		items = append(items, components.TabItem{ID: fw.ID, Label: fw.Name})
	}

	var panel strings.Builder
	if fw, ok := fws.Framework(p.framework); ok {
		panel.WriteString(fmt.Sprintf(`<p>%s</p>`, html.EscapeString(fw.Description)))
		for _, g := range fw.Guides {
			panel.WriteString(fmt.Sprintf(`<h3>%s</h3>`, html.EscapeString(g.Title)))
			if g.Description != "" {
				panel.WriteString(fmt.Sprintf(`<p>%s</p>`, html.EscapeString(g.Description)))
			}
			panel.WriteString(p.code("fw-"+fw.ID+"-"+g.ID, g.Title, g.Language, g.Code))
		}
	}
	sb.WriteString(section("frameworks", components.RenderTabs(components.TabsOptions{
		Label:  "Frameworks",
		Event:  "select_framework",
		Param:  "framework",
		Items:  items,
		Active: p.framework,
		Panel:  panel.String(),
	})))

	return sb.String()
}
