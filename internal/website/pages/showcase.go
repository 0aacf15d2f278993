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

// ShowcasePage renders example UI fragments with their source.
type ShowcasePage struct {
	Shell
	category string
}

// NewShowcasePage returns a factory for the showcase page.
func NewShowcasePage(deps *Deps) func() core.Component {
	return func() core.Component {
		return &ShowcasePage{Shell: newShell(deps, "/showcase")}
	}
}

func (p *ShowcasePage) Name() string { return "showcase" }

func (p *ShowcasePage) categoryIDs() []string {
	return idsOf(p.content.Showcase.Categories, func(c content.ShowcaseCategory) string { return c.ID })
}

func (p *ShowcasePage) Mount(ctx context.Context, params core.Params, session core.Session) error {
	p.mountShell(session)
	p.category = pick(params.Get("category"), p.categoryIDs())
	return nil
}

func (p *ShowcasePage) HandleEvent(ctx context.Context, event string, payload map[string]any) error {
	if ok, err := p.handleShellEvent(ctx, event, payload); ok {
		return err
	}
	switch event {
	case "select_category":
		if id, ok := selectID(payload, "category", p.categoryIDs()); ok {
			p.category = id
		}
		return nil
	}
	return unknownEvent(event)
}

func (p *ShowcasePage) HandleInfo(ctx context.Context, msg any) error {
	p.handleShellInfo(msg)
	return nil
}

func (p *ShowcasePage) Terminate(ctx context.Context, reason core.TerminateReason) error {
	p.terminateShell()
	return nil
}

// Category returns the selected category id.
func (p *ShowcasePage) Category() string { return p.category }

func (p *ShowcasePage) Render(ctx context.Context) core.Renderer {
	return p.renderer(p.body)
}

func (p *ShowcasePage) body() string {
	sc := p.content.Showcase
	var sb strings.Builder

	sb.WriteString(components.RenderHero(components.HeroOptions{Hero: sc.Hero}))

	items := make([]components.TabItem, 0, len(sc.Categories))
	for _, c := range sc.Categories {
		items = append(items, components.TabItem{ID: c.ID, Label: c.Title})
	}

	var panel strings.Builder
	if cat, ok := sc.Category(p.category); ok {
		panel.WriteString(fmt.Sprintf(`<p>%s</p>`, html.EscapeString(cat.Description)))
		for _, it := range cat.Items {
			panel.WriteString(components.RenderCard(components.CardOptions{
				ID:          it.ID,
				Title:       it.Title,
				Description: it.Description,
				Body:        p.code("showcase-"+it.ID, "", it.Language, it.Code),
			}))
		}
	}
	sb.WriteString(section("showcase", components.RenderTabs(components.TabsOptions{
		Label:  "Showcase categories",
		Event:  "select_category",
		Param:  "category",
		Items:  items,
		Active: p.category,
		Panel:  panel.String(),
	})))

	return sb.String()
}
