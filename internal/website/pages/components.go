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

// ComponentsPage is the component library overview.
type ComponentsPage struct {
	Shell
	category string
}

// NewComponentsPage returns a factory for the component library page.
func NewComponentsPage(deps *Deps) func() core.Component {
	return func() core.Component {
		return &ComponentsPage{Shell: newShell(deps, "/components")}
	}
}

func (p *ComponentsPage) Name() string { return "components" }

func (p *ComponentsPage) categoryIDs() []string {
	return idsOf(p.content.Components.Categories, func(c content.ComponentCategory) string { return c.ID })
}

func (p *ComponentsPage) Mount(ctx context.Context, params core.Params, session core.Session) error {
	p.mountShell(session)
	p.category = pick(params.Get("category"), p.categoryIDs())
	return nil
}

func (p *ComponentsPage) HandleEvent(ctx context.Context, event string, payload map[string]any) error {
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

func (p *ComponentsPage) HandleInfo(ctx context.Context, msg any) error {
	p.handleShellInfo(msg)
	return nil
}

func (p *ComponentsPage) Terminate(ctx context.Context, reason core.TerminateReason) error {
	p.terminateShell()
	return nil
}

// Category returns the selected category id.
func (p *ComponentsPage) Category() string { return p.category }

func (p *ComponentsPage) Render(ctx context.Context) core.Renderer {
	return p.renderer(p.body)
}

func (p *ComponentsPage) body() string {
	lib := p.content.Components
	var sb strings.Builder

	sb.WriteString(components.RenderHero(components.HeroOptions{Hero: lib.Hero}))

	items := make([]components.TabItem, 0, len(lib.Categories))
	for _, c := range lib.Categories {
		items = append(items, components.TabItem{ID: c.ID, Label: c.Name})
	}

	var panel strings.Builder
	if cat, ok := lib.Category(p.category); ok {
		panel.WriteString(fmt.Sprintf(`<p>%s</p>`, html.EscapeString(cat.Description)))
		cards := make([]string, 0, len(cat.Components))
		for _, c := range cat.Components {
			cards = append(cards, components.RenderCard(components.CardOptions{
				Title:       c.Name,
				Badges:      " " + components.StatusBadge(c.Status),
				Description: c.Description,
			}))
		}
		panel.WriteString(components.RenderGrid(3, cards))
	}
	sb.WriteString(section("library", components.RenderTabs(components.TabsOptions{
		Label:  "Component categories",
		Event:  "select_category",
		Param:  "category",
		Items:  items,
		Active: p.category,
		Panel:  panel.String(),
	})))

	var examples strings.Builder
	examples.WriteString(`<h2>Usage Examples</h2>`)
	for _, ex := range lib.Examples {
		examples.WriteString(components.RenderCard(components.CardOptions{
			Title:       ex.Title,
			Description: ex.Description,
			Body:        p.code("component-"+ex.ID, "", ex.Language, ex.Code),
		}))
	}
	sb.WriteString(section("examples", examples.String()))

	return sb.String()
}
