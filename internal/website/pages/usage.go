package pages

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/onekit-js/onekit-site/internal/content"
	"github.com/onekit-js/onekit-site/internal/search"
	"github.com/onekit-js/onekit-site/internal/website/components"
	"github.com/onekit-js/onekit-site/pkg/core"
)

// Empty state shown when the search matches nothing.
const (
	NoExamplesTitle = "No examples found"
	NoExamplesText  = "Try adjusting your search terms or browse a different category."
)

// UsagePage lists usage examples by category with a search filter.
type UsagePage struct {
	Shell
	category string
	query    string
}

// NewUsagePage returns a factory for the usage examples page.
func NewUsagePage(deps *Deps) func() core.Component {
	return func() core.Component {
		return &UsagePage{Shell: newShell(deps, "/usage")}
	}
}

func (p *UsagePage) Name() string { return "usage" }

func (p *UsagePage) categoryIDs() []string {
	return idsOf(p.content.Usage.Categories, func(c content.UsageCategory) string { return c.ID })
}

func (p *UsagePage) Mount(ctx context.Context, params core.Params, session core.Session) error {
	p.mountShell(session)
	p.category = pick(params.Get("category"), p.categoryIDs())
	p.query = params.Get("q")
	return nil
}

func (p *UsagePage) HandleEvent(ctx context.Context, event string, payload map[string]any) error {
	if ok, err := p.handleShellEvent(ctx, event, payload); ok {
		return err
	}
	switch event {
	case "select_category":
		if id, ok := selectID(payload, "category", p.categoryIDs()); ok {
			p.category = id
		}
		return nil
	case "search":
		p.query = core.PayloadString(payload, "value")
		return nil
	}
	return unknownEvent(event)
}

func (p *UsagePage) HandleInfo(ctx context.Context, msg any) error {
	p.handleShellInfo(msg)
	return nil
}

func (p *UsagePage) Terminate(ctx context.Context, reason core.TerminateReason) error {
	p.terminateShell()
	return nil
}

// Category returns the selected category id.
func (p *UsagePage) Category() string { return p.category }

// Query returns the current search query.
func (p *UsagePage) Query() string { return p.query }

// Visible returns the examples of the selected category that match the
// query, in content order.
func (p *UsagePage) Visible() []content.Example {
	cat, ok := p.content.Usage.Category(p.category)
	if !ok {
		return nil
	}
	return search.Filter(cat.Examples, p.query)
}

func (p *UsagePage) Render(ctx context.Context) core.Renderer {
	return p.renderer(p.body)
}

func (p *UsagePage) body() string {
	usage := p.content.Usage
	var sb strings.Builder

	sb.WriteString(components.RenderHero(components.HeroOptions{Hero: usage.Hero}))

	items := make([]components.TabItem, 0, len(usage.Categories))
	for _, c := range usage.Categories {
		items = append(items, components.TabItem{ID: c.ID, Label: c.Title})
	}

	sb.WriteString(`<section class="section"><div class="container">`)
	// The input stays outside any slot so typing is never overwritten.
	sb.WriteString(components.RenderSearchBox(components.SearchBoxOptions{
		Event:       "search",
		Value:       p.query,
		Placeholder: usage.SearchPlaceholder,
		Label:       "Search examples",
	}))
	sb.WriteString(`<div data-slot="categories">`)
	sb.WriteString(components.RenderTabs(components.TabsOptions{
		Label:  "Example categories",
		Event:  "select_category",
		Param:  "category",
		Items:  items,
		Active: p.category,
	}))
	sb.WriteString(`</div>`)
	sb.WriteString(`<div data-slot="results">`)
	sb.WriteString(p.results())
	sb.WriteString(`</div>`)
	sb.WriteString(`</div></section>`)
	sb.WriteString("\n")

	sb.WriteString(`<section class="section"><div class="container"><h2>Learning Path</h2>`)
	sb.WriteString(components.RenderSteps(usage.LearningPath, -1))
	sb.WriteString(`</div></section>`)
	sb.WriteString("\n")

	return sb.String()
}

func (p *UsagePage) results() string {
	cat, ok := p.content.Usage.Category(p.category)
	if !ok {
		return ""
	}
	visible := p.Visible()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<p class="category-description">%s</p>`, html.EscapeString(cat.Description)))
	if len(visible) == 0 {
		sb.WriteString(components.RenderEmptyState(NoExamplesTitle, NoExamplesText))
		return sb.String()
	}

	cards := make([]string, 0, len(visible))
	for _, ex := range visible {
		cards = append(cards, components.RenderCard(components.CardOptions{
			ID:              ex.ID,
			TitleHTML:       search.Highlight(ex.Name, p.query),
			Badges:          " " + components.DifficultyBadge(ex.Difficulty),
			DescriptionHTML: search.Highlight(ex.Description, p.query),
			Body:            p.code("example-"+ex.ID, "", ex.Language, ex.Code),
			Footer:          components.TagBadges(ex.Tags),
		}))
	}
	sb.WriteString(components.RenderGrid(2, cards))
	return sb.String()
}
