package pages

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/onekit-js/onekit-site/internal/content"
	"github.com/onekit-js/onekit-site/internal/website/components"
	"github.com/onekit-js/onekit-site/pkg/core"
)

// ExamplesPage shows code tabs next to a live reactive demo.
type ExamplesPage struct {
	Shell
	tab string

	count   int
	text    string
	items   []string
	visible bool
}

// NewExamplesPage returns a factory for the interactive examples page.
func NewExamplesPage(deps *Deps) func() core.Component {
	return func() core.Component {
		return &ExamplesPage{Shell: newShell(deps, "/examples")}
	}
}

func (p *ExamplesPage) Name() string { return "examples" }

func (p *ExamplesPage) tabIDs() []string {
	return idsOf(p.content.Examples.Tabs, func(s content.Snippet) string { return s.ID })
}

func (p *ExamplesPage) Mount(ctx context.Context, params core.Params, session core.Session) error {
	p.mountShell(session)
	p.tab = pick(params.Get("tab"), p.tabIDs())

	demo := p.content.Examples.Demo
	p.count = 0
	p.text = demo.Text
	p.items = append([]string(nil), demo.Items...)
	p.visible = true
	return nil
}

func (p *ExamplesPage) HandleEvent(ctx context.Context, event string, payload map[string]any) error {
	if ok, err := p.handleShellEvent(ctx, event, payload); ok {
		return err
	}
	switch event {
	case "select_tab":
		if id, ok := selectID(payload, "tab", p.tabIDs()); ok {
			p.tab = id
		}
	case "increment":
		p.count++
	case "decrement":
		p.count--
	case "reset_count":
		p.count = 0
	case "set_text":
		p.text = core.PayloadString(payload, "value")
	case "add_item":
		p.items = append(p.items, "Item "+strconv.Itoa(len(p.items)+1))
	case "remove_item":
		i, err := strconv.Atoi(core.PayloadString(payload, "index"))
		if err == nil && i >= 0 && i < len(p.items) {
			p.items = append(p.items[:i], p.items[i+1:]...)
		}
	case "toggle_visibility":
		p.visible = !p.visible
	default:
		return unknownEvent(event)
	}
	return nil
}

func (p *ExamplesPage) HandleInfo(ctx context.Context, msg any) error {
	p.handleShellInfo(msg)
	return nil
}

func (p *ExamplesPage) Terminate(ctx context.Context, reason core.TerminateReason) error {
	p.terminateShell()
	return nil
}

// Tab returns the selected tab id.
func (p *ExamplesPage) Tab() string { return p.tab }

// Count returns the demo counter.
func (p *ExamplesPage) Count() int { return p.count }

// Text returns the mirrored demo text.
func (p *ExamplesPage) Text() string { return p.text }

// Items returns the demo list.
func (p *ExamplesPage) Items() []string { return p.items }

// Visible reports whether the demo box is shown.
func (p *ExamplesPage) Visible() bool { return p.visible }

func (p *ExamplesPage) Render(ctx context.Context) core.Renderer {
	return p.renderer(p.body)
}

func (p *ExamplesPage) body() string {
	ex := p.content.Examples
	var sb strings.Builder

	sb.WriteString(components.RenderHero(components.HeroOptions{Hero: ex.Hero}))

	items := make([]components.TabItem, 0, len(ex.Tabs))
	for _, t := range ex.Tabs {
		items = append(items, components.TabItem{ID: t.ID, Label: t.Title})
	}
	var panel string
	if t, ok := ex.Tab(p.tab); ok {
		panel = fmt.Sprintf(`<p>%s</p>`, html.EscapeString(t.Description)) +
			p.code("examples-"+t.ID, t.Title, t.Language, t.Code)
	}
	sb.WriteString(section("tabs", components.RenderTabs(components.TabsOptions{
		Label:  "Examples",
		Event:  "select_tab",
		Param:  "tab",
		Items:  items,
		Active: p.tab,
		Panel:  panel,
	})))

	sb.WriteString(`<section class="section"><div class="container"><h2>Live Demo</h2><div class="grid grid-2">`)

	sb.WriteString(`<div class="card demo"><h3 class="card-title">Counter</h3>`)
	sb.WriteString(fmt.Sprintf(`<p class="demo-value" data-slot="demo-count">%d</p>`, p.count))
	sb.WriteString(`<div class="hero-actions">`)
	sb.WriteString(`<button type="button" class="btn btn-secondary" lv-click="decrement" aria-label="Decrement">−</button>`)
	sb.WriteString(`<button type="button" class="btn btn-primary" lv-click="increment" aria-label="Increment">+</button>`)
	sb.WriteString(`<button type="button" class="btn btn-secondary" lv-click="reset_count">Reset</button>`)
	sb.WriteString(`</div></div>`)

	sb.WriteString(`<div class="card demo"><h3 class="card-title">Text Binding</h3>`)
	sb.WriteString(fmt.Sprintf(`<input type="text" class="search-input" lv-input="set_text" value="%s" aria-label="Demo text">`, html.EscapeString(p.text)))
	sb.WriteString(fmt.Sprintf(`<p class="demo-value" data-slot="demo-text">%s</p>`, html.EscapeString(p.text)))
	sb.WriteString(`</div>`)

	sb.WriteString(`<div class="card demo"><h3 class="card-title">List</h3>`)
	sb.WriteString(`<ul class="demo-list" data-slot="demo-items">`)
	for i, it := range p.items {
		sb.WriteString(fmt.Sprintf(`<li><span>%s</span><button type="button" class="btn btn-secondary" lv-click="remove_item" lv-value-index="%d" aria-label="Remove %s">×</button></li>`,
			html.EscapeString(it), i, html.EscapeString(it)))
	}
	sb.WriteString(`</ul>`)
	sb.WriteString(`<button type="button" class="btn btn-primary" lv-click="add_item">Add Item</button>`)
	sb.WriteString(`</div>`)

	sb.WriteString(`<div class="card demo"><h3 class="card-title">Visibility</h3>`)
	sb.WriteString(`<button type="button" class="btn btn-primary" lv-click="toggle_visibility">Toggle</button>`)
	sb.WriteString(`<div data-slot="demo-visibility">`)
	if p.visible {
		sb.WriteString(`<p class="demo-value">I'm visible!</p>`)
	}
	sb.WriteString(`</div></div>`)

	sb.WriteString(`</div></div></section>`)
	sb.WriteString("\n")

	return sb.String()
}
