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

// APIPage is the API reference with a section sidebar.
type APIPage struct {
	Shell
	section string
}

// NewAPIPage returns a factory for the API reference.
func NewAPIPage(deps *Deps) func() core.Component {
	return func() core.Component {
		return &APIPage{Shell: newShell(deps, "/docs")}
	}
}

func (p *APIPage) Name() string { return "api" }

func (p *APIPage) sectionIDs() []string {
	return idsOf(p.content.API.Sections, func(s content.APISection) string { return s.ID })
}

func (p *APIPage) Mount(ctx context.Context, params core.Params, session core.Session) error {
	p.mountShell(session)
	p.section = pick(params.Get("section"), p.sectionIDs())
	return nil
}

func (p *APIPage) HandleEvent(ctx context.Context, event string, payload map[string]any) error {
	if ok, err := p.handleShellEvent(ctx, event, payload); ok {
		return err
	}
	switch event {
	case "select_section":
		if id, ok := selectID(payload, "section", p.sectionIDs()); ok {
			p.section = id
		}
		return nil
	}
	return unknownEvent(event)
}

func (p *APIPage) HandleInfo(ctx context.Context, msg any) error {
	p.handleShellInfo(msg)
	return nil
}

func (p *APIPage) Terminate(ctx context.Context, reason core.TerminateReason) error {
	p.terminateShell()
	return nil
}

// Section returns the selected section id.
func (p *APIPage) Section() string { return p.section }

func (p *APIPage) Render(ctx context.Context) core.Renderer {
	return p.renderer(p.body)
}

func (p *APIPage) body() string {
	api := p.content.API
	var sb strings.Builder

	sb.WriteString(components.RenderHero(components.HeroOptions{Hero: api.Hero}))

	items := make([]components.TabItem, 0, len(api.Sections))
	for _, s := range api.Sections {
		items = append(items, components.TabItem{ID: s.ID, Label: s.Name})
	}

	var panel string
	if sec, ok := api.Section(p.section); ok {
		panel = p.renderSection(sec)
	}

	sb.WriteString(section("api", `<div class="docs-layout">`+components.RenderTabs(components.TabsOptions{
		Label:    "API sections",
		Event:    "select_section",
		Param:    "section",
		Items:    items,
		Active:   p.section,
		Panel:    panel,
		Vertical: true,
	})+`</div>`))

	return sb.String()
}

func (p *APIPage) renderSection(sec content.APISection) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<h2>%s</h2>`, html.EscapeString(sec.Name)))
	sb.WriteString(fmt.Sprintf(`<p>%s</p>`, html.EscapeString(sec.Description)))
	sb.WriteString(components.RenderProse(sec.Notes))

	for _, m := range sec.Methods {
		anchor := content.Anchor(m.Name)
		sb.WriteString(fmt.Sprintf(`<article class="api-method" id="%s">`, html.EscapeString(anchor)))
		sb.WriteString(fmt.Sprintf(`<h3><code>%s</code></h3>`, html.EscapeString(m.Name)))
		sb.WriteString(fmt.Sprintf(`<div class="api-signature">%s</div>`, html.EscapeString(m.Signature)))
		sb.WriteString(fmt.Sprintf(`<p>%s</p>`, html.EscapeString(m.Description)))

		if len(m.Params) > 0 {
			sb.WriteString(`<table class="api-params"><thead><tr><th>Parameter</th><th>Type</th><th>Description</th></tr></thead><tbody>`)
			for _, param := range m.Params {
				sb.WriteString(fmt.Sprintf(`<tr><td><code>%s</code></td><td><code>%s</code></td><td>%s</td></tr>`,
					html.EscapeString(param.Name), html.EscapeString(param.Type), html.EscapeString(param.Description)))
			}
			sb.WriteString(`</tbody></table>`)
		}
		if m.Returns != "" {
			sb.WriteString(fmt.Sprintf(`<p class="api-returns"><strong>Returns:</strong> <code>%s</code></p>`, html.EscapeString(m.Returns)))
		}
		if m.Example != "" {
			sb.WriteString(p.code("api-"+sec.ID+"-"+anchor, "Example", "javascript", m.Example))
		}
		sb.WriteString(`</article>`)
		sb.WriteString("\n")
	}
	return sb.String()
}
