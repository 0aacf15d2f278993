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

// AdvancedPage covers advanced feature areas.
type AdvancedPage struct {
	Shell
	topic string
}

// NewAdvancedPage returns a factory for the advanced features page.
func NewAdvancedPage(deps *Deps) func() core.Component {
	return func() core.Component {
		return &AdvancedPage{Shell: newShell(deps, "/advanced")}
	}
}

func (p *AdvancedPage) Name() string { return "advanced" }

func (p *AdvancedPage) topicIDs() []string {
	return idsOf(p.content.Advanced.Topics, func(t content.Topic) string { return t.ID })
}

func (p *AdvancedPage) Mount(ctx context.Context, params core.Params, session core.Session) error {
	p.mountShell(session)
	p.topic = pick(params.Get("tab"), p.topicIDs())
	return nil
}

func (p *AdvancedPage) HandleEvent(ctx context.Context, event string, payload map[string]any) error {
	if ok, err := p.handleShellEvent(ctx, event, payload); ok {
		return err
	}
	switch event {
	case "select_topic":
		if id, ok := selectID(payload, "topic", p.topicIDs()); ok {
			p.topic = id
		}
		return nil
	}
	return unknownEvent(event)
}

func (p *AdvancedPage) HandleInfo(ctx context.Context, msg any) error {
	p.handleShellInfo(msg)
	return nil
}

func (p *AdvancedPage) Terminate(ctx context.Context, reason core.TerminateReason) error {
	p.terminateShell()
	return nil
}

// Topic returns the selected topic id.
func (p *AdvancedPage) Topic() string { return p.topic }

func (p *AdvancedPage) Render(ctx context.Context) core.Renderer {
	return p.renderer(p.body)
}

func (p *AdvancedPage) body() string {
	adv := p.content.Advanced
	var sb strings.Builder

	sb.WriteString(components.RenderHero(components.HeroOptions{Hero: adv.Hero}))

	items := make([]components.TabItem, 0, len(adv.Topics))
	for _, t := range adv.Topics {
		items = append(items, components.TabItem{ID: t.ID, Label: t.Name})
	}

	var panel strings.Builder
	if t, ok := adv.Topic(p.topic); ok {
		panel.WriteString(fmt.Sprintf(`<p>%s</p>`, html.EscapeString(t.Description)))
		for _, s := range t.Snippets {
			panel.WriteString(components.RenderCard(components.CardOptions{
				Title:       s.Title,
				Description: s.Description,
				Body:        p.code("adv-"+t.ID+"-"+s.ID, "", s.Language, s.Code),
			}))
		}
	}
	sb.WriteString(section("topics", components.RenderTabs(components.TabsOptions{
		Label:  "Advanced topics",
		Event:  "select_topic",
		Param:  "topic",
		Items:  items,
		Active: p.topic,
		Panel:  panel.String(),
	})))

	return sb.String()
}
