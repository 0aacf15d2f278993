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

// TutorialsPage lists tutorials by level and steps through an open one.
type TutorialsPage struct {
	Shell
	level    string
	tutorial string // empty when no tutorial is open
	step     int
}

// NewTutorialsPage returns a factory for the tutorials page.
func NewTutorialsPage(deps *Deps) func() core.Component {
	return func() core.Component {
		return &TutorialsPage{Shell: newShell(deps, "/tutorials")}
	}
}

func (p *TutorialsPage) Name() string { return "tutorials" }

func (p *TutorialsPage) levelIDs() []string {
	return idsOf(p.content.Tutorials.Levels, func(l content.Level) string { return l.ID })
}

// Mount reads level, tutorial and a 1-based step from params. Opening a
// tutorial also selects its level.
func (p *TutorialsPage) Mount(ctx context.Context, params core.Params, session core.Session) error {
	p.mountShell(session)
	p.level = pick(params.Get("level"), p.levelIDs())
	p.tutorial = ""
	p.step = 0

	if id := params.Get("tutorial"); id != "" {
		if tu, lvl, ok := p.content.Tutorials.Tutorial(id); ok {
			p.level = lvl.ID
			p.tutorial = tu.ID
			p.step = clamp(params.Int("step", 1)-1, len(tu.Steps))
		}
	}
	return nil
}

func clamp(step, n int) int {
	if n == 0 {
		return 0
	}
	return max(0, min(step, n-1))
}

func (p *TutorialsPage) current() (content.Tutorial, bool) {
	if p.tutorial == "" {
		return content.Tutorial{}, false
	}
	tu, _, ok := p.content.Tutorials.Tutorial(p.tutorial)
	return tu, ok
}

func (p *TutorialsPage) open(id string) bool {
	tu, lvl, ok := p.content.Tutorials.Tutorial(id)
	if !ok {
		return false
	}
	p.level = lvl.ID
	p.tutorial = tu.ID
	p.step = 0
	return true
}

func (p *TutorialsPage) HandleEvent(ctx context.Context, event string, payload map[string]any) error {
	if ok, err := p.handleShellEvent(ctx, event, payload); ok {
		return err
	}
	switch event {
	case "select_level":
		if id, ok := selectID(payload, "level", p.levelIDs()); ok {
			p.level = id
			p.tutorial = ""
			p.step = 0
		}
		return nil

	case "open_tutorial":
		p.open(core.PayloadString(payload, "tutorial"))
		return nil

	case "close_tutorial":
		p.tutorial = ""
		p.step = 0
		return nil

	case "next_step", "prev_step", "goto_step":
		tu, ok := p.current()
		if !ok {
			return nil
		}
		switch event {
		case "next_step":
			p.step = clamp(p.step+1, len(tu.Steps))
		case "prev_step":
			p.step = clamp(p.step-1, len(tu.Steps))
		default:
			n, err := strconv.Atoi(core.PayloadString(payload, "step"))
			if err == nil && n >= 0 && n < len(tu.Steps) {
				p.step = n
			}
		}
		return nil
	}
	return unknownEvent(event)
}

func (p *TutorialsPage) HandleInfo(ctx context.Context, msg any) error {
	p.handleShellInfo(msg)
	return nil
}

func (p *TutorialsPage) Terminate(ctx context.Context, reason core.TerminateReason) error {
	p.terminateShell()
	return nil
}

// Level returns the selected level id.
func (p *TutorialsPage) Level() string { return p.level }

// Tutorial returns the open tutorial id, or "".
func (p *TutorialsPage) Tutorial() string { return p.tutorial }

// Step returns the 0-based current step.
func (p *TutorialsPage) Step() int { return p.step }

// Progress returns the completion percentage of the open tutorial.
func (p *TutorialsPage) Progress() int {
	tu, ok := p.current()
	if !ok || len(tu.Steps) == 0 {
		return 0
	}
	return (p.step + 1) * 100 / len(tu.Steps)
}

func (p *TutorialsPage) Render(ctx context.Context) core.Renderer {
	return p.renderer(p.body)
}

func (p *TutorialsPage) body() string {
	tuts := p.content.Tutorials
	var sb strings.Builder

	sb.WriteString(components.RenderHero(components.HeroOptions{Hero: tuts.Hero}))

	if tu, ok := p.current(); ok {
		sb.WriteString(section("tutorial", p.renderTutorial(tu)))
		return sb.String()
	}

	items := make([]components.TabItem, 0, len(tuts.Levels))
	for _, l := range tuts.Levels {
		items = append(items, components.TabItem{ID: l.ID, Label: l.Title})
	}
	var panel strings.Builder
	if lvl, ok := tuts.Level(p.level); ok {
		panel.WriteString(fmt.Sprintf(`<p>%s <span class="badge badge-tag">%s</span></p>`,
			html.EscapeString(lvl.Description), html.EscapeString(lvl.Duration)))
		cards := make([]string, 0, len(lvl.Tutorials))
		for _, tu := range lvl.Tutorials {
			cards = append(cards, components.RenderCard(components.CardOptions{
				ID:          tu.ID,
				Title:       tu.Title,
				Badges:      " " + components.DifficultyBadge(tu.Difficulty),
				Description: tu.Description,
				Body:        fmt.Sprintf(`<p class="card-meta">%s · %d steps</p>%s`, html.EscapeString(tu.Duration), len(tu.Steps), components.TagBadges(tu.Topics)),
				Footer: fmt.Sprintf(`<button type="button" class="btn btn-primary" lv-click="open_tutorial" lv-value-tutorial="%s">Start Tutorial</button>`,
					html.EscapeString(tu.ID)),
			}))
		}
		panel.WriteString(components.RenderGrid(2, cards))
	}
	sb.WriteString(section("levels", components.RenderTabs(components.TabsOptions{
		Label:  "Tutorial levels",
		Event:  "select_level",
		Param:  "level",
		Items:  items,
		Active: p.level,
		Panel:  panel.String(),
	})))

	return sb.String()
}

func (p *TutorialsPage) renderTutorial(tu content.Tutorial) string {
	var sb strings.Builder
	n := len(tu.Steps)

	sb.WriteString(`<div class="tutorial">`)
	sb.WriteString(`<button type="button" class="btn btn-secondary" lv-click="close_tutorial">← All tutorials</button>`)
	sb.WriteString(fmt.Sprintf(`<h2>%s</h2>`, html.EscapeString(tu.Title)))
	sb.WriteString(components.RenderProgress(p.Progress(), fmt.Sprintf("Step %d of %d", p.step+1, n)))

	sb.WriteString(`<nav class="stepper" aria-label="Steps">`)
	for i, st := range tu.Steps {
		class := "step-dot"
		current := ""
		if i == p.step {
			class += " active"
			current = ` aria-current="step"`
		}
		sb.WriteString(fmt.Sprintf(`<button type="button" class="%s" lv-click="goto_step" lv-value-step="%d" title="%s"%s>%d</button>`,
			class, i, html.EscapeString(st.Title), current, i+1))
	}
	sb.WriteString(`</nav>`)

	if n > 0 {
		st := tu.Steps[p.step]
		sb.WriteString(fmt.Sprintf(`<h3>%s</h3>`, html.EscapeString(st.Title)))
		sb.WriteString(components.RenderProse(st.Explanation))
		if st.Code != "" {
			sb.WriteString(p.code(fmt.Sprintf("tutorial-%s-%d", tu.ID, p.step+1), "", "javascript", st.Code))
		}
	}

	sb.WriteString(`<div class="stepper-actions">`)
	prevDisabled := ""
	if p.step == 0 {
		prevDisabled = " disabled"
	}
	sb.WriteString(fmt.Sprintf(`<button type="button" class="btn btn-secondary" lv-click="prev_step"%s>Previous</button>`, prevDisabled))
	if p.step < n-1 {
		sb.WriteString(`<button type="button" class="btn btn-primary" lv-click="next_step">Next</button>`)
	} else if next, _, ok := p.content.Tutorials.Tutorial(tu.Next); ok {
		sb.WriteString(fmt.Sprintf(`<button type="button" class="btn btn-primary" lv-click="open_tutorial" lv-value-tutorial="%s">Next tutorial: %s</button>`,
			html.EscapeString(next.ID), html.EscapeString(next.Title)))
	}
	sb.WriteString(`</div></div>`)

	return sb.String()
}
